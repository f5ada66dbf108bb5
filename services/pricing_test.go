package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalPrice(t *testing.T) {
	t.Run("No discount", func(t *testing.T) {
		assert.Equal(t, 500000.0, FinalPrice(500000, 0))
	})

	t.Run("Ten percent off", func(t *testing.T) {
		assert.Equal(t, 450000.0, FinalPrice(500000, 10))
	})

	t.Run("Rounds to two decimals", func(t *testing.T) {
		// 99.99 * 0.85 = 84.9915
		assert.Equal(t, 84.99, FinalPrice(99.99, 15))
	})

	t.Run("Full discount", func(t *testing.T) {
		assert.Equal(t, 0.0, FinalPrice(500000, 100))
	})
}

func TestCommissionAmount(t *testing.T) {
	t.Run("Ten percent rate", func(t *testing.T) {
		assert.Equal(t, 45000.0, CommissionAmount(450000, 0.10))
	})

	t.Run("Rounds to two decimals", func(t *testing.T) {
		// 333.33 * 0.15 = 49.9995
		assert.Equal(t, 50.0, CommissionAmount(333.33, 0.15))
	})

	t.Run("Zero rate", func(t *testing.T) {
		assert.Equal(t, 0.0, CommissionAmount(450000, 0))
	})
}

// Booking a 500000 service with a 10% coupon at a 10% commission rate: the
// customer pays 450000 and the owner's share is 405000.
func TestPricingScenario(t *testing.T) {
	finalPrice := FinalPrice(500000, 10)
	assert.Equal(t, 450000.0, finalPrice)

	commission := CommissionAmount(finalPrice, 0.10)
	assert.Equal(t, 45000.0, commission)

	assert.Equal(t, 405000.0, finalPrice-commission)
}
