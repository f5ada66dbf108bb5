package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "WELCOME10", NormalizeCouponCode("welcome10"))
	assert.Equal(t, "WELCOME10", NormalizeCouponCode("  Welcome10  "))
	assert.Equal(t, "", NormalizeCouponCode("   "))
}
