package services

import "math"

// FinalPrice applies a percent discount to a base price, rounded to two
// decimals.
func FinalPrice(basePrice, discountPercent float64) float64 {
	return round2(basePrice * (1 - discountPercent/100))
}

// CommissionAmount is the platform's cut of the final price at the given
// rate, rounded to two decimals.
func CommissionAmount(finalPrice, rate float64) float64 {
	return round2(finalPrice * rate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
