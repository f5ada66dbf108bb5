package config

import (
	"os"
	"strconv"
)

// Platform holds the process-wide marketplace knobs. It is read from the
// environment once at startup and handed to services by value, so every
// operation works against the snapshot it was constructed with. The
// commission rate in particular is copied into a booking row at completion
// time and never recomputed.
type Platform struct {
	CommissionRate        float64 // platform's cut of the final price, e.g. 0.10
	LoyaltyPointsPerVisit int     // points awarded per completed booking
	OwnerDiscountCap      float64 // max coupon percent an owner may issue
	AdminDiscountCap      float64 // max coupon percent an admin may issue
	DefaultRadiusKm       float64 // nearby search radius when none given
	MinRadiusKm           float64
	MaxRadiusKm           float64
	AllowManualCompletion bool // complete bookings before their start time
}

func LoadPlatform() Platform {
	return Platform{
		CommissionRate:        envFloat("COMMISSION_RATE", 0.10),
		LoyaltyPointsPerVisit: envInt("LOYALTY_POINTS_PER_VISIT", 10),
		OwnerDiscountCap:      envFloat("OWNER_DISCOUNT_CAP", 40),
		AdminDiscountCap:      envFloat("ADMIN_DISCOUNT_CAP", 70),
		DefaultRadiusKm:       envFloat("DEFAULT_RADIUS_KM", 10),
		MinRadiusKm:           0.1,
		MaxRadiusKm:           100,
		AllowManualCompletion: envBool("ALLOW_MANUAL_COMPLETION", false),
	}
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
