package services

import (
	"math"
	"sort"
	"strconv"

	"spabook-backend/config"
	"spabook-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const earthRadiusKm = 6371.0

type GeoService struct {
	db  *gorm.DB
	cfg config.Platform
}

func NewGeoService(db *gorm.DB, cfg config.Platform) *GeoService {
	return &GeoService{db: db, cfg: cfg}
}

type NearbyResult struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	DistanceKm string    `json:"distance_km"`

	distance float64
}

// Nearby returns approved spas with known coordinates within radiusKm of
// the given point, closest first. radiusKm nil means the platform default.
func (s *GeoService) Nearby(lat, lng float64, radiusKm *float64) ([]NearbyResult, error) {
	if lat < -90 || lat > 90 {
		return nil, validationf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return nil, validationf("longitude must be between -180 and 180")
	}
	radius := s.cfg.DefaultRadiusKm
	if radiusKm != nil {
		radius = *radiusKm
	}
	if radius < s.cfg.MinRadiusKm || radius > s.cfg.MaxRadiusKm {
		return nil, validationf("radius must be between %.1f and %.0f km", s.cfg.MinRadiusKm, s.cfg.MaxRadiusKm)
	}

	var spas []models.Spa
	if err := s.db.
		Where("is_approved = true AND latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&spas).Error; err != nil {
		return nil, storagef("failed to load spas: %v", err)
	}

	results := make([]NearbyResult, 0, len(spas))
	for _, spa := range spas {
		d := haversineKm(lat, lng, *spa.Latitude, *spa.Longitude)
		if d > radius {
			continue
		}
		results = append(results, NearbyResult{
			ID:         spa.ID,
			Name:       spa.Name,
			Address:    spa.Address,
			Latitude:   *spa.Latitude,
			Longitude:  *spa.Longitude,
			DistanceKm: formatDistance(d),
			distance:   d,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].distance < results[j].distance
	})
	return results, nil
}

// haversineKm computes the great-circle distance between two points on a
// sphere of the fixed Earth radius.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// formatDistance renders a distance with at most two decimal places.
func formatDistance(km float64) string {
	return strconv.FormatFloat(round2(km), 'f', -1, 64)
}
