package models_test

import (
	"math"
	"testing"

	"hospital-locator/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewGeoPoint_LongitudeFirst(t *testing.T) {
	p := models.NewGeoPoint(72.85, 19.05)

	assert.Equal(t, "Point", p.Type)
	assert.Equal(t, []float64{72.85, 19.05}, p.Coordinates)
	assert.Equal(t, 72.85, p.Longitude())
	assert.Equal(t, 19.05, p.Latitude())
}

func TestGeoPoint_Validate(t *testing.T) {
	tests := []struct {
		name    string
		point   models.GeoPoint
		wantErr bool
	}{
		{"origin", models.NewGeoPoint(0, 0), false},
		{"bounds", models.NewGeoPoint(-180, 90), false},
		{"longitude too large", models.NewGeoPoint(180.5, 10), true},
		{"latitude too small", models.NewGeoPoint(10, -90.1), true},
		{"nan", models.NewGeoPoint(math.NaN(), 0), true},
		{"wrong type", models.GeoPoint{Type: "Polygon", Coordinates: []float64{0, 0}}, true},
		{"missing coordinate", models.GeoPoint{Type: "Point", Coordinates: []float64{1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccountUpdate_IsEmpty(t *testing.T) {
	assert.True(t, models.AccountUpdate{}.IsEmpty())
	assert.False(t, models.AccountUpdate{Specialists: models.Set([]string{})}.IsEmpty())
}
