package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"hospital-locator/internal/models"
	"hospital-locator/internal/repository"
	"hospital-locator/internal/service"
	"hospital-locator/internal/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// query point used throughout: central Mumbai
const (
	queryLat = 19.0760
	queryLon = 72.8777
)

func seedMumbai(store *storetest.Store) {
	hospitals := []models.Hospital{
		{Name: "Alpha", Location: models.NewGeoPoint(72.8800, 19.0880), HasICU: true,
			Specialists: []string{"cardiologist"}, Equipment: []string{"mri"}},
		{Name: "Bravo", Location: models.NewGeoPoint(72.8400, 19.0500), HasICU: false,
			Specialists: []string{"general"}, Equipment: []string{"x_ray"}},
		{Name: "Charlie", Location: models.NewGeoPoint(72.9000, 19.1200), HasICU: true,
			Specialists: []string{"orthopedic"}, Equipment: []string{"ct_scanner"}},
		{Name: "Delta", Location: models.NewGeoPoint(72.8500, 19.0000), HasICU: false,
			Specialists: []string{"emergency", "pediatrician"}, Equipment: []string{"ultrasound"}},
		// Pune, well outside the search radius
		{Name: "Echo", Location: models.NewGeoPoint(73.8567, 18.5204), HasICU: true,
			Specialists: []string{"cardiologist"}, Equipment: []string{"mri"}},
	}
	for i := range hospitals {
		id := i + 1
		hospitals[i].HospitalID = &id
		store.AddHospital(hospitals[i])
	}
}

func names(views []service.HospitalView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Name)
	}
	return out
}

func newSearch(store *storetest.Store, ttl time.Duration) *service.SearchService {
	return service.NewSearchService(store, ttl, zap.NewNop())
}

func TestFindSuitable_SortedAndBounded(t *testing.T) {
	store := storetest.New()
	seedMumbai(store)
	svc := newSearch(store, 0)

	results, err := svc.FindSuitable(context.Background(), service.SearchRequest{Lat: queryLat, Lon: queryLon})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie", "Delta"}, names(results))
	for i, r := range results {
		assert.LessOrEqual(t, r.DistanceKm, 50.0)
		assert.NotEmpty(t, r.ID)
		if i > 0 {
			assert.LessOrEqual(t, results[i-1].DistanceKm, r.DistanceKm)
		}
	}
	require.NotNil(t, results[0].HospitalID)
	assert.Equal(t, 1, *results[0].HospitalID)
	assert.InDelta(t, 1.36, results[0].DistanceKm, 0.05)
}

func TestFindSuitable_DistanceRoundedToTwoDecimals(t *testing.T) {
	store := storetest.New()
	seedMumbai(store)
	svc := newSearch(store, 0)

	results, err := svc.FindSuitable(context.Background(), service.SearchRequest{Lat: queryLat, Lon: queryLon})
	require.NoError(t, err)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.InDelta(t, math.Round(r.DistanceKm*100)/100, r.DistanceKm, 1e-9)
	}
}

func TestFindSuitable_CapsResultCount(t *testing.T) {
	store := storetest.New()
	for i := 0; i < 25; i++ {
		store.AddHospital(models.Hospital{
			Name:     fmt.Sprintf("Clinic %02d", i),
			Location: models.NewGeoPoint(queryLon+float64(i)*0.001, queryLat),
		})
	}
	svc := newSearch(store, 0)

	results, err := svc.FindSuitable(context.Background(), service.SearchRequest{Lat: queryLat, Lon: queryLon})
	require.NoError(t, err)

	assert.Len(t, results, service.MaxSearchResults)
	assert.Equal(t, "Clinic 00", results[0].Name)
	assert.Equal(t, "Clinic 14", results[14].Name)
}

func TestFindSuitable_SpecialistFallsBackToEmergencyAndGeneral(t *testing.T) {
	store := storetest.New()
	seedMumbai(store)
	svc := newSearch(store, 0)

	results, err := svc.FindSuitable(context.Background(), service.SearchRequest{
		Lat: queryLat, Lon: queryLon, Specialist: "  Cardiologist",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Bravo", "Delta"}, names(results))
}

func TestFindSuitable_EquipmentAtLeastOne(t *testing.T) {
	store := storetest.New()
	seedMumbai(store)
	svc := newSearch(store, 0)

	results, err := svc.FindSuitable(context.Background(), service.SearchRequest{
		Lat: queryLat, Lon: queryLon, Equipment: []string{"MRI", "ct_scanner", " "},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Charlie"}, names(results))
}

func TestFindSuitable_NeedsICU(t *testing.T) {
	store := storetest.New()
	seedMumbai(store)
	svc := newSearch(store, 0)
	ctx := context.Background()

	withICU, err := svc.FindSuitable(ctx, service.SearchRequest{Lat: queryLat, Lon: queryLon, NeedsICU: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Charlie"}, names(withICU))
	for _, r := range withICU {
		assert.True(t, r.HasICU)
	}

	without, err := svc.FindSuitable(ctx, service.SearchRequest{Lat: queryLat, Lon: queryLon, NeedsICU: false})
	require.NoError(t, err)
	assert.Len(t, without, 4)
}

func TestFindSuitable_EmptyIsNotAnError(t *testing.T) {
	svc := newSearch(storetest.New(), 0)

	results, err := svc.FindSuitable(context.Background(), service.SearchRequest{Lat: 0, Lon: 0})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFindSuitable_Validation(t *testing.T) {
	store := storetest.New()
	svc := newSearch(store, 0)

	tests := []struct {
		name  string
		req   service.SearchRequest
		field string
	}{
		{"latitude too large", service.SearchRequest{Lat: 91, Lon: 0}, "lat"},
		{"longitude too small", service.SearchRequest{Lat: 0, Lon: -181}, "lon"},
		{"bad specialist", service.SearchRequest{Specialist: "cardio$"}, "specialist"},
		{"bad equipment", service.SearchRequest{Equipment: []string{"mri", "x;ray"}}, "equipment[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FindSuitable(context.Background(), tt.req)

			var vErr *service.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.NotEmpty(t, vErr.Violations)
			assert.Equal(t, tt.field, vErr.Violations[0].Field)
		})
	}
	assert.Zero(t, store.FindNearbyCalls, "validation must fail before the store is queried")
}

func TestFindSuitable_StoreFailures(t *testing.T) {
	store := storetest.New()
	svc := newSearch(store, 0)
	ctx := context.Background()

	store.FailWith(fmt.Errorf("%w: server selection timeout", repository.ErrStoreUnavailable))
	_, err := svc.FindSuitable(ctx, service.SearchRequest{Lat: queryLat, Lon: queryLon})
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)

	store.FailWith(errors.New("$geoNear requires a 2dsphere index"))
	_, err = svc.FindSuitable(ctx, service.SearchRequest{Lat: queryLat, Lon: queryLon})
	assert.ErrorIs(t, err, service.ErrInternal)
	assert.NotContains(t, err.Error(), "2dsphere")
}

func TestFindSuitable_CachesUntilInvalidated(t *testing.T) {
	store := storetest.New()
	seedMumbai(store)
	svc := newSearch(store, time.Minute)
	ctx := context.Background()
	req := service.SearchRequest{Lat: queryLat, Lon: queryLon, Equipment: []string{"ct_scanner", "mri"}}

	first, err := svc.FindSuitable(ctx, req)
	require.NoError(t, err)
	second, err := svc.FindSuitable(ctx, service.SearchRequest{Lat: queryLat, Lon: queryLon, Equipment: []string{"MRI", "ct_scanner"}})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.FindNearbyCalls)

	svc.Invalidate()
	_, err = svc.FindSuitable(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, store.FindNearbyCalls)
}

func TestFindNearby_RadiusDefaultsAndClamp(t *testing.T) {
	store := storetest.New()
	// roughly 15 km north of the query point
	store.AddHospital(models.Hospital{Name: "Far North", Location: models.NewGeoPoint(queryLon, queryLat+0.135)})
	store.AddHospital(models.Hospital{Name: "Near", Location: models.NewGeoPoint(queryLon, queryLat+0.01)})
	// roughly 60 km north
	store.AddHospital(models.Hospital{Name: "Out Of Range", Location: models.NewGeoPoint(queryLon, queryLat+0.54)})
	svc := newSearch(store, 0)
	ctx := context.Background()

	results, err := svc.FindNearby(ctx, queryLat, queryLon, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Near"}, names(results))

	results, err = svc.FindNearby(ctx, queryLat, queryLon, 20000)
	require.NoError(t, err)
	assert.Equal(t, []string{"Near", "Far North"}, names(results))

	results, err = svc.FindNearby(ctx, queryLat, queryLon, 1e9)
	require.NoError(t, err)
	assert.Equal(t, []string{"Near", "Far North"}, names(results))

	_, err = svc.FindNearby(ctx, 100, queryLon, 0)
	var vErr *service.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
