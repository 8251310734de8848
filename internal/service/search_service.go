package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hospital-locator/internal/models"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	// MaxSearchRadiusMeters bounds every proximity query
	MaxSearchRadiusMeters = 50000.0
	// MaxSearchResults caps the number of hospitals returned
	MaxSearchResults = 15
	// DefaultNearbyRadiusMeters applies when the nearby listing gets no radius
	DefaultNearbyRadiusMeters = 10000.0
)

// SearchRequest is a capability-filtered proximity search
type SearchRequest struct {
	Lat        float64  `json:"lat" validate:"latitude"`
	Lon        float64  `json:"lon" validate:"longitude"`
	NeedsICU   bool     `json:"needsICU"`
	Specialist string   `json:"specialist" validate:"omitempty,max=64,capability"`
	Equipment  []string `json:"equipment" validate:"max=32,dive,max=64,capability"`
}

type SearchService struct {
	finder HospitalFinder
	cache  *cache.Cache
	logger *zap.Logger

	// generation is bumped by Invalidate. A search only fills the cache if
	// no invalidation happened while it was reading the store.
	mu         sync.Mutex
	generation uint64
}

// NewSearchService creates the proximity search engine. A cacheTTL of zero
// disables result caching.
func NewSearchService(finder HospitalFinder, cacheTTL time.Duration, logger *zap.Logger) *SearchService {
	s := &SearchService{
		finder: finder,
		logger: logger,
	}
	if cacheTTL > 0 {
		s.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

// FindSuitable returns up to MaxSearchResults hospitals within
// MaxSearchRadiusMeters of the request point that satisfy its filters,
// nearest first.
func (s *SearchService) FindSuitable(ctx context.Context, req SearchRequest) ([]HospitalView, error) {
	req.Specialist = strings.ToLower(strings.TrimSpace(req.Specialist))
	req.Equipment = normalizeTags(req.Equipment)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	return s.search(ctx, models.NearbyQuery{
		Point:             models.NewGeoPoint(req.Lon, req.Lat),
		MaxDistanceMeters: MaxSearchRadiusMeters,
		Limit:             MaxSearchResults,
		Filter: models.CapabilityFilter{
			NeedsICU:   req.NeedsICU,
			Specialist: req.Specialist,
			Equipment:  req.Equipment,
		},
	})
}

// FindNearby lists hospitals around a point without capability filters.
// maxDistanceMeters is clamped to (0, MaxSearchRadiusMeters].
func (s *SearchService) FindNearby(ctx context.Context, lat, lon, maxDistanceMeters float64) ([]HospitalView, error) {
	if err := validateStruct(coordinates{Lat: lat, Lon: lon}); err != nil {
		return nil, err
	}
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = DefaultNearbyRadiusMeters
	}
	if maxDistanceMeters > MaxSearchRadiusMeters {
		maxDistanceMeters = MaxSearchRadiusMeters
	}

	return s.search(ctx, models.NearbyQuery{
		Point:             models.NewGeoPoint(lon, lat),
		MaxDistanceMeters: maxDistanceMeters,
		Limit:             MaxSearchResults,
	})
}

// Invalidate drops every cached result, including results of searches
// still in flight
func (s *SearchService) Invalidate() {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cache.Flush()
}

func (s *SearchService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// fill caches views unless the cache was invalidated after generation
func (s *SearchService) fill(key string, generation uint64, views []HospitalView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return
	}
	s.cache.SetDefault(key, views)
}

func (s *SearchService) search(ctx context.Context, q models.NearbyQuery) ([]HospitalView, error) {
	key := searchCacheKey(q)
	var generation uint64
	if s.cache != nil {
		generation = s.currentGeneration()
		if cached, ok := s.cache.Get(key); ok {
			return cached.([]HospitalView), nil
		}
	}

	s.logger.Info("Searching hospitals",
		zap.Float64("lat", q.Point.Latitude()),
		zap.Float64("lon", q.Point.Longitude()),
		zap.Float64("max_distance_m", q.MaxDistanceMeters),
		zap.Bool("needs_icu", q.Filter.NeedsICU),
		zap.String("specialist", q.Filter.Specialist),
		zap.Strings("equipment", q.Filter.Equipment),
	)

	results, err := s.finder.FindNearby(ctx, q)
	if err != nil {
		return nil, storeError(s.logger, "find nearby hospitals", err)
	}

	views := shapeResults(results, q)
	s.logger.Info("Hospital search finished", zap.Int("results", len(views)))

	if s.cache != nil {
		s.fill(key, generation, views)
	}
	return views, nil
}

// shapeResults orders by distance, drops anything outside the radius and
// truncates to the query limit
func shapeResults(results []models.HospitalResult, q models.NearbyQuery) []HospitalView {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})

	views := make([]HospitalView, 0, len(results))
	for _, r := range results {
		if r.DistanceMeters > q.MaxDistanceMeters {
			continue
		}
		if q.Limit > 0 && len(views) == q.Limit {
			break
		}
		views = append(views, newHospitalView(r))
	}
	return views
}

func searchCacheKey(q models.NearbyQuery) string {
	return fmt.Sprintf("search:%.6f:%.6f:%.0f:%d:%t:%s:%s",
		q.Point.Longitude(),
		q.Point.Latitude(),
		q.MaxDistanceMeters,
		q.Limit,
		q.Filter.NeedsICU,
		q.Filter.Specialist,
		strings.Join(q.Filter.Equipment, ","),
	)
}
