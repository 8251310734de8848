package handler

import (
	"hospital-locator/internal/service"
	"hospital-locator/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// FindSuitable handles GET /api/find-suitable
func (h *SearchHandler) FindSuitable(c *gin.Context) {
	q := newQueryParams(c)
	lat := q.float("lat", true)
	lon := q.float("lon", true)
	needsICU := q.bool("needsICU")
	if q.invalid() {
		utils.ValidationErrorResponse(c, "Validation failed", q.details)
		return
	}

	results, err := h.searchService.FindSuitable(c.Request.Context(), service.SearchRequest{
		Lat:        lat,
		Lon:        lon,
		NeedsICU:   needsICU,
		Specialist: c.Query("specialist"),
		Equipment:  c.QueryArray("equipment"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	utils.SuccessResponse(c, results)
}

// Nearby handles GET /api/hospitals/nearby; maxDistance is in meters
func (h *SearchHandler) Nearby(c *gin.Context) {
	q := newQueryParams(c)
	lat := q.float("lat", true)
	lon := q.float("lon", true)
	maxDistance := q.float("maxDistance", false)
	if q.invalid() {
		utils.ValidationErrorResponse(c, "Validation failed", q.details)
		return
	}

	results, err := h.searchService.FindNearby(c.Request.Context(), lat, lon, maxDistance)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.SuccessResponse(c, results)
}
