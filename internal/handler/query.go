package handler

import (
	"math"
	"strconv"
	"strings"

	"hospital-locator/pkg/utils"

	"github.com/gin-gonic/gin"
)

// queryParams parses scalar query parameters and collects a field error
// for every one that is missing or malformed. Blank values count as missing.
type queryParams struct {
	c       *gin.Context
	details []utils.FieldError
}

func newQueryParams(c *gin.Context) *queryParams {
	return &queryParams{c: c}
}

func (q *queryParams) raw(key string, required bool) (string, bool) {
	v := strings.TrimSpace(q.c.Query(key))
	if v == "" {
		if required {
			q.fail(key, "is required")
		}
		return "", false
	}
	return v, true
}

func (q *queryParams) float(key string, required bool) float64 {
	raw, ok := q.raw(key, required)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		q.fail(key, "must be a number")
		return 0
	}
	return v
}

func (q *queryParams) bool(key string) bool {
	raw, ok := q.raw(key, false)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(key, "must be true or false")
		return false
	}
	return v
}

func (q *queryParams) fail(key, message string) {
	q.details = append(q.details, utils.FieldError{Field: key, Message: message})
}

func (q *queryParams) invalid() bool {
	return len(q.details) > 0
}
