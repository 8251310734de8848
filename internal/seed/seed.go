// Package seed loads curated hospital records for bulk import.
package seed

import (
	"fmt"
	"os"
	"strings"

	"hospital-locator/internal/models"
	"hospital-locator/pkg/utils"

	"github.com/goccy/go-yaml"
)

type file struct {
	Hospitals []models.Hospital `yaml:"hospitals"`
}

// LoadFile reads and validates a seed file
func LoadFile(path string) ([]models.Hospital, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed YAML. Every record needs a unique positive id, a name
// and a valid [longitude, latitude] point; capability tags are normalized.
func Parse(data []byte) ([]models.Hospital, error) {
	var f file
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(f.Hospitals) == 0 {
		return nil, fmt.Errorf("seed file contains no hospitals")
	}

	seen := make(map[int]bool, len(f.Hospitals))
	for i := range f.Hospitals {
		h := &f.Hospitals[i]
		if h.HospitalID == nil || *h.HospitalID <= 0 {
			return nil, fmt.Errorf("hospital #%d: id must be a positive integer", i+1)
		}
		if seen[*h.HospitalID] {
			return nil, fmt.Errorf("hospital #%d: duplicate id %d", i+1, *h.HospitalID)
		}
		seen[*h.HospitalID] = true

		h.Name = strings.TrimSpace(h.Name)
		if h.Name == "" {
			return nil, fmt.Errorf("hospital id %d: name is required", *h.HospitalID)
		}
		if h.Location.Type == "" {
			h.Location.Type = models.GeoPointType
		}
		if err := h.Location.Validate(); err != nil {
			return nil, fmt.Errorf("hospital id %d: %w", *h.HospitalID, err)
		}
		h.Specialists = utils.NormalizeTags(h.Specialists)
		h.Equipment = utils.NormalizeTags(h.Equipment)
	}
	return f.Hospitals, nil
}
