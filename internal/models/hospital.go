package models

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoPointType is the only GeoJSON geometry stored in the hospitals collection
const GeoPointType = "Point"

// GeoPoint is a GeoJSON point. Coordinates are always [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type" yaml:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates" yaml:"coordinates"`
}

// NewGeoPoint builds a point from longitude and latitude, in that order
func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: GeoPointType, Coordinates: []float64{lon, lat}}
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 1 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Validate rejects points that a 2dsphere index would refuse to store
func (p GeoPoint) Validate() error {
	if p.Type != GeoPointType {
		return fmt.Errorf("location type must be %q", GeoPointType)
	}
	if len(p.Coordinates) != 2 {
		return fmt.Errorf("coordinates must be [longitude, latitude]")
	}
	lon, lat := p.Coordinates[0], p.Coordinates[1]
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid longitude: %v, must be between -180 and 180", lon)
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude: %v, must be between -90 and 90", lat)
	}
	return nil
}

// Hospital is the searchable part of a document in the hospitals collection.
// Seeded hospitals carry only these fields; self-registered ones are HospitalAccount.
type Hospital struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	HospitalID  *int               `bson:"id,omitempty" json:"id,omitempty" yaml:"id"`
	Name        string             `bson:"name" json:"name" yaml:"name"`
	Location    GeoPoint           `bson:"location" json:"location" yaml:"location"`
	HasICU      bool               `bson:"hasICU" json:"hasICU" yaml:"hasICU"`
	Specialists []string           `bson:"specialists" json:"specialists" yaml:"specialists"`
	Equipment   []string           `bson:"equipment" json:"equipment" yaml:"equipment"`
}

// HospitalResult is one row produced by a proximity search
type HospitalResult struct {
	ID             primitive.ObjectID `bson:"_id"`
	HospitalID     *int               `bson:"id,omitempty"`
	Name           string             `bson:"name"`
	Location       GeoPoint           `bson:"location"`
	HasICU         bool               `bson:"hasICU"`
	Specialists    []string           `bson:"specialists"`
	Equipment      []string           `bson:"equipment"`
	DistanceMeters float64            `bson:"distance_meters"`
}

// CapabilityFilter narrows a proximity search. Values are expected lowercased.
type CapabilityFilter struct {
	NeedsICU   bool
	Specialist string
	Equipment  []string
}

// NearbyQuery is a bounded nearest-neighbour query
type NearbyQuery struct {
	Point             GeoPoint
	MaxDistanceMeters float64
	Limit             int
	Filter            CapabilityFilter
}
