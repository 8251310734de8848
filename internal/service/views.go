package service

import (
	"time"

	"hospital-locator/internal/models"
	"hospital-locator/pkg/utils"
)

// HospitalView is one proximity search result as returned to clients
type HospitalView struct {
	ID          string          `json:"id"`
	HospitalID  *int            `json:"hospital_id,omitempty"`
	Name        string          `json:"name"`
	Location    models.GeoPoint `json:"location"`
	HasICU      bool            `json:"hasICU"`
	Specialists []string        `json:"specialists"`
	Equipment   []string        `json:"equipment"`
	DistanceKm  float64         `json:"distance_km"`
}

// AccountView is the public view of a hospital account. It never carries
// the credential hash.
type AccountView struct {
	ID               string          `json:"id"`
	HospitalName     string          `json:"hospitalName"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	LicenseNumber    string          `json:"licenseNumber"`
	Location         models.GeoPoint `json:"location"`
	HasICU           bool            `json:"hasICU"`
	Specialists      []string        `json:"specialists"`
	Equipment        []string        `json:"equipment"`
	IsActive         bool            `json:"is_active"`
	RegistrationDate time.Time       `json:"registration_date"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// CapabilitiesResult reports the stored state after a capability update
// and whether the store changed anything.
type CapabilitiesResult struct {
	Hospital AccountView `json:"hospital"`
	Modified bool        `json:"modified"`
}

func newHospitalView(r models.HospitalResult) HospitalView {
	return HospitalView{
		ID:          r.ID.Hex(),
		HospitalID:  r.HospitalID,
		Name:        r.Name,
		Location:    r.Location,
		HasICU:      r.HasICU,
		Specialists: orEmpty(r.Specialists),
		Equipment:   orEmpty(r.Equipment),
		DistanceKm:  utils.MetersToKm(r.DistanceMeters),
	}
}

// NewAccountView maps a stored account onto its public view
func NewAccountView(a *models.HospitalAccount) AccountView {
	return AccountView{
		ID:               a.ID.Hex(),
		HospitalName:     a.Name,
		Email:            a.Email,
		Phone:            a.Phone,
		Address:          a.Address,
		LicenseNumber:    a.LicenseNumber,
		Location:         a.Location,
		HasICU:           a.HasICU,
		Specialists:      orEmpty(a.Specialists),
		Equipment:        orEmpty(a.Equipment),
		IsActive:         a.IsActive,
		RegistrationDate: a.RegistrationDate,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
