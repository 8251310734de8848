// Package storetest provides an in-memory document store with the same
// observable behaviour as the MongoDB repositories, for use in tests.
package storetest

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"hospital-locator/internal/models"
	"hospital-locator/internal/repository"
	"hospital-locator/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type document struct {
	account models.HospitalAccount
	// seeded hospitals carry no is_active field
	hasActive bool
}

// Store is safe for concurrent use
type Store struct {
	mu   sync.Mutex
	docs []*document
	err  error

	Audit []models.AuditLog
	// FindNearbyCalls counts queries that reached the store
	FindNearbyCalls int
}

func New() *Store {
	return &Store{}
}

// FailWith makes every subsequent call return err; nil restores normal behaviour
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// AddHospital inserts a seed-style record without account fields
func (s *Store) AddHospital(h models.Hospital) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	s.docs = append(s.docs, &document{account: models.HospitalAccount{Hospital: cloneHospital(h)}})
	return h.ID
}

func (s *Store) FindNearby(_ context.Context, q models.NearbyQuery) ([]models.HospitalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.FindNearbyCalls++

	results := []models.HospitalResult{}
	for _, d := range s.docs {
		h := d.account.Hospital
		if d.hasActive && !d.account.IsActive {
			continue
		}
		if !matches(h, q.Filter) {
			continue
		}
		dist := utils.HaversineMeters(q.Point.Latitude(), q.Point.Longitude(), h.Location.Latitude(), h.Location.Longitude())
		if dist > q.MaxDistanceMeters {
			continue
		}
		c := cloneHospital(h)
		results = append(results, models.HospitalResult{
			ID:             c.ID,
			HospitalID:     c.HospitalID,
			Name:           c.Name,
			Location:       c.Location,
			HasICU:         c.HasICU,
			Specialists:    c.Specialists,
			Equipment:      c.Equipment,
			DistanceMeters: dist,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

func matches(h models.Hospital, f models.CapabilityFilter) bool {
	if f.NeedsICU && !h.HasICU {
		return false
	}
	if f.Specialist != "" && !containsAny(h.Specialists, f.Specialist, "emergency", "general") {
		return false
	}
	if len(f.Equipment) > 0 && !containsAny(h.Equipment, f.Equipment...) {
		return false
	}
	return true
}

func containsAny(set []string, wanted ...string) bool {
	for _, have := range set {
		for _, w := range wanted {
			if have == w {
				return true
			}
		}
	}
	return false
}

func (s *Store) CreateAccount(_ context.Context, account *models.HospitalAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, d := range s.docs {
		if account.Email != "" && d.account.Email == account.Email {
			return &repository.DuplicateKeyError{Field: "email"}
		}
		if account.LicenseNumber != "" && d.account.LicenseNumber == account.LicenseNumber {
			return &repository.DuplicateKeyError{Field: "licenseNumber"}
		}
	}
	account.ID = primitive.NewObjectID()
	stored := cloneAccount(*account)
	s.docs = append(s.docs, &document{account: stored, hasActive: true})
	return nil
}

func (s *Store) find(match func(*models.HospitalAccount) bool) (*models.HospitalAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, d := range s.docs {
		if match(&d.account) {
			c := cloneAccount(d.account)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindAccountByEmail(_ context.Context, email string) (*models.HospitalAccount, error) {
	return s.find(func(a *models.HospitalAccount) bool { return a.Email != "" && a.Email == email })
}

func (s *Store) FindAccountByLicense(_ context.Context, licenseNumber string) (*models.HospitalAccount, error) {
	return s.find(func(a *models.HospitalAccount) bool {
		return a.LicenseNumber != "" && a.LicenseNumber == licenseNumber
	})
}

func (s *Store) FindAccountByID(_ context.Context, id primitive.ObjectID) (*models.HospitalAccount, error) {
	return s.find(func(a *models.HospitalAccount) bool { return a.ID == id })
}

func (s *Store) UpdateAccount(_ context.Context, id primitive.ObjectID, u models.AccountUpdate) (models.UpdateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.UpdateOutcome{}, s.err
	}
	for _, d := range s.docs {
		if d.account.ID != id {
			continue
		}
		before := cloneAccount(d.account)
		a := &d.account
		if u.Phone.Present {
			a.Phone = u.Phone.Value
		}
		if u.Address.Present {
			a.Address = u.Address.Value
		}
		if u.Location.Present {
			a.Location = cloneHospital(models.Hospital{Location: u.Location.Value}).Location
		}
		if u.HasICU.Present {
			a.HasICU = u.HasICU.Value
		}
		if u.Specialists.Present {
			a.Specialists = append([]string{}, u.Specialists.Value...)
		}
		if u.Equipment.Present {
			a.Equipment = append([]string{}, u.Equipment.Value...)
		}
		if u.IsActive.Present {
			a.IsActive = u.IsActive.Value
			d.hasActive = true
		}
		modified := int64(0)
		if !reflect.DeepEqual(before, d.account) {
			modified = 1
		}
		return models.UpdateOutcome{Matched: 1, Modified: modified}, nil
	}
	return models.UpdateOutcome{}, nil
}

// CreateAuditLog records the entry in Audit
func (s *Store) CreateAuditLog(_ context.Context, hospitalID *primitive.ObjectID, action string, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Audit = append(s.Audit, models.AuditLog{HospitalID: hospitalID, Action: action, Details: details})
	return nil
}

// AuditActions lists recorded audit actions in order
func (s *Store) AuditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, 0, len(s.Audit))
	for _, a := range s.Audit {
		actions = append(actions, a.Action)
	}
	return actions
}

func cloneHospital(h models.Hospital) models.Hospital {
	c := h
	c.Location.Coordinates = append([]float64(nil), h.Location.Coordinates...)
	if h.Specialists != nil {
		c.Specialists = append([]string{}, h.Specialists...)
	}
	if h.Equipment != nil {
		c.Equipment = append([]string{}, h.Equipment...)
	}
	return c
}

func cloneAccount(a models.HospitalAccount) models.HospitalAccount {
	c := a
	c.Hospital = cloneHospital(a.Hospital)
	return c
}
