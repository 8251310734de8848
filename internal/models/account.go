package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HospitalAccount is a self-registered hospital. It lives in the same
// collection as seeded hospitals so that it shows up in proximity search.
type HospitalAccount struct {
	Hospital         `bson:",inline"`
	Email            string    `bson:"email"`
	PasswordHash     string    `bson:"passwordHash"`
	Phone            string    `bson:"phone"`
	Address          string    `bson:"address"`
	LicenseNumber    string    `bson:"licenseNumber"`
	IsActive         bool      `bson:"is_active"`
	RegistrationDate time.Time `bson:"registration_date"`
}

// AccountUpdate enumerates every field an account update may touch.
// A field is written only when Present is set.
type AccountUpdate struct {
	Phone       Field[string]
	Address     Field[string]
	Location    Field[GeoPoint]
	HasICU      Field[bool]
	Specialists Field[[]string]
	Equipment   Field[[]string]
	IsActive    Field[bool]
}

// IsEmpty reports whether no field is present
func (u AccountUpdate) IsEmpty() bool {
	return !u.Phone.Present &&
		!u.Address.Present &&
		!u.Location.Present &&
		!u.HasICU.Present &&
		!u.Specialists.Present &&
		!u.Equipment.Present &&
		!u.IsActive.Present
}

// UpdateOutcome mirrors the store's per-document update result
type UpdateOutcome struct {
	Matched  int64
	Modified int64
}

// AuditLog records account events in the audit_logs collection
type AuditLog struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	HospitalID *primitive.ObjectID `bson:"hospital_id,omitempty" json:"hospital_id,omitempty"`
	Action     string              `bson:"action" json:"action"`
	Details    string              `bson:"details" json:"details"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
}
