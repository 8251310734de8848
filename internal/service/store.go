package service

import (
	"context"

	"hospital-locator/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HospitalFinder runs bounded nearest-neighbour queries
type HospitalFinder interface {
	FindNearby(ctx context.Context, q models.NearbyQuery) ([]models.HospitalResult, error)
}

// AccountStore persists hospital accounts
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.HospitalAccount) error
	FindAccountByEmail(ctx context.Context, email string) (*models.HospitalAccount, error)
	FindAccountByLicense(ctx context.Context, licenseNumber string) (*models.HospitalAccount, error)
	FindAccountByID(ctx context.Context, id primitive.ObjectID) (*models.HospitalAccount, error)
	UpdateAccount(ctx context.Context, id primitive.ObjectID, update models.AccountUpdate) (models.UpdateOutcome, error)
}

// AuditLogger records account events
type AuditLogger interface {
	CreateAuditLog(ctx context.Context, hospitalID *primitive.ObjectID, action string, details string) error
}

// SearchInvalidator drops cached search results after a write
type SearchInvalidator interface {
	Invalidate()
}
