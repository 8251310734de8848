package repository

import (
	"context"
	"time"

	"hospital-locator/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const auditCollection = "audit_logs"

type AuditRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewAuditRepo(db *mongo.Database, timeout time.Duration) *AuditRepository {
	r := &AuditRepository{timeout: timeout}
	if db != nil {
		r.coll = db.Collection(auditCollection)
	}
	return r
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, hospitalID *primitive.ObjectID, action string, details string) error {
	if r.coll == nil {
		return ErrStoreUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	log := &models.AuditLog{
		HospitalID: hospitalID,
		Action:     action,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := r.coll.InsertOne(ctx, log)
	return translateError(err)
}
