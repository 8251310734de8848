package repository

import (
	"context"
	"fmt"
	"time"

	"hospital-locator/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	locationIndexName = "location_2dsphere"
	emailIndexName    = "email_unique"
	licenseIndexName  = "licenseNumber_unique"

	// specialist tags that satisfy any specialist filter
	emergencySpecialist = "emergency"
	generalSpecialist   = "general"
)

type HospitalRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewHospitalRepo builds the repository on db. A nil db is allowed: every
// call then fails with ErrStoreUnavailable.
func NewHospitalRepo(db *mongo.Database, collection string, timeout time.Duration) *HospitalRepository {
	r := &HospitalRepository{timeout: timeout}
	if db != nil {
		r.coll = db.Collection(collection)
	}
	return r
}

func (r *HospitalRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.timeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// EnsureIndexes creates the geo index and the unique account indexes
func (r *HospitalRepository) EnsureIndexes(ctx context.Context) error {
	if r.coll == nil {
		return ErrStoreUnavailable
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	stringField := func(field string) bson.M {
		return bson.M{field: bson.M{"$type": "string"}}
	}

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName(locationIndexName),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName(emailIndexName).
				SetUnique(true).
				SetPartialFilterExpression(stringField("email")),
		},
		{
			Keys: bson.D{{Key: "licenseNumber", Value: 1}},
			Options: options.Index().
				SetName(licenseIndexName).
				SetUnique(true).
				SetPartialFilterExpression(stringField("licenseNumber")),
		},
	})
	return translateError(err)
}

// capabilityQuery builds the $geoNear pre-filter. Inactive accounts are
// never returned; seeded hospitals have no is_active field and pass.
func capabilityQuery(f models.CapabilityFilter) bson.M {
	query := bson.M{"is_active": bson.M{"$ne": false}}
	if f.NeedsICU {
		query["hasICU"] = true
	}
	if f.Specialist != "" {
		query["specialists"] = bson.M{"$in": bson.A{f.Specialist, emergencySpecialist, generalSpecialist}}
	}
	if len(f.Equipment) > 0 {
		equipment := bson.A{}
		for _, e := range f.Equipment {
			equipment = append(equipment, e)
		}
		query["equipment"] = bson.M{"$in": equipment}
	}
	return query
}

// BuildNearbyPipeline returns the aggregation run by FindNearby.
// $geoNear has to be the first stage.
func BuildNearbyPipeline(q models.NearbyQuery) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        models.GeoPointType,
				"coordinates": bson.A{q.Point.Longitude(), q.Point.Latitude()},
			},
			"distanceField": "distance_meters",
			"maxDistance":   q.MaxDistanceMeters,
			"query":         capabilityQuery(q.Filter),
			"spherical":     true,
		}}},
		{{Key: "$limit", Value: q.Limit}},
		{{Key: "$project", Value: bson.M{
			"_id":             1,
			"id":              1,
			"name":            1,
			"location":        1,
			"hasICU":          1,
			"specialists":     1,
			"equipment":       1,
			"distance_meters": 1,
		}}},
	}
}

// FindNearby runs a spherical nearest-neighbour search, nearest first
func (r *HospitalRepository) FindNearby(ctx context.Context, q models.NearbyQuery) ([]models.HospitalResult, error) {
	if r.coll == nil {
		return nil, ErrStoreUnavailable
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, BuildNearbyPipeline(q))
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	results := []models.HospitalResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, translateError(err)
	}
	return results, nil
}

// CreateAccount inserts a new account and sets its store-assigned id
func (r *HospitalRepository) CreateAccount(ctx context.Context, account *models.HospitalAccount) error {
	if r.coll == nil {
		return ErrStoreUnavailable
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, account)
	if err != nil {
		return translateError(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		account.ID = id
	}
	return nil
}

func (r *HospitalRepository) findAccount(ctx context.Context, filter bson.M) (*models.HospitalAccount, error) {
	if r.coll == nil {
		return nil, ErrStoreUnavailable
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var account models.HospitalAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindAccountByEmail looks an account up by its login email
func (r *HospitalRepository) FindAccountByEmail(ctx context.Context, email string) (*models.HospitalAccount, error) {
	return r.findAccount(ctx, bson.M{"email": email})
}

// FindAccountByLicense looks an account up by its license number
func (r *HospitalRepository) FindAccountByLicense(ctx context.Context, licenseNumber string) (*models.HospitalAccount, error) {
	return r.findAccount(ctx, bson.M{"licenseNumber": licenseNumber})
}

// FindAccountByID looks an account up by its store id
func (r *HospitalRepository) FindAccountByID(ctx context.Context, id primitive.ObjectID) (*models.HospitalAccount, error) {
	return r.findAccount(ctx, bson.M{"_id": id})
}

// accountSet converts the present fields of an update into a $set document
func accountSet(u models.AccountUpdate) bson.M {
	set := bson.M{}
	if u.Phone.Present {
		set["phone"] = u.Phone.Value
	}
	if u.Address.Present {
		set["address"] = u.Address.Value
	}
	if u.Location.Present {
		set["location"] = u.Location.Value
	}
	if u.HasICU.Present {
		set["hasICU"] = u.HasICU.Value
	}
	if u.Specialists.Present {
		set["specialists"] = nonNil(u.Specialists.Value)
	}
	if u.Equipment.Present {
		set["equipment"] = nonNil(u.Equipment.Value)
	}
	if u.IsActive.Present {
		set["is_active"] = u.IsActive.Value
	}
	return set
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// UpdateAccount applies a partial update to one document atomically
func (r *HospitalRepository) UpdateAccount(ctx context.Context, id primitive.ObjectID, update models.AccountUpdate) (models.UpdateOutcome, error) {
	if r.coll == nil {
		return models.UpdateOutcome{}, ErrStoreUnavailable
	}
	set := accountSet(update)
	if len(set) == 0 {
		return models.UpdateOutcome{}, fmt.Errorf("empty update for %s", id.Hex())
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.UpdateOutcome{}, translateError(err)
	}
	return models.UpdateOutcome{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// UpsertHospital writes a seed record keyed by its numeric id.
// It reports whether a new document was inserted.
func (r *HospitalRepository) UpsertHospital(ctx context.Context, hospital models.Hospital) (bool, error) {
	if r.coll == nil {
		return false, ErrStoreUnavailable
	}
	if hospital.HospitalID == nil {
		return false, fmt.Errorf("hospital %q has no numeric id", hospital.Name)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": *hospital.HospitalID},
		bson.M{"$set": bson.M{
			"id":          *hospital.HospitalID,
			"name":        hospital.Name,
			"location":    hospital.Location,
			"hasICU":      hospital.HasICU,
			"specialists": nonNil(hospital.Specialists),
			"equipment":   nonNil(hospital.Equipment),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, translateError(err)
	}
	return res.UpsertedCount > 0, nil
}
