package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"counselbook/database"
	"counselbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const providerColl = "providers"

// ErrNotFound signals that no provider matched the lookup.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository reads provider profiles. The engine never writes them;
// provider onboarding and schedule editing live elsewhere.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	GetSchedule(ctx context.Context, id string) (models.WeeklySchedule, error)
	IsBookable(ctx context.Context, id string) (bool, error)
}

// MongoProviderRepo is the MongoDB-backed provider reader.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

func NewMongoProviderRepo() *MongoProviderRepo {
	return &MongoProviderRepo{
		coll: database.MongoClient.Database("counselbook").Collection(providerColl),
	}
}

// GetByID retrieves a provider by ID.
func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Provider
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching provider %s: %w", id, err)
	}
	return &p, nil
}

// GetSchedule retrieves only the recurring weekly availability.
func (r *MongoProviderRepo) GetSchedule(ctx context.Context, id string) (models.WeeklySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Provider
	opts := options.FindOne().SetProjection(bson.M{"id": 1, "availability": 1})
	err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching schedule for provider %s: %w", id, err)
	}
	return p.Availability, nil
}

// IsBookable reports whether the provider is verified and active.
func (r *MongoProviderRepo) IsBookable(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Provider
	opts := options.FindOne().SetProjection(bson.M{"id": 1, "verified": 1, "active": 1})
	err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("error fetching provider %s: %w", id, err)
	}
	return p.Bookable(), nil
}
