package rosterRepo

import (
	"context"
	"fmt"
	"time"

	"counselbook/database"
	"counselbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const rosterColl = "client_roster"

// RosterRepository upserts provider-client relationship records.
type RosterRepository interface {
	Upsert(ctx context.Context, entry *models.RosterEntry) error
}

// MongoRosterRepo is the MongoDB-backed roster store.
type MongoRosterRepo struct {
	coll *mongo.Collection
}

func NewMongoRosterRepo() *MongoRosterRepo {
	repo := &MongoRosterRepo{
		coll: database.MongoClient.Database("counselbook").Collection(rosterColl),
	}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("roster repo: %v", err))
	}
	return repo
}

func (r *MongoRosterRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "client_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create roster indexes: %w", err)
	}
	return nil
}

// Upsert creates or refreshes the relationship record for a provider-client
// pair, bumping contact and case context fields.
func (r *MongoRosterRepo) Upsert(ctx context.Context, entry *models.RosterEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"provider_id": entry.ProviderID, "client_id": entry.ClientID}
	update := bson.M{
		"$set": bson.M{
			"status":            entry.Status,
			"last_contact_date": now,
			"last_booking_date": entry.LastBookingDate,
			"last_booking_time": entry.LastBookingTime,
			"updated_at":        now,
		},
		"$setOnInsert": bson.M{
			"id":          uuid.New().String(),
			"provider_id": entry.ProviderID,
			"client_id":   entry.ClientID,
			"case_type":   entry.CaseType,
			"created_at":  now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error upserting roster entry: %w", err)
	}
	return nil
}
