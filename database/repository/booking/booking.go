package bookingRepo

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

const reservationColl = "reservations"

// MongoReservationRepo is the MongoDB-backed reservation repository.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo returns a repository bound to the reservations
// collection and ensures its indexes exist.
func NewMongoReservationRepo() *MongoReservationRepo {
	repo := &MongoReservationRepo{
		coll: database.MongoClient.Database("counselbook").Collection(reservationColl),
	}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("reservation repo: %v", err))
	}
	return repo
}

// Insert writes a new reservation. A duplicate-key rejection from the partial
// unique index is reported as ErrSlotTaken; it means another active
// reservation won the race for (provider, date, start).
func (r *MongoReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, res); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("error creating reservation: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by its ID.
func (r *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching reservation %s: %w", id, err)
	}
	return &res, nil
}

// Update replaces the stored document. Moving an active reservation onto a
// slot held by a different active reservation trips the same unique index as
// Insert and is reported as ErrSlotTaken; replacing a document with its own
// slot does not conflict, which is what makes reschedule self-exclusion work.
func (r *MongoReservationRepo) Update(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"id": res.ID}, res)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("error updating reservation %s: %w", res.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-removes a reservation.
func (r *MongoReservationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting reservation %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveStartsForDate lists the start times of pending/confirmed reservations
// for a provider on one date. Read-only and allowed to be stale relative to
// concurrent writes; the insert-time constraint is the authoritative gate.
func (r *MongoReservationRepo) ActiveStartsForDate(ctx context.Context, providerID, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "date": date, "active": true}
	opts := options.Find().SetProjection(bson.M{"start": 1})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing booked starts: %w", err)
	}
	defer cursor.Close(ctx)

	var starts []string
	for cursor.Next(ctx) {
		var doc struct {
			Start string `bson:"start"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding booked start: %w", err)
		}
		starts = append(starts, doc.Start)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booked starts: %w", err)
	}
	return starts, nil
}

// List returns reservations matching the query, ordered by date then start.
func (r *MongoReservationRepo) List(ctx context.Context, q ListQuery) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}

	cursor, err := r.coll.Find(ctx, q.filter(), opts)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return results, nil
}

// CountByStatus aggregates a provider's reservation counts per status.
func (r *MongoReservationRepo) CountByStatus(ctx context.Context, providerID string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"provider_id": providerID}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating status counts: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("error decoding status count: %w", err)
		}
		counts[row.Status] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}
	return counts, nil
}
