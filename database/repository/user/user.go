package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"counselbook/database"
	"counselbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const userColl = "users"

// ErrNotFound signals that no user matched the lookup.
var ErrNotFound = errors.New("user not found")

// UserRepository reads client profiles for notices. Account lifecycle is an
// external concern.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// MongoUserRepo is the MongoDB-backed user reader.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo() *MongoUserRepo {
	return &MongoUserRepo{
		coll: database.MongoClient.Database("counselbook").Collection(userColl),
	}
}

// GetByID retrieves a user by ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user %s: %w", id, err)
	}
	return &u, nil
}
