package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dcastano/miscelanea/internal/domain/models"
)

// FindUserByUsername looks a credential up by its (lowercase) username.
func (r *Repository) FindUserByUsername(ctx context.Context, usuario string) (models.User, error) {
	var user models.User
	err := r.collection(collUsers).FindOne(ctx, bson.M{"usuario": usuario}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// InsertUser stores a new credential and returns its id.
func (r *Repository) InsertUser(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	result, err := r.collection(collUsers).InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// CountUsers reports how many credentials exist. Used by the admin
// bootstrap to decide whether to seed.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	count, err := r.collection(collUsers).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
