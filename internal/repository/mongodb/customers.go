package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcastano/miscelanea/internal/domain/models"
)

// InsertCustomer stores a new customer record and returns its id.
func (r *Repository) InsertCustomer(ctx context.Context, customer models.Customer) (primitive.ObjectID, error) {
	result, err := r.collection(collCustomers).InsertOne(ctx, customer)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert customer: %w", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// ListActiveCustomers returns customers that have not been soft-deleted.
func (r *Repository) ListActiveCustomers(ctx context.Context) ([]models.Customer, error) {
	cursor, err := r.collection(collCustomers).Find(ctx, bson.M{"activo": true})
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer overwrites the identity fields of one customer.
func (r *Repository) UpdateCustomer(ctx context.Context, id primitive.ObjectID, req models.CustomerRequest) error {
	fields := bson.M{
		"nombre":   req.Nombre,
		"apellido": req.Apellido,
		"cedula":   req.Cedula,
	}

	result, err := r.collection(collCustomers).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateCustomer soft-deletes the customer. The original handler
// hard-deleted; soft delete keeps the record visible to sales history.
func (r *Repository) DeactivateCustomer(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection(collCustomers).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"activo": false}})
	if err != nil {
		return fmt.Errorf("deactivate customer: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
