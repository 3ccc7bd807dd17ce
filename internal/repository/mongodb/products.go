package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcastano/miscelanea/internal/domain/models"
)

// InsertProduct stores a new inventory entry and returns its id.
func (r *Repository) InsertProduct(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	result, err := r.collection(collProducts).InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert product: %w", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// ListProducts returns the inventory, optionally restricted to active entries.
func (r *Repository) ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error) {
	filter := bson.M{}
	if onlyActive {
		filter["activo"] = true
	}

	cursor, err := r.collection(collProducts).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// FindProductByID fetches one product, ErrNotFound when it does not exist.
func (r *Repository) FindProductByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := r.collection(collProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// UpdateProduct applies a partial $set update.
func (r *Repository) UpdateProduct(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	if len(fields) == 0 {
		return errors.New("no fields to update")
	}

	result, err := r.collection(collProducts).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateProduct soft-deletes the product by clearing its active flag.
func (r *Repository) DeactivateProduct(ctx context.Context, id primitive.ObjectID) error {
	return r.UpdateProduct(ctx, id, bson.M{"activo": false})
}

// SearchProductsByName performs a case-insensitive substring search over
// active products, capped at limit results.
func (r *Repository) SearchProductsByName(ctx context.Context, name string, limit int64) ([]models.Product, error) {
	filter := bson.M{
		"activo": true,
		"nombre": bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}},
	}

	cursor, err := r.collection(collProducts).Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// ListLowStock returns active products whose stock sits at or below their
// effective threshold (stock_minimo when set, else globalThreshold).
func (r *Repository) ListLowStock(ctx context.Context, globalThreshold int) ([]models.Product, error) {
	filter := bson.M{
		"activo": true,
		"$expr": bson.M{
			"$lte": bson.A{
				"$stock",
				bson.M{"$cond": bson.A{
					bson.M{"$gt": bson.A{"$stock_minimo", 0}},
					"$stock_minimo",
					globalThreshold,
				}},
			},
		},
	}

	cursor, err := r.collection(collProducts).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}
