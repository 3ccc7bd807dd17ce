package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcastano/miscelanea/internal/domain/models"
)

// RecordSale persists the sale and applies every stock delta in one
// atomic unit. It returns the new sale id along with the post-decrement
// state of each touched product so callers can raise low-stock alerts.
func (r *Repository) RecordSale(ctx context.Context, sale models.Sale, deltas []models.StockDelta) (primitive.ObjectID, []models.Product, error) {
	var saleID primitive.ObjectID
	updated := make([]models.Product, 0, len(deltas))

	err := r.runAtomic(ctx, func(ctx context.Context) error {
		saleID = primitive.NilObjectID
		updated = updated[:0]

		result, err := r.collection(collSales).InsertOne(ctx, sale)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		saleID = result.InsertedID.(primitive.ObjectID)

		after := options.FindOneAndUpdate().SetReturnDocument(options.After)
		for _, delta := range deltas {
			var product models.Product
			err := r.collection(collProducts).FindOneAndUpdate(ctx,
				bson.M{"_id": delta.ProductoID},
				bson.M{"$inc": bson.M{"stock": delta.Cantidad}},
				after,
			).Decode(&product)
			if errors.Is(err, mongo.ErrNoDocuments) {
				// Product vanished between resolution and commit;
				// the sale still stands with its snapshot values.
				continue
			}
			if err != nil {
				return fmt.Errorf("adjust stock for %s: %w", delta.ProductoID.Hex(), err)
			}
			updated = append(updated, product)
		}
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, nil, err
	}

	return saleID, updated, nil
}

// FindSaleByID fetches one sale, ErrNotFound when it does not exist.
func (r *Repository) FindSaleByID(ctx context.Context, id primitive.ObjectID) (models.Sale, error) {
	var sale models.Sale
	err := r.collection(collSales).FindOne(ctx, bson.M{"_id": id}).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sale{}, ErrNotFound
	}
	if err != nil {
		return models.Sale{}, fmt.Errorf("find sale: %w", err)
	}
	return sale, nil
}

// VoidSale restores the stock deltas and flips the sale to anulada in one
// atomic unit. The update filter re-checks the voided flag so a
// concurrent double-void cannot restore stock twice.
func (r *Repository) VoidSale(ctx context.Context, id primitive.ObjectID, deltas []models.StockDelta, voidedAt time.Time) error {
	return r.runAtomic(ctx, func(ctx context.Context) error {
		result, err := r.collection(collSales).UpdateOne(ctx,
			bson.M{"_id": id, "anulada": false},
			bson.M{"$set": bson.M{"anulada": true, "fecha_anulacion": voidedAt}},
		)
		if err != nil {
			return fmt.Errorf("mark sale voided: %w", err)
		}
		if result.MatchedCount == 0 {
			return ErrAlreadyVoided
		}

		for _, delta := range deltas {
			_, err := r.collection(collProducts).UpdateOne(ctx,
				bson.M{"_id": delta.ProductoID},
				bson.M{"$inc": bson.M{"stock": delta.Cantidad}},
			)
			if err != nil {
				return fmt.Errorf("restore stock for %s: %w", delta.ProductoID.Hex(), err)
			}
		}
		return nil
	})
}

// ListSales returns sales newest first. The date filter is resolved to a
// [start, end) range server side; the id-substring filter is applied on
// the hex representation after decoding.
func (r *Repository) ListSales(ctx context.Context, filter models.SalesListFilter) ([]models.Sale, error) {
	query := bson.M{}
	if !filter.Fecha.IsZero() {
		start := time.Date(filter.Fecha.Year(), filter.Fecha.Month(), filter.Fecha.Day(), 0, 0, 0, 0, filter.Fecha.Location())
		query["fecha_venta"] = bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)}
	}

	opts := options.Find().SetSort(bson.D{{Key: "fecha_venta", Value: -1}})
	cursor, err := r.collection(collSales).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer cursor.Close(ctx)

	sales := []models.Sale{}
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}

	if filter.IDSubstring == "" {
		return sales, nil
	}

	needle := strings.ToLower(filter.IDSubstring)
	matched := sales[:0]
	for _, sale := range sales {
		if strings.Contains(sale.ID.Hex(), needle) {
			matched = append(matched, sale)
		}
	}
	return matched, nil
}

// SalesBetween returns every sale (voided included) in the [start, end)
// window, oldest first. Used by the reporting summaries.
func (r *Repository) SalesBetween(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	query := bson.M{
		"fecha_venta": bson.M{"$gte": start, "$lt": end},
	}

	opts := options.Find().SetSort(bson.D{{Key: "fecha_venta", Value: 1}})
	cursor, err := r.collection(collSales).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list sales between: %w", err)
	}
	defer cursor.Close(ctx)

	sales := []models.Sale{}
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}
