package inventory

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/repository/mongodb"
)

type fakeProductStore struct {
	products map[primitive.ObjectID]*models.Product
	updates  map[primitive.ObjectID]bson.M
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		products: map[primitive.ObjectID]*models.Product{},
		updates:  map[primitive.ObjectID]bson.M{},
	}
}

func (f *fakeProductStore) InsertProduct(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	product.ID = id
	f.products[id] = &product
	return id, nil
}

func (f *fakeProductStore) ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error) {
	out := []models.Product{}
	for _, product := range f.products {
		if onlyActive && !product.Activo {
			continue
		}
		out = append(out, *product)
	}
	return out, nil
}

func (f *fakeProductStore) FindProductByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return models.Product{}, mongodb.ErrNotFound
	}
	return *product, nil
}

func (f *fakeProductStore) UpdateProduct(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	if _, ok := f.products[id]; !ok {
		return mongodb.ErrNotFound
	}
	f.updates[id] = fields
	return nil
}

func (f *fakeProductStore) DeactivateProduct(ctx context.Context, id primitive.ObjectID) error {
	product, ok := f.products[id]
	if !ok {
		return mongodb.ErrNotFound
	}
	product.Activo = false
	return nil
}

func (f *fakeProductStore) SearchProductsByName(ctx context.Context, name string, limit int64) ([]models.Product, error) {
	return nil, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCreateRejectsNegativeValues(t *testing.T) {
	store := newFakeProductStore()
	svc := NewService(store, nil)

	_, err := svc.Create(context.Background(), models.CreateProductRequest{Nombre: "Cafe", Precio: -100})
	if !errors.Is(err, ErrNegativeValue) {
		t.Fatalf("expected ErrNegativeValue, got %v", err)
	}
	if len(store.products) != 0 {
		t.Fatalf("nothing must be persisted")
	}
}

func TestUpdateRejectsNegativeValues(t *testing.T) {
	store := newFakeProductStore()
	svc := NewService(store, nil)

	id, err := svc.Create(context.Background(), models.CreateProductRequest{Nombre: "Cafe", Precio: 1000, Costo: 600, Stock: 10})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cases := []struct {
		name string
		req  models.UpdateProductRequest
	}{
		{"negative precio", models.UpdateProductRequest{Precio: floatPtr(-1)}},
		{"negative costo", models.UpdateProductRequest{Costo: floatPtr(-50)}},
		{"negative stock", models.UpdateProductRequest{Stock: intPtr(-3)}},
		{"negative stock_minimo", models.UpdateProductRequest{StockMinimo: intPtr(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Update(context.Background(), id, tc.req)
			if !errors.Is(err, ErrNegativeValue) {
				t.Fatalf("expected ErrNegativeValue, got %v", err)
			}
		})
	}

	if len(store.updates) != 0 {
		t.Fatalf("no update must reach the store")
	}
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	store := newFakeProductStore()
	svc := NewService(store, nil)

	rawID, err := svc.Create(context.Background(), models.CreateProductRequest{Nombre: "Cafe", Precio: 1000, Costo: 600, Stock: 10})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Update(context.Background(), rawID, models.UpdateProductRequest{Precio: floatPtr(1200)}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	id, _ := primitive.ObjectIDFromHex(rawID)
	fields := store.updates[id]
	if len(fields) != 1 || fields["precio"] != 1200.0 {
		t.Fatalf("expected only precio to change, got %v", fields)
	}
}

func TestUpdateRejectsEmptyRequest(t *testing.T) {
	svc := NewService(newFakeProductStore(), nil)

	err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), models.UpdateProductRequest{})
	if !errors.Is(err, ErrEmptyUpdate) {
		t.Fatalf("expected ErrEmptyUpdate, got %v", err)
	}
}

func TestDeleteIsSoft(t *testing.T) {
	store := newFakeProductStore()
	svc := NewService(store, nil)

	rawID, err := svc.Create(context.Background(), models.CreateProductRequest{Nombre: "Cafe", Precio: 1000})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), rawID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	id, _ := primitive.ObjectIDFromHex(rawID)
	if store.products[id] == nil {
		t.Fatalf("record must survive a delete")
	}
	if store.products[id].Activo {
		t.Fatalf("product must be inactive after delete")
	}
}
