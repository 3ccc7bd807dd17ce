package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/repository/mongodb"
)

type fakeStore struct {
	products map[primitive.ObjectID]*models.Product
	sales    map[primitive.ObjectID]*models.Sale
	failNext bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[primitive.ObjectID]*models.Product{},
		sales:    map[primitive.ObjectID]*models.Sale{},
	}
}

func (f *fakeStore) addProduct(nombre string, precio, costo float64, stock int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.products[id] = &models.Product{
		ID:     id,
		Nombre: nombre,
		Precio: precio,
		Costo:  costo,
		Stock:  stock,
		Activo: true,
	}
	return id
}

func (f *fakeStore) RecordSale(ctx context.Context, sale models.Sale, deltas []models.StockDelta) (primitive.ObjectID, []models.Product, error) {
	if f.failNext {
		return primitive.NilObjectID, nil, errors.New("db down")
	}

	id := primitive.NewObjectID()
	sale.ID = id
	f.sales[id] = &sale

	updated := []models.Product{}
	for _, delta := range deltas {
		product, ok := f.products[delta.ProductoID]
		if !ok {
			continue
		}
		product.Stock += delta.Cantidad
		updated = append(updated, *product)
	}
	return id, updated, nil
}

func (f *fakeStore) FindSaleByID(ctx context.Context, id primitive.ObjectID) (models.Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return models.Sale{}, mongodb.ErrNotFound
	}
	return *sale, nil
}

func (f *fakeStore) VoidSale(ctx context.Context, id primitive.ObjectID, deltas []models.StockDelta, voidedAt time.Time) error {
	sale, ok := f.sales[id]
	if !ok || sale.Anulada {
		return mongodb.ErrAlreadyVoided
	}
	sale.Anulada = true
	sale.FechaAnulacion = &voidedAt
	for _, delta := range deltas {
		if product, ok := f.products[delta.ProductoID]; ok {
			product.Stock += delta.Cantidad
		}
	}
	return nil
}

func (f *fakeStore) ListSales(ctx context.Context, filter models.SalesListFilter) ([]models.Sale, error) {
	out := []models.Sale{}
	for _, sale := range f.sales {
		out = append(out, *sale)
	}
	return out, nil
}

func (f *fakeStore) FindProductByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return models.Product{}, mongodb.ErrNotFound
	}
	return *product, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) NotifyStore(ctx context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func newTestService(store *fakeStore, notifier Notifier) *Service {
	return NewService(store, store, notifier, 5, nil)
}

func TestRecordComputesMarginAndDecrementsStock(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Cafe", 1000, 600, 10)
	svc := newTestService(store, nil)

	result, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{
			{ProductoID: p1.Hex(), Nombre: "Cafe", Precio: 1000, Costo: 600, Cantidad: 2},
		},
		IVA: 380,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if result.TotalGanancias != 800 {
		t.Fatalf("expected total_ganancias 800, got %v", result.TotalGanancias)
	}
	if got := store.products[p1].Stock; got != 8 {
		t.Fatalf("expected stock 8 after sale, got %d", got)
	}

	saleID, _ := primitive.ObjectIDFromHex(result.VentaID)
	sale := store.sales[saleID]
	if sale == nil {
		t.Fatalf("sale was not persisted")
	}
	if sale.Subtotal != 2000 {
		t.Fatalf("expected subtotal 2000, got %v", sale.Subtotal)
	}
	if sale.Total != 2380 {
		t.Fatalf("expected total 2380, got %v", sale.Total)
	}
}

func TestRecordSubtotalMatchesItemSubtotals(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Pan", 500, 300, 20)
	p2 := store.addProduct("Leche", 2000, 1500, 15)
	svc := newTestService(store, nil)

	result, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{
			{ProductoID: p1.Hex(), Cantidad: 3},
			{ProductoID: p2.Hex(), Cantidad: 2},
			{Nombre: "Bolsa", Precio: 100, Costo: 50, Cantidad: 1},
		},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	saleID, _ := primitive.ObjectIDFromHex(result.VentaID)
	sale := store.sales[saleID]

	var sum, margin float64
	for _, item := range sale.Items {
		sum += item.Subtotal
		margin += item.Ganancia
	}
	if sale.Subtotal != sum {
		t.Fatalf("subtotal %v does not equal sum of item subtotals %v", sale.Subtotal, sum)
	}
	if sale.TotalGanancias != margin {
		t.Fatalf("total_ganancias %v does not equal sum of item margins %v", sale.TotalGanancias, margin)
	}
	// 3*500 + 2*2000 + 1*100
	if sale.Subtotal != 5600 {
		t.Fatalf("expected subtotal 5600, got %v", sale.Subtotal)
	}
}

func TestRecordUsesAuthoritativePrices(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Gaseosa", 3000, 2000, 10)
	svc := newTestService(store, nil)

	// Client lies about prices; the stored product must win.
	result, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{
			{ProductoID: p1.Hex(), Precio: 1, Costo: 1, Cantidad: 1},
		},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if result.TotalGanancias != 1000 {
		t.Fatalf("expected margin 1000 from stored prices, got %v", result.TotalGanancias)
	}
}

func TestRecordFallsBackForUnresolvedProducts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	result, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{
			{ProductoID: primitive.NewObjectID().Hex(), Nombre: "Fantasma", Precio: 200, Costo: 100, Cantidad: 2},
		},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if result.TotalGanancias != 200 {
		t.Fatalf("expected margin 200 from client values, got %v", result.TotalGanancias)
	}

	saleID, _ := primitive.ObjectIDFromHex(result.VentaID)
	if item := store.sales[saleID].Items[0]; !item.ProductoID.IsZero() {
		t.Fatalf("unresolved item should not carry a product reference")
	}
}

func TestRecordRejectsEmptyCart(t *testing.T) {
	store := newFakeStore()
	store.addProduct("Cafe", 1000, 600, 10)
	svc := newTestService(store, nil)

	_, err := svc.Record(context.Background(), models.RecordSaleRequest{})
	if !errors.Is(err, ErrEmptySale) {
		t.Fatalf("expected ErrEmptySale, got %v", err)
	}
	if len(store.sales) != 0 {
		t.Fatalf("no sale should be persisted")
	}
	for _, product := range store.products {
		if product.Stock != 10 {
			t.Fatalf("stock must stay untouched, got %d", product.Stock)
		}
	}
}

func TestRecordRejectsNonPositiveQuantity(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Cafe", 1000, 600, 10)
	svc := newTestService(store, nil)

	_, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{{ProductoID: p1.Hex(), Cantidad: 0}},
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestRecordSendsLowStockAlert(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Cafe", 1000, 600, 6)
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	_, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{{ProductoID: p1.Hex(), Cantidad: 2}},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one low stock alert, got %d", len(notifier.messages))
	}
}

func TestRecordSkipsAlertAboveThreshold(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Cafe", 1000, 600, 50)
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	_, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{{ProductoID: p1.Hex(), Cantidad: 2}},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("expected no alert, got %d", len(notifier.messages))
	}
}

func TestVoidRestoresStock(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Cafe", 1000, 600, 10)
	svc := newTestService(store, nil)

	result, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{{ProductoID: p1.Hex(), Cantidad: 2}},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if store.products[p1].Stock != 8 {
		t.Fatalf("expected stock 8 before void, got %d", store.products[p1].Stock)
	}

	if err := svc.Void(context.Background(), result.VentaID); err != nil {
		t.Fatalf("void failed: %v", err)
	}

	if store.products[p1].Stock != 10 {
		t.Fatalf("expected stock restored to 10, got %d", store.products[p1].Stock)
	}

	saleID, _ := primitive.ObjectIDFromHex(result.VentaID)
	sale := store.sales[saleID]
	if !sale.Anulada || sale.FechaAnulacion == nil {
		t.Fatalf("sale must be marked anulada with a timestamp")
	}
}

func TestVoidTwiceIsConflict(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Cafe", 1000, 600, 10)
	svc := newTestService(store, nil)

	result, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{{ProductoID: p1.Hex(), Cantidad: 2}},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.Void(context.Background(), result.VentaID); err != nil {
		t.Fatalf("first void failed: %v", err)
	}

	err = svc.Void(context.Background(), result.VentaID)
	if !errors.Is(err, ErrSaleAlreadyVoided) {
		t.Fatalf("expected ErrSaleAlreadyVoided, got %v", err)
	}
	if store.products[p1].Stock != 10 {
		t.Fatalf("stock must not be incremented twice, got %d", store.products[p1].Stock)
	}
}

func TestVoidValidatesID(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)

	if err := svc.Void(context.Background(), "not-an-id"); !errors.Is(err, ErrInvalidSaleID) {
		t.Fatalf("expected ErrInvalidSaleID, got %v", err)
	}
	if err := svc.Void(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestListAggregatesNonVoidedProfit(t *testing.T) {
	store := newFakeStore()
	p1 := store.addProduct("Cafe", 1000, 600, 100)
	svc := newTestService(store, nil)

	first, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{{ProductoID: p1.Hex(), Cantidad: 1}},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if _, err := svc.Record(context.Background(), models.RecordSaleRequest{
		Items: []models.SaleItemRequest{{ProductoID: p1.Hex(), Cantidad: 2}},
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.Void(context.Background(), first.VentaID); err != nil {
		t.Fatalf("void failed: %v", err)
	}

	result, err := svc.List(context.Background(), models.SalesListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(result.Ventas) != 2 {
		t.Fatalf("voided sales must stay listed, got %d", len(result.Ventas))
	}
	if result.TotalGanancias != 800 {
		t.Fatalf("expected aggregate 800 excluding voided sale, got %v", result.TotalGanancias)
	}
}
