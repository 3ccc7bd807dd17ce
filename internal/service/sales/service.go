package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/repository/mongodb"
)

// ErrEmptySale indicates a record request without line items.
var ErrEmptySale = errors.New("sale has no items")

// ErrInvalidQuantity indicates a line item with a non-positive quantity.
var ErrInvalidQuantity = errors.New("item quantity must be positive")

// ErrInvalidSaleID indicates a missing or malformed sale identifier.
var ErrInvalidSaleID = errors.New("invalid sale id")

// ErrSaleNotFound indicates the referenced sale does not exist.
var ErrSaleNotFound = errors.New("sale not found")

// ErrSaleAlreadyVoided indicates a repeated void attempt.
var ErrSaleAlreadyVoided = errors.New("sale already voided")

// Store is the sale persistence surface the service depends on.
type Store interface {
	RecordSale(ctx context.Context, sale models.Sale, deltas []models.StockDelta) (primitive.ObjectID, []models.Product, error)
	FindSaleByID(ctx context.Context, id primitive.ObjectID) (models.Sale, error)
	VoidSale(ctx context.Context, id primitive.ObjectID, deltas []models.StockDelta, voidedAt time.Time) error
	ListSales(ctx context.Context, filter models.SalesListFilter) ([]models.Sale, error)
}

// Catalog resolves authoritative product data for line items.
type Catalog interface {
	FindProductByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

// Notifier pushes operational alerts to the store chat. May be nil.
type Notifier interface {
	NotifyStore(ctx context.Context, text string) error
}

// Service implements the sale recording and cancellation flows.
type Service struct {
	store     Store
	catalog   Catalog
	notifier  Notifier
	threshold int
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a sales service instance. notifier may be nil when the
// bot is not configured.
func NewService(store Store, catalog Catalog, notifier Notifier, lowStockThreshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		catalog:   catalog,
		notifier:  notifier,
		threshold: lowStockThreshold,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordResult is returned on a successful sale registration.
type RecordResult struct {
	VentaID        string
	TotalGanancias float64
	Total          float64
}

// Record validates the cart, resolves authoritative prices, persists the
// sale together with its stock decrements and raises low-stock alerts.
//
// Caller-provided totals are never trusted: subtotal, total and margins
// are recomputed from the line items. Only the tax amount is taken as-is.
// Oversell is allowed (the cashier already handed over the goods) but is
// logged and included in the alert.
func (s *Service) Record(ctx context.Context, req models.RecordSaleRequest) (RecordResult, error) {
	if len(req.Items) == 0 {
		return RecordResult{}, ErrEmptySale
	}

	items := make([]models.SaleItem, 0, len(req.Items))
	deltas := make([]models.StockDelta, 0, len(req.Items))
	var subtotal, totalGanancias float64

	for _, line := range req.Items {
		if line.Cantidad <= 0 {
			return RecordResult{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, line.Nombre)
		}

		item := models.SaleItem{
			Nombre:   line.Nombre,
			Precio:   line.Precio,
			Costo:    line.Costo,
			Cantidad: line.Cantidad,
		}

		if productID, err := primitive.ObjectIDFromHex(line.ProductoID); err == nil {
			product, err := s.catalog.FindProductByID(ctx, productID)
			switch {
			case err == nil:
				// Authoritative snapshot wins over whatever the client sent.
				item.ProductoID = productID
				item.Precio = product.Precio
				item.Costo = product.Costo
				if item.Nombre == "" {
					item.Nombre = product.Nombre
				}
				qty := line.Cantidad
				if qty < 0 {
					qty = -qty
				}
				deltas = append(deltas, models.StockDelta{ProductoID: productID, Cantidad: -qty})
			case errors.Is(err, mongodb.ErrNotFound):
				s.logger.Warn("sale item references unknown product, using client values",
					zap.String("producto_id", line.ProductoID),
					zap.String("nombre", line.Nombre))
			default:
				return RecordResult{}, fmt.Errorf("resolve product %s: %w", line.ProductoID, err)
			}
		}

		item.Subtotal = item.Precio * float64(item.Cantidad)
		item.Ganancia = (item.Precio - item.Costo) * float64(item.Cantidad)
		subtotal += item.Subtotal
		totalGanancias += item.Ganancia
		items = append(items, item)
	}

	sale := models.Sale{
		FechaVenta:     s.now().UTC(),
		Items:          items,
		Subtotal:       subtotal,
		IVA:            req.IVA,
		Total:          subtotal + req.IVA,
		TotalGanancias: totalGanancias,
		Anulada:        false,
		IDUsuario:      req.IDUsuario,
	}

	saleID, updated, err := s.store.RecordSale(ctx, sale, deltas)
	if err != nil {
		return RecordResult{}, fmt.Errorf("record sale: %w", err)
	}

	s.alertLowStock(ctx, updated)

	s.logger.Info("sale recorded",
		zap.String("venta_id", saleID.Hex()),
		zap.Int("items", len(items)),
		zap.Float64("total", sale.Total),
		zap.Float64("total_ganancias", totalGanancias))

	return RecordResult{
		VentaID:        saleID.Hex(),
		TotalGanancias: totalGanancias,
		Total:          sale.Total,
	}, nil
}

// Void reverses a sale: restores stock for every resolved line item and
// marks the sale anulada. A second void on the same sale is rejected.
func (s *Service) Void(ctx context.Context, ventaID string) error {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(ventaID))
	if err != nil {
		return ErrInvalidSaleID
	}

	sale, err := s.store.FindSaleByID(ctx, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrSaleNotFound
	}
	if err != nil {
		return fmt.Errorf("load sale: %w", err)
	}
	if sale.Anulada {
		return ErrSaleAlreadyVoided
	}

	deltas := make([]models.StockDelta, 0, len(sale.Items))
	for _, item := range sale.Items {
		if item.ProductoID.IsZero() {
			continue
		}
		qty := item.Cantidad
		if qty < 0 {
			qty = -qty
		}
		deltas = append(deltas, models.StockDelta{ProductoID: item.ProductoID, Cantidad: qty})
	}

	err = s.store.VoidSale(ctx, id, deltas, s.now().UTC())
	if errors.Is(err, mongodb.ErrAlreadyVoided) {
		// Lost the race against a concurrent void.
		return ErrSaleAlreadyVoided
	}
	if err != nil {
		return fmt.Errorf("void sale: %w", err)
	}

	s.logger.Info("sale voided", zap.String("venta_id", id.Hex()), zap.Int("items_restored", len(deltas)))
	return nil
}

// ListResult is the sales listing plus the profit aggregate the reports
// page displays. Voided sales stay in the list but not in the aggregate.
type ListResult struct {
	Ventas         []models.Sale
	TotalGanancias float64
}

// List returns sales newest first, optionally filtered by calendar day
// and by substring of the sale id.
func (s *Service) List(ctx context.Context, filter models.SalesListFilter) (ListResult, error) {
	sales, err := s.store.ListSales(ctx, filter)
	if err != nil {
		return ListResult{}, fmt.Errorf("list sales: %w", err)
	}

	var totalGanancias float64
	for _, sale := range sales {
		if !sale.Anulada {
			totalGanancias += sale.TotalGanancias
		}
	}

	return ListResult{Ventas: sales, TotalGanancias: totalGanancias}, nil
}

func (s *Service) alertLowStock(ctx context.Context, updated []models.Product) {
	var lines []string
	for _, product := range updated {
		if product.Stock < 0 {
			s.logger.Warn("product oversold",
				zap.String("producto_id", product.ID.Hex()),
				zap.String("nombre", product.Nombre),
				zap.Int("stock", product.Stock))
		}
		if product.Stock <= product.LowStockThreshold(s.threshold) {
			lines = append(lines, fmt.Sprintf("- %s: %d unidades", product.Nombre, product.Stock))
		}
	}

	if len(lines) == 0 || s.notifier == nil {
		return
	}

	text := "⚠️ Stock bajo tras la última venta:\n" + strings.Join(lines, "\n")

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.notifier.NotifyStore(notifyCtx, text); err != nil {
		// Alerting must never fail the sale.
		s.logger.Error("failed to send low stock alert", zap.Error(err))
	}
}
