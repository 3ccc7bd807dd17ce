package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/repository/mongodb"
)

// ErrInvalidProductID indicates a missing or malformed product identifier.
var ErrInvalidProductID = errors.New("invalid product id")

// ErrProductNotFound indicates the referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrMissingFields indicates a create request without its mandatory fields.
var ErrMissingFields = errors.New("missing mandatory product fields")

// ErrEmptyUpdate indicates an update request that carries nothing to change.
var ErrEmptyUpdate = errors.New("no fields to update")

// ErrNegativeValue indicates a money or stock field below zero.
var ErrNegativeValue = errors.New("negative values are not allowed")

// Store is the inventory persistence surface the service depends on.
type Store interface {
	InsertProduct(ctx context.Context, product models.Product) (primitive.ObjectID, error)
	ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error)
	FindProductByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	DeactivateProduct(ctx context.Context, id primitive.ObjectID) error
	SearchProductsByName(ctx context.Context, name string, limit int64) ([]models.Product, error)
}

// Service implements product management.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an inventory service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Create registers a product. Nombre is mandatory; money and stock
// fields must not be negative.
func (s *Service) Create(ctx context.Context, req models.CreateProductRequest) (string, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return "", ErrMissingFields
	}
	if req.Precio < 0 || req.Costo < 0 || req.Stock < 0 || req.StockMinimo < 0 {
		return "", ErrNegativeValue
	}

	product := models.Product{
		Nombre:        strings.TrimSpace(req.Nombre),
		Descripcion:   req.Descripcion,
		Precio:        req.Precio,
		Costo:         req.Costo,
		Stock:         req.Stock,
		StockMinimo:   req.StockMinimo,
		Activo:        true,
		FechaCreacion: s.now().UTC(),
	}

	id, err := s.store.InsertProduct(ctx, product)
	if err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created", zap.String("producto_id", id.Hex()), zap.String("nombre", product.Nombre))
	return id.Hex(), nil
}

// List returns the inventory, active-only when requested.
func (s *Service) List(ctx context.Context, onlyActive bool) ([]models.Product, error) {
	return s.store.ListProducts(ctx, onlyActive)
}

// Update applies a partial update to one product.
func (s *Service) Update(ctx context.Context, rawID string, req models.UpdateProductRequest) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if req.IsEmpty() {
		return ErrEmptyUpdate
	}

	// An update must not reintroduce the negative state Create rejects.
	if (req.Precio != nil && *req.Precio < 0) ||
		(req.Costo != nil && *req.Costo < 0) ||
		(req.Stock != nil && *req.Stock < 0) ||
		(req.StockMinimo != nil && *req.StockMinimo < 0) {
		return ErrNegativeValue
	}

	fields := bson.M{}
	if req.Nombre != nil {
		fields["nombre"] = *req.Nombre
	}
	if req.Descripcion != nil {
		fields["descripcion"] = *req.Descripcion
	}
	if req.Precio != nil {
		fields["precio"] = *req.Precio
	}
	if req.Costo != nil {
		fields["costo"] = *req.Costo
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.StockMinimo != nil {
		fields["stock_minimo"] = *req.StockMinimo
	}

	err = s.store.UpdateProduct(ctx, id, fields)
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

// Delete soft-deletes a product; the record stays for sales history.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	err = s.store.DeactivateProduct(ctx, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	s.logger.Info("product deactivated", zap.String("producto_id", id.Hex()))
	return nil
}

// SearchByName performs the substring lookup used by the stock bot.
func (s *Service) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	return s.store.SearchProductsByName(ctx, name, 10)
}

func parseID(rawID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidProductID
	}
	return id, nil
}
