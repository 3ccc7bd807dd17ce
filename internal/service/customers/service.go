package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/repository/mongodb"
)

// ErrInvalidCustomerID indicates a missing or malformed customer identifier.
var ErrInvalidCustomerID = errors.New("invalid customer id")

// ErrCustomerNotFound indicates the referenced customer does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrMissingFields indicates a request missing nombre, apellido or cedula.
var ErrMissingFields = errors.New("missing mandatory customer fields")

// Store is the customer persistence surface the service depends on.
type Store interface {
	InsertCustomer(ctx context.Context, customer models.Customer) (primitive.ObjectID, error)
	ListActiveCustomers(ctx context.Context) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, id primitive.ObjectID, req models.CustomerRequest) error
	DeactivateCustomer(ctx context.Context, id primitive.ObjectID) error
}

// Service implements customer management.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a customer service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Create registers a customer.
func (s *Service) Create(ctx context.Context, req models.CustomerRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	customer := models.Customer{
		Nombre:        strings.TrimSpace(req.Nombre),
		Apellido:      strings.TrimSpace(req.Apellido),
		Cedula:        strings.TrimSpace(req.Cedula),
		Activo:        true,
		FechaCreacion: s.now().UTC(),
	}

	id, err := s.store.InsertCustomer(ctx, customer)
	if err != nil {
		return "", err
	}

	s.logger.Info("customer created", zap.String("cliente_id", id.Hex()))
	return id.Hex(), nil
}

// List returns active customers.
func (s *Service) List(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListActiveCustomers(ctx)
}

// Update overwrites the identity fields of one customer.
func (s *Service) Update(ctx context.Context, rawID string, req models.CustomerRequest) error {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return ErrInvalidCustomerID
	}
	if err := validate(req); err != nil {
		return err
	}

	err = s.store.UpdateCustomer(ctx, id, req)
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

// Delete soft-deletes a customer.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return ErrInvalidCustomerID
	}

	err = s.store.DeactivateCustomer(ctx, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

func validate(req models.CustomerRequest) error {
	if strings.TrimSpace(req.Nombre) == "" ||
		strings.TrimSpace(req.Apellido) == "" ||
		strings.TrimSpace(req.Cedula) == "" {
		return ErrMissingFields
	}
	return nil
}
