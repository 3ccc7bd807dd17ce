package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcastano/miscelanea/internal/config"
)

// Collection names of the canonical schema. The historical handlers
// disagreed on these; everything now goes through this single set.
const (
	collProducts  = "inventario"
	collSales     = "ventas"
	collCustomers = "clientes"
	collUsers     = "usuarios"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// ErrAlreadyVoided is returned when a void is attempted against a sale
// that is already marked anulada.
var ErrAlreadyVoided = errors.New("sale already voided")

// Repository gives typed access to the miscelanea collections. One
// instance is shared by all services; the driver pools connections.
type Repository struct {
	client  *mongo.Client
	dbName  string
	useTxns bool
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg config.MongoDBConfig) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client:  client,
		dbName:  cfg.DBName,
		useTxns: cfg.Transactions,
	}, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// runAtomic executes fn inside a multi-document transaction when
// transactions are enabled, otherwise runs it directly. The fallback
// keeps the original sequential-write behavior for standalone servers.
func (r *Repository) runAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.useTxns {
		return fn(ctx)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
