package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is one inventory entry of the store. Deleting a product only
// flips Activo so past sales keep pointing at a real document.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Nombre        string             `bson:"nombre" json:"nombre"`
	Descripcion   string             `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Precio        float64            `bson:"precio" json:"precio"`
	Costo         float64            `bson:"costo" json:"costo"`
	Stock         int                `bson:"stock" json:"stock"`
	StockMinimo   int                `bson:"stock_minimo,omitempty" json:"stock_minimo,omitempty"`
	Activo        bool               `bson:"activo" json:"activo"`
	FechaCreacion time.Time          `bson:"fechaCreacion" json:"fechaCreacion"`
}

// LowStockThreshold resolves the per-product minimum, falling back to the
// provided global default when the product has none configured.
func (p Product) LowStockThreshold(globalDefault int) int {
	if p.StockMinimo > 0 {
		return p.StockMinimo
	}
	return globalDefault
}

// CreateProductRequest is the payload accepted when registering a product.
type CreateProductRequest struct {
	Nombre      string  `json:"nombre" binding:"required"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	Costo       float64 `json:"costo"`
	Stock       int     `json:"stock"`
	StockMinimo int     `json:"stock_minimo"`
}

// UpdateProductRequest carries a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Nombre      *string  `json:"nombre"`
	Descripcion *string  `json:"descripcion"`
	Precio      *float64 `json:"precio"`
	Costo       *float64 `json:"costo"`
	Stock       *int     `json:"stock"`
	StockMinimo *int     `json:"stock_minimo"`
}

// IsEmpty reports whether the update carries no field at all.
func (r UpdateProductRequest) IsEmpty() bool {
	return r.Nombre == nil && r.Descripcion == nil && r.Precio == nil &&
		r.Costo == nil && r.Stock == nil && r.StockMinimo == nil
}
