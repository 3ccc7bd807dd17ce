package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleItem is a line of a recorded sale. Nombre, Precio and Costo are
// snapshots taken at sale time so later product edits do not rewrite
// history. Ganancia = (precio - costo) * cantidad.
type SaleItem struct {
	ProductoID primitive.ObjectID `bson:"producto_id,omitempty" json:"producto_id,omitempty"`
	Nombre     string             `bson:"nombre" json:"nombre"`
	Precio     float64            `bson:"precio" json:"precio"`
	Costo      float64            `bson:"costo" json:"costo"`
	Cantidad   int                `bson:"cantidad" json:"cantidad"`
	Subtotal   float64            `bson:"subtotal" json:"subtotal"`
	Ganancia   float64            `bson:"ganancia" json:"ganancia"`
}

// Sale is the persisted record of one completed transaction.
type Sale struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FechaVenta     time.Time          `bson:"fecha_venta" json:"fecha_venta"`
	Items          []SaleItem         `bson:"items" json:"items"`
	Subtotal       float64            `bson:"subtotal" json:"subtotal"`
	IVA            float64            `bson:"iva" json:"iva"`
	Total          float64            `bson:"total" json:"total"`
	TotalGanancias float64            `bson:"total_ganancias" json:"total_ganancias"`
	Anulada        bool               `bson:"anulada" json:"anulada"`
	FechaAnulacion *time.Time         `bson:"fecha_anulacion,omitempty" json:"fecha_anulacion,omitempty"`
	IDUsuario      string             `bson:"id_usuario,omitempty" json:"id_usuario,omitempty"`
}

// SaleItemRequest is one cart line as submitted by the cashier UI.
// ProductoID may be empty for ad-hoc items that are not in inventory.
type SaleItemRequest struct {
	ProductoID string  `json:"producto_id"`
	Nombre     string  `json:"nombre"`
	Precio     float64 `json:"precio"`
	Costo      float64 `json:"costo"`
	Cantidad   int     `json:"cantidad"`
}

// RecordSaleRequest is the record-sale payload. Totals are recomputed
// server side from the line items; only the tax amount is taken as-is.
type RecordSaleRequest struct {
	Items     []SaleItemRequest `json:"items"`
	IVA       float64           `json:"iva"`
	IDUsuario string            `json:"id_usuario"`
}

// VoidSaleRequest identifies the sale to reverse.
type VoidSaleRequest struct {
	VentaID string `json:"ventaId" binding:"required"`
}

// StockDelta is a signed quantity adjustment applied to one product as
// part of recording or voiding a sale.
type StockDelta struct {
	ProductoID primitive.ObjectID
	Cantidad   int
}

// SalesListFilter narrows the sales listing. Zero values mean "no filter".
type SalesListFilter struct {
	Fecha       time.Time // match sales of this calendar day
	IDSubstring string    // substring of the hex sale id
}
