package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a registered store client.
type Customer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Nombre        string             `bson:"nombre" json:"nombre"`
	Apellido      string             `bson:"apellido" json:"apellido"`
	Cedula        string             `bson:"cedula" json:"cedula"`
	Activo        bool               `bson:"activo" json:"activo"`
	FechaCreacion time.Time          `bson:"fechaCreacion" json:"fechaCreacion"`
}

// CustomerRequest is shared by the create and update customer endpoints;
// the three identity fields are mandatory in both.
type CustomerRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Apellido string `json:"apellido" binding:"required"`
	Cedula   string `json:"cedula" binding:"required"`
}
