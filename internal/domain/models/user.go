package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a credential can carry. The system only distinguishes the person
// behind the till from the person allowed to manage it.
const (
	RolCajero        = "cajero"
	RolAdministrador = "administrador"
)

// ValidRole reports whether rol is one of the enumerated roles.
func ValidRole(rol string) bool {
	return rol == RolCajero || rol == RolAdministrador
}

// User is a stored credential. Usuario is always lowercase and unique.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Usuario       string             `bson:"usuario" json:"usuario"`
	PasswordHash  string             `bson:"contraseñaHash" json:"-"`
	Rol           string             `bson:"rol" json:"rol"`
	FechaCreacion time.Time          `bson:"fechaCreacion" json:"fechaCreacion"`
}

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Usuario    string `json:"usuario" binding:"required"`
	Contrasena string `json:"contraseña" binding:"required"`
}

// CreateUserRequest provisions a credential; admin-only operation.
type CreateUserRequest struct {
	Usuario    string `json:"usuario" binding:"required"`
	Contrasena string `json:"contraseña" binding:"required"`
	Rol        string `json:"rol" binding:"required"`
}
