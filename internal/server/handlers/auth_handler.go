package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/service/auth"
)

// AuthHandler exposes login and user provisioning.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuario y contraseña requeridos"})
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciales inválidas"})
	case err != nil:
		h.logger.Error("failed login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno del servidor"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "Login exitoso",
			"token":   result.Token,
			"rol":     result.Rol,
			"usuario": result.Usuario,
		})
	}
}

// CreateUser provisions a credential. The route is admin-only.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuario, contraseña y rol son requeridos"})
		return
	}

	id, err := h.svc.CreateUser(c.Request.Context(), req)
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuario, contraseña y rol son requeridos"})
	case errors.Is(err, auth.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "rol inválido, debe ser cajero o administrador"})
	case errors.Is(err, auth.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": "el nombre de usuario ya existe"})
	case err != nil:
		h.logger.Error("failed creating user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno del servidor"})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Usuario creado con éxito", "id": id})
	}
}
