package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/service/customers"
)

// CustomerHandler exposes the customer CRUD endpoints.
type CustomerHandler struct {
	svc    *customers.Service
	logger *zap.Logger
}

// NewCustomerHandler constructs the HTTP handler adapter.
func NewCustomerHandler(svc *customers.Service, logger *zap.Logger) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{svc: svc, logger: logger}
}

// List returns active customers.
func (h *CustomerHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing customers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al obtener clientes"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// Create registers a customer.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan campos obligatorios: nombre, apellido o cédula"})
		return
	}

	id, err := h.svc.Create(c.Request.Context(), req)
	switch {
	case errors.Is(err, customers.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan campos obligatorios: nombre, apellido o cédula"})
	case err != nil:
		h.logger.Error("failed creating customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al agregar el cliente"})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Cliente agregado con éxito", "id": id})
	}
}

// Update overwrites the identity fields of one customer (?id=).
func (h *CustomerHandler) Update(c *gin.Context) {
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan campos obligatorios"})
		return
	}

	err := h.svc.Update(c.Request.Context(), c.Query("id"), req)
	switch {
	case errors.Is(err, customers.ErrInvalidCustomerID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de cliente inválido o faltante"})
	case errors.Is(err, customers.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan campos obligatorios"})
	case errors.Is(err, customers.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cliente no encontrado"})
	case err != nil:
		h.logger.Error("failed updating customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al actualizar el cliente"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Cliente actualizado correctamente"})
	}
}

// Delete soft-deletes a customer (?id=).
func (h *CustomerHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Query("id"))
	switch {
	case errors.Is(err, customers.ErrInvalidCustomerID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de cliente inválido o faltante"})
	case errors.Is(err, customers.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cliente no encontrado"})
	case err != nil:
		h.logger.Error("failed deleting customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al eliminar el cliente"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado correctamente"})
	}
}
