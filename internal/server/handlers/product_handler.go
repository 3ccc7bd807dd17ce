package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/service/inventory"
)

// ProductHandler exposes the inventory CRUD endpoints.
type ProductHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewProductHandler constructs the HTTP handler adapter.
func NewProductHandler(svc *inventory.Service, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{svc: svc, logger: logger}
}

// List returns the inventory; ?activos=true restricts to active products.
func (h *ProductHandler) List(c *gin.Context) {
	onlyActive := c.Query("activos") == "true"

	products, err := h.svc.List(c.Request.Context(), onlyActive)
	if err != nil {
		h.logger.Error("failed listing products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al obtener el inventario"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// Create registers a product.
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan campos obligatorios: nombre, precio o stock"})
		return
	}

	id, err := h.svc.Create(c.Request.Context(), req)
	switch {
	case errors.Is(err, inventory.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrNegativeValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": "precio, costo y stock no pueden ser negativos"})
	case err != nil:
		h.logger.Error("failed creating product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al agregar el producto"})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Producto agregado con éxito", "id": id})
	}
}

// Update applies a partial update; the product id comes as ?id=.
func (h *ProductHandler) Update(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de actualización inválido"})
		return
	}

	err := h.svc.Update(c.Request.Context(), c.Query("id"), req)
	switch {
	case errors.Is(err, inventory.ErrInvalidProductID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido o faltante"})
	case errors.Is(err, inventory.ErrEmptyUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no hay datos para actualizar"})
	case errors.Is(err, inventory.ErrNegativeValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": "precio, costo y stock no pueden ser negativos"})
	case errors.Is(err, inventory.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "producto no encontrado"})
	case err != nil:
		h.logger.Error("failed updating product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al actualizar el producto"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Producto actualizado correctamente"})
	}
}

// Delete soft-deletes a product; the product id comes as ?id=.
func (h *ProductHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Query("id"))
	switch {
	case errors.Is(err, inventory.ErrInvalidProductID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido o faltante"})
	case errors.Is(err, inventory.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "producto no encontrado"})
	case err != nil:
		h.logger.Error("failed deleting product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al eliminar el producto"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Producto marcado como inactivo con éxito"})
	}
}
