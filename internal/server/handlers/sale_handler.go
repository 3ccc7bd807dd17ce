package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/service/sales"
)

// SaleHandler exposes the sale recording, cancellation and listing endpoints.
type SaleHandler struct {
	svc    *sales.Service
	logger *zap.Logger
}

// NewSaleHandler constructs the HTTP handler adapter.
func NewSaleHandler(svc *sales.Service, logger *zap.Logger) *SaleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleHandler{svc: svc, logger: logger}
}

// Record registers a sale and decrements inventory.
func (h *SaleHandler) Record(c *gin.Context) {
	var req models.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de venta inválido"})
		return
	}

	result, err := h.svc.Record(c.Request.Context(), req)
	switch {
	case errors.Is(err, sales.ErrEmptySale):
		c.JSON(http.StatusBadRequest, gin.H{"error": "la venta no tiene items"})
	case errors.Is(err, sales.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cantidad inválida en un item"})
	case err != nil:
		h.logger.Error("failed recording sale", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al procesar la venta"})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"message":         "Venta registrada e inventario actualizado",
			"ventaId":         result.VentaID,
			"total_ganancias": result.TotalGanancias,
		})
	}
}

// Void reverses a sale and restores its stock.
func (h *SaleHandler) Void(c *gin.Context) {
	var req models.VoidSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de venta requerido"})
		return
	}

	err := h.svc.Void(c.Request.Context(), req.VentaID)
	switch {
	case errors.Is(err, sales.ErrInvalidSaleID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de venta inválido"})
	case errors.Is(err, sales.ErrSaleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "venta no encontrada"})
	case errors.Is(err, sales.ErrSaleAlreadyVoided):
		c.JSON(http.StatusConflict, gin.H{"error": "la venta ya está anulada"})
	case err != nil:
		h.logger.Error("failed voiding sale", zap.Error(err), zap.String("venta_id", req.VentaID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al anular la venta"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Venta anulada correctamente"})
	}
}

// List returns sales newest first plus the aggregate profit. Supports
// ?fecha=YYYY-MM-DD and ?id=<substring> filters.
func (h *SaleHandler) List(c *gin.Context) {
	filter := models.SalesListFilter{IDSubstring: c.Query("id")}

	if raw := c.Query("fecha"); raw != "" {
		fecha, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fecha inválida, use YYYY-MM-DD"})
			return
		}
		filter.Fecha = fecha
	}

	result, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed listing sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al obtener las ventas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ventas":         result.Ventas,
		"totalGanancias": result.TotalGanancias,
	})
}
