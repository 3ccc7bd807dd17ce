package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/service/telegram"
)

// TelegramHandler handles the bot webhook and outbound notifications.
type TelegramHandler struct {
	svc    telegram.BotService
	logger *zap.Logger
}

// NewTelegramHandler constructs the HTTP handler adapter.
func NewTelegramHandler(svc telegram.BotService, logger *zap.Logger) *TelegramHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramHandler{svc: svc, logger: logger}
}

// Webhook ingests update callbacks from the Telegram Bot API.
func (h *TelegramHandler) Webhook(c *gin.Context) {
	var update models.TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("invalid telegram update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.svc.HandleUpdate(c.Request.Context(), update); err != nil {
		h.logger.Error("failed processing telegram update", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process update"})
		return
	}

	c.Status(http.StatusOK)
}

// Notify pushes free text to the configured store chat.
func (h *TelegramHandler) Notify(c *gin.Context) {
	var req models.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "texto requerido"})
		return
	}

	if err := h.svc.NotifyStoreHTML(c.Request.Context(), req.Text); err != nil {
		h.logger.Error("failed sending notification", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "no se pudo enviar el mensaje"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
