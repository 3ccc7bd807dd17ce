package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/config"
	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/server/handlers"
	"github.com/dcastano/miscelanea/internal/server/middleware"
)

// Handlers bundles the HTTP adapters wired into the engine. Telegram may
// be nil when the bot is not configured; its routes are then skipped.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Products *handlers.ProductHandler
	Customer *handlers.CustomerHandler
	Sales    *handlers.SaleHandler
	Telegram *handlers.TelegramHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(cfg config.ServerConfig, h Handlers, validator middleware.TokenValidator, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/api/login", h.Auth.Login)

	if h.Telegram != nil {
		r.POST("/telegram/webhook", h.Telegram.Webhook)
	}

	api := r.Group("/api", middleware.RequireAuth(validator))
	{
		api.GET("/productos", h.Products.List)
		api.POST("/productos", h.Products.Create)
		api.PUT("/productos", h.Products.Update)
		api.DELETE("/productos", h.Products.Delete)

		api.GET("/clientes", h.Customer.List)
		api.POST("/clientes", h.Customer.Create)
		api.PUT("/clientes", h.Customer.Update)
		api.DELETE("/clientes", h.Customer.Delete)

		api.GET("/ventas", h.Sales.List)
		api.POST("/ventas", h.Sales.Record)
		api.POST("/ventas/anular", h.Sales.Void)

		api.POST("/usuarios", middleware.RequireRole(models.RolAdministrador), h.Auth.CreateUser)

		if h.Telegram != nil {
			api.POST("/notificaciones", h.Telegram.Notify)
		}
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
