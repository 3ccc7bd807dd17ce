package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dcastano/miscelanea/internal/service/auth"
)

// TokenValidator verifies a session token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid Bearer token and stores
// the claims in the request context for downstream handlers.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header requerido"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header debe usar Bearer"})
			return
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido o expirado"})
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("usuario", claims.Usuario)
		c.Set("rol", claims.Rol)
		c.Next()
	}
}

// RequireRole gates a route to one role. Must run after RequireAuth.
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rol, exists := c.Get("rol")
		if !exists || rol != allowedRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no tiene permisos para esta operación"})
			return
		}
		c.Next()
	}
}
