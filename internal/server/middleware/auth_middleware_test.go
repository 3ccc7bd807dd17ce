package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/service/auth"
)

type fakeValidator struct {
	claims *auth.Claims
	err    error
}

func (f *fakeValidator) ValidateToken(tokenString string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func newGuardedRouter(validator TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api", RequireAuth(validator))
	api.GET("/ventas", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rol": c.GetString("rol")})
	})
	api.POST("/usuarios", RequireRole(models.RolAdministrador), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func request(t *testing.T, r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	r := newGuardedRouter(&fakeValidator{})

	if w := request(t, r, http.MethodGet, "/api/ventas", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", w.Code)
	}
}

func TestRequireAuthRejectsNonBearerHeader(t *testing.T) {
	r := newGuardedRouter(&fakeValidator{})

	if w := request(t, r, http.MethodGet, "/api/ventas", "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
		t.Fatalf("non-bearer header: expected 401, got %d", w.Code)
	}
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	r := newGuardedRouter(&fakeValidator{err: errors.New("token is expired")})

	if w := request(t, r, http.MethodGet, "/api/ventas", "Bearer caducado"); w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: expected 401, got %d", w.Code)
	}
}

func TestRequireAuthStoresClaims(t *testing.T) {
	validator := &fakeValidator{claims: &auth.Claims{UserID: "u1", Usuario: "maria", Rol: models.RolCajero}}
	r := newGuardedRouter(validator)

	w := request(t, r, http.MethodGet, "/api/ventas", "Bearer valido")
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"rol":"cajero"}` {
		t.Fatalf("claims must be stored in the context, got %s", body)
	}
}

func TestRequireRoleForbidsCajeroOnAdminRoute(t *testing.T) {
	validator := &fakeValidator{claims: &auth.Claims{UserID: "u1", Usuario: "maria", Rol: models.RolCajero}}
	r := newGuardedRouter(validator)

	if w := request(t, r, http.MethodPost, "/api/usuarios", "Bearer valido"); w.Code != http.StatusForbidden {
		t.Fatalf("cajero on admin route: expected 403, got %d", w.Code)
	}
}

func TestRequireRoleAllowsAdministrador(t *testing.T) {
	validator := &fakeValidator{claims: &auth.Claims{UserID: "u2", Usuario: "admin", Rol: models.RolAdministrador}}
	r := newGuardedRouter(validator)

	if w := request(t, r, http.MethodPost, "/api/usuarios", "Bearer valido"); w.Code != http.StatusCreated {
		t.Fatalf("administrador: expected 201, got %d", w.Code)
	}
}
