package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstore/internal/auth"
	"medstore/internal/handler"
)

func newTestServer(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	dir := t.TempDir()

	e := echo.New()
	jwtService := auth.NewJWTService("test-secret")
	Register(e, Handlers{
		Auth:    handler.NewAuthHandler(nil),
		Catalog: handler.NewCatalogHandler(nil),
		Order:   handler.NewOrderHandler(nil),
	}, auth.Middleware(jwtService, auth.NewTokenStore(nil)), dir)
	return e, dir
}

func TestRegister_Healthz(t *testing.T) {
	e, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRegister_SecuredRoutesRequireToken(t *testing.T) {
	e, _ := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/add-thuoc"},
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/me"},
	}
	for _, r := range routes {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(r.method, r.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)

		req := httptest.NewRequest(r.method, r.path, nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", r.method, r.path)
	}
}

func TestRegister_ServesUploads(t *testing.T) {
	e, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aspirin.jpg"), []byte("jpeg"), 0o644))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/aspirin.jpg", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg", rec.Body.String())
}

func TestRegister_MalformedOrderID(t *testing.T) {
	e, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/don-thuoc/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestCustomValidator(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	v := NewValidator()
	assert.Error(t, v.Validate(&payload{}))
	assert.NoError(t, v.Validate(&payload{Name: "x"}))
}
