package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"medstore/internal/broadcast"
	"medstore/internal/handler"
	"medstore/internal/upload"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Order   *handler.OrderHandler
}

// Register wires routes and middleware. requireAuth guards the routes that
// need a bearer token; uploadDir is served under /uploads.
func Register(e *echo.Echo, h Handlers, requireAuth echo.MiddlewareFunc, uploadDir string) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static(upload.URLPrefix, uploadDir)

	// Public routes
	e.POST("/register", h.Auth.Register)
	e.POST("/login", h.Auth.Login)

	e.GET("/get-all-thuoc", h.Catalog.ListAll)
	e.GET("/medicines", h.Catalog.ListAll)
	e.GET("/chon-thuoc/:ten_thuoc", h.Catalog.FindByName)
	e.GET("/medicines/:ten_thuoc", h.Catalog.FindByName)

	e.POST("/create-order", h.Order.CreateOrder)
	e.GET("/don-thuoc/:order_id", h.Order.GetOrder)

	// Secured routes
	secured := e.Group("", requireAuth)
	secured.POST("/logout", h.Auth.Logout)
	secured.GET("/me", h.Auth.Me)
	secured.POST("/add-thuoc", h.Catalog.AddMedicine)
}

// RegisterWS wires the real-time broadcast endpoint. Every path upgrades, so
// clients may connect to "/" or any other path.
func RegisterWS(e *echo.Echo, hub *broadcast.Hub) {
	e.Use(middleware.Recover())

	e.GET("/*", hub.ServeWS)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by the API.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
