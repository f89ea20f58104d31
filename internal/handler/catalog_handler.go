package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"medstore/internal/model"
	"medstore/internal/service"
)

// CatalogHandler handles medicine catalog endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// LookupResponse wraps the medicines matching a name lookup.
type LookupResponse struct {
	Data []model.Medicine `json:"data"`
}

// AddMedicineResponse is returned after a catalog entry is created.
type AddMedicineResponse struct {
	Message  string          `json:"message"`
	Medicine *model.Medicine `json:"thuoc"`
}

// ListAll godoc
// @Summary List every medicine
// @Tags medicines
// @Produce json
// @Success 200 {array} model.Medicine
// @Failure 500 {object} errors.ErrorResponse
// @Router /get-all-thuoc [get]
func (h *CatalogHandler) ListAll(c echo.Context) error {
	medicines, err := h.catalogService.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, medicines)
}

// FindByName godoc
// @Summary Look up unrestricted medicines by name
// @Description Matches are also pushed to every connected WebSocket client.
// @Tags medicines
// @Produce json
// @Param ten_thuoc path string true "Medicine name"
// @Param match query string false "exact (default) or partial"
// @Success 200 {object} LookupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chon-thuoc/{ten_thuoc} [get]
func (h *CatalogHandler) FindByName(c echo.Context) error {
	mode, err := service.ParseMatchMode(c.QueryParam("match"))
	if err != nil {
		return fail(c, err)
	}

	medicines, err := h.catalogService.FindByName(c.Request().Context(), c.Param("ten_thuoc"), mode)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, LookupResponse{Data: medicines})
}

// AddMedicine godoc
// @Summary Add a medicine with its image
// @Tags medicines
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param ten_thuoc formData string true "Medicine name"
// @Param gia_thuoc formData number true "Price"
// @Param so_luong formData integer true "Quantity"
// @Param hinh_anh formData file false "Image"
// @Success 201 {object} AddMedicineResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /add-thuoc [post]
func (h *CatalogHandler) AddMedicine(c echo.Context) error {
	name := c.FormValue("ten_thuoc")
	if name == "" {
		return badRequest("ten_thuoc is required")
	}

	price, err := decimal.NewFromString(c.FormValue("gia_thuoc"))
	if err != nil {
		return badRequest("invalid gia_thuoc")
	}

	quantity, err := strconv.Atoi(c.FormValue("so_luong"))
	if err != nil {
		return badRequest("invalid so_luong")
	}

	image, err := c.FormFile("hinh_anh")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return badRequest("invalid hinh_anh upload")
	}

	medicine, err := h.catalogService.AddMedicine(c.Request().Context(), service.NewMedicine{
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Image:    image,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, AddMedicineResponse{
		Message:  "medicine added successfully",
		Medicine: medicine,
	})
}
