package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"medstore/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderItemRequest is one medicine of an order request.
type OrderItemRequest struct {
	Name     string          `json:"ten_thuoc" validate:"required"`
	Quantity int             `json:"so_luong" validate:"required,gt=0"`
	Price    decimal.Decimal `json:"gia_thuoc" swaggertype:"number"`
	ImageRef *string         `json:"hinh_anh,omitempty"`
}

// CreateOrderRequest represents an order placement request.
type CreateOrderRequest struct {
	BuyerName string             `json:"nguoi_mua" validate:"required,max=255"`
	Total     *decimal.Decimal   `json:"tong_tien" validate:"required" swaggertype:"number"`
	Items     []OrderItemRequest `json:"danh_sach_thuoc" validate:"required,min=1,dive"`
}

// CreateOrder godoc
// @Summary Place an order
// @Description The stored order is also pushed to every connected WebSocket client.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order data"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /create-order [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items := make([]service.LineItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.LineItemInput{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			ImageRef: it.ImageRef,
		})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), service.CreateOrderInput{
		BuyerName: req.BuyerName,
		Total:     req.Total,
		Items:     items,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, order)
}

// GetOrder godoc
// @Summary Get an order with its line items
// @Description The order is also pushed to every connected WebSocket client.
// @Tags orders
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /don-thuoc/{order_id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		return badRequest("invalid order_id")
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, order)
}
