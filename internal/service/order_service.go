package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "medstore/internal/errors"
	"medstore/internal/model"
	"medstore/internal/repository"
)

// LineItemInput is one requested medicine of a new order.
type LineItemInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	ImageRef *string
}

// CreateOrderInput is the input for placing an order. A nil Total means the
// caller did not supply one.
type CreateOrderInput struct {
	BuyerName string
	Total     *decimal.Decimal
	Items     []LineItemInput
}

// OrderService places and reads orders.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	medicineRepo repository.MedicineRepository
	publisher    Publisher
}

// NewOrderService creates a new order service. publisher may be nil.
func NewOrderService(orderRepo repository.OrderRepository, medicineRepo repository.MedicineRepository, publisher Publisher) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		medicineRepo: medicineRepo,
		publisher:    publisher,
	}
}

func validateOrder(in CreateOrderInput) error {
	if strings.TrimSpace(in.BuyerName) == "" {
		return fmt.Errorf("%w: buyer name is required", apperrors.ErrInvalidInput)
	}
	if in.Total == nil {
		return fmt.Errorf("%w: total is required", apperrors.ErrInvalidInput)
	}
	if in.Total.IsNegative() {
		return fmt.Errorf("%w: total must not be negative", apperrors.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order has no items", apperrors.ErrInvalidInput)
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: item %d has no medicine name", apperrors.ErrInvalidInput, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", apperrors.ErrInvalidInput, i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item %d price must not be negative", apperrors.ErrInvalidInput, i)
		}
	}
	return nil
}

// CreateOrder writes the order and its line items atomically and broadcasts
// the stored order. Items without an image borrow the catalog entry's image.
func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if err := validateOrder(in); err != nil {
		return nil, err
	}

	items := make([]model.OrderLineItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, model.OrderLineItem{
			MedicineName: strings.TrimSpace(it.Name),
			Quantity:     it.Quantity,
			Price:        it.Price,
			ImageRef:     s.resolveImage(ctx, it),
		})
	}

	order := &model.Order{
		BuyerName: strings.TrimSpace(in.BuyerName),
		Total:     *in.Total,
	}

	err := s.orderRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		if err := repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Items = items

	if sum := order.Sum(); !sum.Equal(order.Total) {
		log.Warnf("order %s: total %s does not match item sum %s", order.ID, order.Total, sum)
	}

	publish(ctx, s.publisher, EventOrderCreated, order)
	return order, nil
}

func (s *orderService) resolveImage(ctx context.Context, it LineItemInput) *string {
	if it.ImageRef != nil && *it.ImageRef != "" {
		return it.ImageRef
	}
	medicine, err := s.medicineRepo.FindByName(ctx, strings.TrimSpace(it.Name))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("look up image for %q: %v", it.Name, err)
		}
		return nil
	}
	return medicine.ImageRef
}

// GetOrder returns an order with its line items and broadcasts it.
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.Items == nil {
		order.Items = []model.OrderLineItem{}
	}

	publish(ctx, s.publisher, EventOrderFetched, order)
	return order, nil
}
