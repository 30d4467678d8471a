package service

import (
	"context"
	"fmt"
	"time"

	"shopdesk/internal/domain"
	"shopdesk/internal/mail"
	"shopdesk/internal/render"
	"shopdesk/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOrderInput is the payload for order creation, validated before
// any persistence call.
type CreateOrderInput struct {
	CustomerName string
	Company      string
	Location     string
	Phone        string
	Email        string
	Items        []OrderItemInput
}

// OrderItemInput carries one requested line item. Quantity is a pointer
// so a missing quantity and an explicit zero produce their distinct
// validation messages. Unrecognized wire fields never reach this struct;
// optional fields default to empty.
type OrderItemInput struct {
	ProductID   string
	ProductName string
	Quantity    *int
	Image       string
	Brand       string
}

// OrderService implements the order lifecycle: creation with a
// best-effort confirmation email, listing, lookup, and status updates.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, domain.EmailStatus, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
}

type orderService struct {
	orderRepo  repository.OrderRepository
	renderer   render.Renderer
	dispatcher mail.Dispatcher
	logger     *zap.Logger
}

// NewOrderService creates a new instance of OrderService. Renderer and
// dispatcher may be nil; the confirmation email is then skipped and
// reported as such.
func NewOrderService(
	orderRepo repository.OrderRepository,
	renderer render.Renderer,
	dispatcher mail.Dispatcher,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		renderer:   renderer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Create validates the request, persists the order, then attempts to
// render and email the request copy. The email step is a side channel:
// its outcome is reported as a tri-state status and never fails the
// create or rolls back the persisted order.
func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, domain.EmailStatus, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, "", err
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    *item.Quantity,
			Image:       item.Image,
			Brand:       item.Brand,
		})
	}

	order := &domain.Order{
		ID:           uuid.New(),
		CustomerName: input.CustomerName,
		Company:      input.Company,
		Location:     input.Location,
		Phone:        input.Phone,
		Email:        input.Email,
		Items:        items,
		Status:       domain.OrderStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, "", fmt.Errorf("failed to create order: %w", err)
	}

	emailStatus := s.sendRequestCopy(ctx, order)

	return order, emailStatus, nil
}

// sendRequestCopy renders the order document and emails it. Failures are
// logged, not propagated.
func (s *orderService) sendRequestCopy(ctx context.Context, order *domain.Order) domain.EmailStatus {
	if s.renderer == nil || s.dispatcher == nil {
		return domain.EmailStatusSkipped
	}

	pdf, err := s.renderer.Render(ctx, order)
	if err != nil {
		s.logger.Error("Failed to render order document",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return domain.EmailStatusFailed
	}

	if err := s.dispatcher.Send(ctx, order, pdf); err != nil {
		s.logger.Error("Failed to send request copy email",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return domain.EmailStatusFailed
	}

	return domain.EmailStatusSent
}

// List returns all orders, newest created first.
func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Get returns one order by id.
func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// UpdateStatus validates the requested status and persists it. Any status
// may follow any status.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	requested := domain.OrderStatus(status)
	if !requested.IsValid() {
		return nil, newValidationError("Status must be one of: " + domain.OrderStatusList())
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, requested)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return order, nil
}

func validateCreateOrder(input CreateOrderInput) error {
	if input.CustomerName == "" || input.Phone == "" || input.Email == "" {
		return newValidationError("Missing required fields: customer_name, phone, and email are required")
	}

	if len(input.Items) == 0 {
		return newValidationError("Order must contain at least one item")
	}

	for _, item := range input.Items {
		if item.ProductID == "" || item.ProductName == "" || item.Quantity == nil {
			return newValidationError("Each item must have product_id, product_name, and quantity")
		}
		if *item.Quantity < 1 {
			return newValidationError("Item quantity must be at least 1")
		}
	}

	return nil
}
