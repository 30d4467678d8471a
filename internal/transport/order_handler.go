package transport

import (
	"encoding/json"
	"net/http"

	"shopdesk/internal/domain"
	"shopdesk/internal/middleware"
	"shopdesk/internal/repository"
	"shopdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemRequest is one line item on the wire. Quantity is a pointer so
// an absent quantity is distinguishable from an explicit zero. Fields not
// listed here are dropped during normalization.
type OrderItemRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    *int   `json:"quantity"`
	Image       string `json:"image"`
	Brand       string `json:"brand"`
}

// CreateOrderRequest represents the order creation payload
type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" validate:"required"`
	Company      string             `json:"company"`
	Location     string             `json:"location"`
	Phone        string             `json:"phone" validate:"required"`
	Email        string             `json:"email" validate:"required"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateStatusRequest represents the status transition payload
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrderResponse reports the created order and the confirmation
// email outcome as a side channel.
type CreateOrderResponse struct {
	Message     string             `json:"message"`
	OrderID     string             `json:"order_id"`
	Order       *domain.Order      `json:"order"`
	EmailStatus domain.EmailStatus `json:"email_status"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}/status", h.UpdateStatus)
	})
}

// Create handles order creation with the best-effort request-copy email
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order creation validation failed", zap.Error(err))

		failed := middleware.FailedFields(err)
		if len(failed) == 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// Field presence is checked before item-level rules; the envelope
		// fields come before the items slice in declaration order.
		if failed[0] == "Items" {
			middleware.RespondWithError(w, http.StatusBadRequest, "Order must contain at least one item")
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest,
			"Missing required fields: customer_name, phone, and email are required")
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Image:       item.Image,
			Brand:       item.Brand,
		})
	}

	order, emailStatus, err := h.orderService.Create(r.Context(), service.CreateOrderInput{
		CustomerName: req.CustomerName,
		Company:      req.Company,
		Location:     req.Location,
		Phone:        req.Phone,
		Email:        req.Email,
		Items:        items,
	})
	if err != nil {
		if vErr, ok := asValidationError(err); ok {
			middleware.RespondWithError(w, http.StatusBadRequest, vErr.Message)
			return
		}

		h.logger.Error("Order creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to create order. Please try again later.")
		return
	}

	h.logger.Info("Order created successfully",
		zap.String("order_id", order.ID.String()),
		zap.String("email_status", string(emailStatus)),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, CreateOrderResponse{
		Message:     "Order created successfully",
		OrderID:     order.ID.String(),
		Order:       order,
		EmailStatus: emailStatus,
	})
}

// List handles fetching all orders, newest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders. Please try again later.")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// Get handles fetching a single order
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}

		h.logger.Error("Failed to fetch order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch order. Please try again later.")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"order": order})
}

// UpdateStatus handles order status transitions
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, uuidErr := uuid.Parse(chi.URLParam(r, "id"))

	// The status value is validated even when the id is malformed, so a
	// bad status on a bad id still reads as a client-input error.
	if uuidErr != nil {
		if !domain.OrderStatus(req.Status).IsValid() {
			middleware.RespondWithError(w, http.StatusBadRequest,
				"Status must be one of: "+domain.OrderStatusList())
			return
		}
		middleware.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if vErr, ok := asValidationError(err); ok {
			middleware.RespondWithError(w, http.StatusBadRequest, vErr.Message)
			return
		}
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}

		h.logger.Error("Failed to update order status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to update order status. Please try again later.")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated successfully",
		"order":   order,
	})
}
