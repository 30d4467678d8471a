package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatuses lists the recognized statuses in display order.
var ValidOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// OrderStatusList renders the recognized statuses as a comma-separated
// list for client-facing messages.
func OrderStatusList() string {
	names := make([]string, 0, len(ValidOrderStatuses))
	for _, status := range ValidOrderStatuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}

// IsValid reports whether s is one of the recognized order statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// EmailStatus is the outcome of the best-effort confirmation email sent
// after an order is persisted. It is reported to the caller as a side
// channel and never affects the result of the create call itself.
type EmailStatus string

const (
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
	EmailStatusSkipped EmailStatus = "skipped"
)

// OrderItem is a denormalized snapshot of one product at order time.
// Later changes to the referenced product do not propagate.
type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Image       string `json:"image"`
	Brand       string `json:"brand"`
}

// Order is a customer order. Immutable after creation except for Status.
type Order struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	CustomerName string      `json:"customer_name" db:"customer_name"`
	Company      string      `json:"company" db:"company"`
	Location     string      `json:"location" db:"location"`
	Phone        string      `json:"phone" db:"phone"`
	Email        string      `json:"email" db:"email"`
	Items        []OrderItem `json:"items" db:"items"`
	Status       OrderStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}
