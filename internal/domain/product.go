package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog entry. JSON field names are the wire
// contract consumed by the admin panel.
type Product struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	ProductName      string            `json:"product_name" db:"product_name"`
	ShortDescription string            `json:"short_description" db:"short_description"`
	LongDescription  string            `json:"long_description" db:"long_description"`
	Image            string            `json:"image" db:"image"`
	Brand            string            `json:"brand" db:"brand"`
	Category         []string          `json:"category" db:"category"`
	Tags             []string          `json:"tags" db:"tags"`
	Features         []string          `json:"features" db:"features"`
	Specifications   map[string]string `json:"specifications" db:"specifications"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
}
