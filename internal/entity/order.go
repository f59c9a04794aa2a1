package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderItem is a single line item on an order. Items are persisted as a
// JSON document inside the order row rather than a separate table.
type OrderItem struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Order represents a customer order stored in the database.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID         int64       `bun:",pk,autoincrement"`
	CustomerID string      `bun:"customer_id"`
	Items      []OrderItem `bun:"items,type:jsonb"`
	Status     string      `bun:"status"`
	CreatedAt  time.Time   `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time   `bun:"updated_at,nullzero"`
}
