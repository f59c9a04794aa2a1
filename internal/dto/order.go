package dto

import "time"

// OrderItemPayload mirrors a single line item on the wire.
type OrderItemPayload struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID         int64              `json:"id"`
	CustomerID string             `json:"customerId"`
	Items      []OrderItemPayload `json:"items"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// OrderCreatedResponse carries the identifier of a newly persisted order.
type OrderCreatedResponse struct {
	OrderID int64 `json:"orderId"`
}
