package order

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/orderdesk/orderdesk/internal/dto"
	"github.com/orderdesk/orderdesk/internal/entity"
	"github.com/orderdesk/orderdesk/internal/presentation/http/response"
	"github.com/orderdesk/orderdesk/internal/transport/http/middleware"
	"github.com/orderdesk/orderdesk/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/orderdesk/orderdesk/transport/http/order")

// Service is the order surface the handler depends on.
type Service interface {
	Create(ctx context.Context, order *entity.Order) error
	List(ctx context.Context) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*entity.Order, error)
}

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. The whole group sits
// behind the token gate; unauthenticated requests never reach a handler.
func Register(e *echo.Echo, h *Handler, gate *middleware.TokenGate) {
	g := e.Group("/api/orders", gate.Require())
	g.POST("", h.create)
	g.GET("", h.list)
	g.PATCH("/:id", h.updateStatus)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		CustomerID string                 `json:"customerId"`
		Items      []dto.OrderItemPayload `json:"items"`
		Status     string                 `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	order := &entity.Order{
		CustomerID: payload.CustomerID,
		Items:      toItems(payload.Items),
		Status:     payload.Status,
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.String("order.customer_id", order.CustomerID),
	))
	defer span.End()

	if err := h.svc.Create(ctx, order); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.OrderCreatedResponse{OrderID: order.ID}).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.updateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", payload.Status),
	))
	defer span.End()

	order, err := h.svc.UpdateStatus(ctx, id, payload.Status)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func toItems(items []dto.OrderItemPayload) []entity.OrderItem {
	out := make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.OrderItem{Item: it.Item, Quantity: it.Quantity})
	}
	return out
}

func toDTO(order *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemPayload, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, dto.OrderItemPayload{Item: it.Item, Quantity: it.Quantity})
	}
	return dto.OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Items:      items,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}
