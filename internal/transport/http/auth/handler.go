package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/orderdesk/orderdesk/internal/dto"
	"github.com/orderdesk/orderdesk/internal/presentation/http/response"
	"github.com/orderdesk/orderdesk/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/orderdesk/orderdesk/transport/http/auth")

// Service is the auth surface the handler depends on.
type Service interface {
	Register(ctx context.Context, loginID, plainSecret string) error
	Login(ctx context.Context, loginID, plainSecret string) (string, error)
}

// Handler exposes registration and login over HTTP. Both routes are
// deliberately outside the token gate.
type Handler struct {
	svc Service
}

// NewHandler constructs an auth Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
}

func (h *Handler) register(c echo.Context) error {
	b := response.New(c)

	var payload dto.CredentialsPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.register", trace.WithAttributes(attribute.String("user.login_id", payload.LoginID)))
	defer span.End()

	if err := h.svc.Register(ctx, payload.LoginID, payload.PlainSecret); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.RegisterResponse{Message: "User registered"}).Build()
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var payload dto.CredentialsPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.login", trace.WithAttributes(attribute.String("user.login_id", payload.LoginID)))
	defer span.End()

	signed, err := h.svc.Login(ctx, payload.LoginID, payload.PlainSecret)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.TokenResponse{Token: signed}).Build()
}
