package auth

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	authsvc "github.com/orderdesk/orderdesk/internal/service/auth"
)

// Module wires HTTP auth handlers.
var Module = fx.Options(
	fx.Provide(func(svc *authsvc.Service) *Handler {
		return NewHandler(svc)
	}),
	fx.Invoke(func(e *echo.Echo, h *Handler) {
		Register(e, h)
	}),
)
