package order

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	ordersvc "github.com/orderdesk/orderdesk/internal/service/order"
	"github.com/orderdesk/orderdesk/internal/transport/http/middleware"
)

// Module wires HTTP order handlers behind the token gate.
var Module = fx.Options(
	fx.Provide(func(svc *ordersvc.Service) *Handler {
		return NewHandler(svc)
	}),
	fx.Invoke(func(e *echo.Echo, h *Handler, gate *middleware.TokenGate) {
		Register(e, h, gate)
	}),
)
