package http

import (
	"go.uber.org/fx"

	authtransport "github.com/orderdesk/orderdesk/internal/transport/http/auth"
	"github.com/orderdesk/orderdesk/internal/transport/http/middleware"
	ordertransport "github.com/orderdesk/orderdesk/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	middleware.Module,
	authtransport.Module,
	ordertransport.Module,
)
