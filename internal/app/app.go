package app

import (
	"go.uber.org/fx"

	"github.com/orderdesk/orderdesk/internal/cache"
	"github.com/orderdesk/orderdesk/internal/config"
	"github.com/orderdesk/orderdesk/internal/database"
	"github.com/orderdesk/orderdesk/internal/logger"
	"github.com/orderdesk/orderdesk/internal/messaging"
	"github.com/orderdesk/orderdesk/internal/observability"
	repositoryorder "github.com/orderdesk/orderdesk/internal/repository/order"
	repositoryuser "github.com/orderdesk/orderdesk/internal/repository/user"
	httpserver "github.com/orderdesk/orderdesk/internal/server/http"
	serviceauth "github.com/orderdesk/orderdesk/internal/service/auth"
	serviceorder "github.com/orderdesk/orderdesk/internal/service/order"
	"github.com/orderdesk/orderdesk/internal/token"
	transporthttp "github.com/orderdesk/orderdesk/internal/transport/http"
	"github.com/orderdesk/orderdesk/internal/worker"
	workerorder "github.com/orderdesk/orderdesk/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	token.Module,
	repositoryuser.Module,
	repositoryorder.Module,
	serviceauth.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
