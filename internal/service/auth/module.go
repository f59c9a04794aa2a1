package auth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/orderdesk/orderdesk/internal/config"
	userrepo "github.com/orderdesk/orderdesk/internal/repository/user"
	"github.com/orderdesk/orderdesk/internal/token"
)

// Module provides the auth service to Fx.
var Module = fx.Provide(
	func(users *userrepo.Repository, tokens *token.Service, cfg config.Config, logger *zap.Logger) *Service {
		return NewService(users, tokens, cfg, logger)
	},
)
