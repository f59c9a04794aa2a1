package token

import "go.uber.org/fx"

// Module provides the token service to Fx.
var Module = fx.Provide(NewService)
