package middleware

import "go.uber.org/fx"

// Module provides the auth middleware to Fx.
var Module = fx.Provide(NewTokenGate)
