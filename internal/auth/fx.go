package auth

import (
	"github.com/smallbiznis/homestead/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.verifier",
	fx.Provide(service.New),
)
