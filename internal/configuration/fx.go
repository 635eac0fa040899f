package configuration

import (
	"github.com/smallbiznis/homestead/internal/configuration/repository"
	"github.com/smallbiznis/homestead/internal/configuration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("configuration.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
