package selectionbook

import (
	"github.com/smallbiznis/homestead/internal/selectionbook/repository"
	"github.com/smallbiznis/homestead/internal/selectionbook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("selectionbook.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
