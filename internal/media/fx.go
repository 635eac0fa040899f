package media

import (
	"github.com/smallbiznis/homestead/internal/media/service"
	"go.uber.org/fx"
)

var Module = fx.Module("media.service",
	fx.Provide(service.New),
)
