package pdf

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("pdf",
	fx.Provide(NewRenderer),
	fx.Provide(func(log *zap.Logger) *Fetcher {
		return NewFetcher(&http.Client{}, log)
	}),
)
