package storage

import (
	"context"
	"fmt"

	"github.com/smallbiznis/homestead/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Provider, error) {
	sc := cfg.Storage
	switch sc.Driver {
	case "gcs":
		provider, err := NewGCSProvider(context.Background(), sc.Bucket, sc.GCSCredentials, sc.PublicBaseURL, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return provider.Close() },
		})
		return provider, nil
	case "supabase":
		return NewSupabaseProvider(sc.SupabaseURL, sc.Bucket, sc.SupabaseKey, sc.PublicBaseURL, nil)
	case "memory", "":
		log.Warn("using in-memory storage; uploads are lost on restart")
		return NewMemoryProvider(sc.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", sc.Driver)
	}
}
