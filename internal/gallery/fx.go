package gallery

import (
	"github.com/smallbiznis/homestead/internal/gallery/domain"
	"github.com/smallbiznis/homestead/internal/gallery/service"
	"github.com/smallbiznis/homestead/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("gallery.service",
	fx.Provide(repository.ProvideStore[domain.GalleryItem]),
	fx.Provide(service.New),
)
