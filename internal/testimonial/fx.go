package testimonial

import (
	"github.com/smallbiznis/homestead/internal/testimonial/domain"
	"github.com/smallbiznis/homestead/internal/testimonial/service"
	"github.com/smallbiznis/homestead/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("testimonial.service",
	fx.Provide(repository.ProvideStore[domain.Testimonial]),
	fx.Provide(service.New),
)
