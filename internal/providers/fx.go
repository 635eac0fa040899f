package providers

import (
	"github.com/smallbiznis/homestead/internal/providers/email"
	"github.com/smallbiznis/homestead/internal/providers/pdf"
	"github.com/smallbiznis/homestead/internal/providers/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
	storage.Module,
)
