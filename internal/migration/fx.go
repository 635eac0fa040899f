package migration

import (
	auditdomain "github.com/smallbiznis/homestead/internal/audit/domain"
	catalogdomain "github.com/smallbiznis/homestead/internal/catalog/domain"
	"github.com/smallbiznis/homestead/internal/config"
	configurationdomain "github.com/smallbiznis/homestead/internal/configuration/domain"
	gallerydomain "github.com/smallbiznis/homestead/internal/gallery/domain"
	leaddomain "github.com/smallbiznis/homestead/internal/lead/domain"
	lotdomain "github.com/smallbiznis/homestead/internal/lot/domain"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
	propertydomain "github.com/smallbiznis/homestead/internal/property/domain"
	selectionbookdomain "github.com/smallbiznis/homestead/internal/selectionbook/domain"
	testimonialdomain "github.com/smallbiznis/homestead/internal/testimonial/domain"
	"github.com/smallbiznis/homestead/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(Apply),
)

// Apply brings the schema up to date. Postgres uses the embedded SQL
// migrations; the other dialects fall back to gorm's AutoMigrate.
func Apply(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
	if !cfg.DBAutoMigrate {
		log.Info("schema migration disabled")
		return nil
	}

	if db.IsPostgres(cfg) {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		log.Info("schema migrated", zap.String("driver", "golang-migrate"))
		return nil
	}

	if err := conn.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Info("schema migrated", zap.String("driver", "gorm"), zap.String("type", cfg.DBType))
	return nil
}

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&plandomain.Plan{},
		&plandomain.PlanImage{},
		&propertydomain.Property{},
		&propertydomain.PropertyImage{},
		&lotdomain.Lot{},
		&lotdomain.LotFeature{},
		&lotdomain.LotImage{},
		&gallerydomain.GalleryItem{},
		&testimonialdomain.Testimonial{},
		&leaddomain.Lead{},
		&catalogdomain.Category{},
		&catalogdomain.Option{},
		&configurationdomain.Configuration{},
		&configurationdomain.Selection{},
		&selectionbookdomain.SelectionBook{},
		&auditdomain.AuditLog{},
	}
}
