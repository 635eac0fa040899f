package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, configuration *Configuration) error
	InsertSelections(ctx context.Context, db *gorm.DB, selections []Selection) error
	// FindByID loads the plan and selections with option and category.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Configuration, error)
	List(ctx context.Context, db *gorm.DB) ([]*Configuration, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	DeleteSelections(ctx context.Context, db *gorm.DB, configurationID snowflake.ID) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
