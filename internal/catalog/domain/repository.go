package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertCategory(ctx context.Context, db *gorm.DB, category *Category) error
	FindCategory(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Category, error)
	ListCategories(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*Category, error)
	UpdateCategory(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	DeleteCategory(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	CountOptions(ctx context.Context, db *gorm.DB, categoryID snowflake.ID) (int64, error)

	InsertOption(ctx context.Context, db *gorm.DB, option *Option) error
	FindOption(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Option, error)
	// FindOptions loads options with their category.
	FindOptions(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Option, error)
	ListOptions(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*Option, error)
	UpdateOption(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	DeleteOption(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	// OptionSelected reports whether any configuration selected the option.
	OptionSelected(ctx context.Context, db *gorm.DB, optionID snowflake.ID) (bool, error)
}
