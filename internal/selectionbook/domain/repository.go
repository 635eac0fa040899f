package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, book *SelectionBook) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SelectionBook, error)
	List(ctx context.Context, db *gorm.DB) ([]*SelectionBook, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
