package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, lot *Lot) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Lot, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Lot, error)
	List(ctx context.Context, db *gorm.DB, publishedOnly bool) ([]*Lot, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	ReplaceFeatures(ctx context.Context, db *gorm.DB, lotID snowflake.ID, features []LotFeature) error
	ReplaceImages(ctx context.Context, db *gorm.DB, lotID snowflake.ID, images []LotImage) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
