package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	PublishedOnly bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Plan, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Plan, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Plan, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Plan, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	ReplaceImages(ctx context.Context, db *gorm.DB, planID snowflake.ID, images []PlanImage) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
