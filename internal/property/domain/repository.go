package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	PublishedOnly bool
	Status        Status
	FeaturedOnly  bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, property *Property) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Property, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Property, error)
	// FindByIDs returns matching rows in the order of ids.
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Property, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Property, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error)
	ReplaceImages(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, images []PropertyImage) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
