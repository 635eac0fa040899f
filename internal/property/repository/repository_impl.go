package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/property/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func withGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Preload("Plan")
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, property *domain.Property) error {
	return db.WithContext(ctx).Omit("Plan", "Images").Create(property).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Property, error) {
	return r.findOne(ctx, db, "id = ?", id)
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Property, error) {
	return r.findOne(ctx, db, "slug = ?", slug)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, arg any) (*domain.Property, error) {
	var property domain.Property
	err := withGraph(db.WithContext(ctx)).
		Where(query, arg).
		First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &property, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*domain.Property
	err := withGraph(db.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[snowflake.ID]*domain.Property, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]*domain.Property, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Property, error) {
	var rows []*domain.Property
	stmt := withGraph(db.WithContext(ctx).Model(&domain.Property{}))
	if filter.PublishedOnly {
		stmt = stmt.Where("is_published = ?", true)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.FeaturedOnly {
		stmt = stmt.Where("is_featured = ?", true)
	}
	err := stmt.
		Order("is_featured desc, created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Property{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repo) ReplaceImages(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, images []domain.PropertyImage) error {
	if err := db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&domain.PropertyImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&images).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	if err := db.WithContext(ctx).
		Where("property_id = ?", id).
		Delete(&domain.PropertyImage{}).Error; err != nil {
		return 0, err
	}
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Property{})
	return res.RowsAffected, res.Error
}
