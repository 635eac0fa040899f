package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc, id asc")
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Omit("Images").Create(plan).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).
		Preload("Images", orderedImages).
		Where("id = ?", id).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).
		Preload("Images", orderedImages).
		Where("slug = ?", slug).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Plan, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var plans []*domain.Plan
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	stmt := db.WithContext(ctx).
		Model(&domain.Plan{}).
		Preload("Images", orderedImages)
	if filter.PublishedOnly {
		stmt = stmt.Where("is_published = ?", true)
	}
	err := stmt.
		Order("sort_order asc, name asc").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Plan{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repo) ReplaceImages(ctx context.Context, db *gorm.DB, planID snowflake.ID, images []domain.PlanImage) error {
	if err := db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Delete(&domain.PlanImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&images).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	if err := db.WithContext(ctx).
		Where("plan_id = ?", id).
		Delete(&domain.PlanImage{}).Error; err != nil {
		return 0, err
	}
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Plan{})
	return res.RowsAffected, res.Error
}
