package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/catalog/domain"
	"gorm.io/gorm"
)

const selectionsTable = "configuration_selections"

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) FindCategory(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Category, error) {
	var category domain.Category
	err := db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *repo) ListCategories(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*domain.Category, error) {
	var rows []*domain.Category
	stmt := db.WithContext(ctx).Model(&domain.Category{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	if err := stmt.Order("step_order asc, name asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) UpdateCategory(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteCategory(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{})
	return res.RowsAffected, res.Error
}

func (r *repo) CountOptions(ctx context.Context, db *gorm.DB, categoryID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Option{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *repo) InsertOption(ctx context.Context, db *gorm.DB, option *domain.Option) error {
	return db.WithContext(ctx).Omit("Category").Create(option).Error
}

func (r *repo) FindOption(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Option, error) {
	var option domain.Option
	err := db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

func (r *repo) FindOptions(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Option, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*domain.Option
	err := db.WithContext(ctx).
		Preload("Category").
		Where("id IN ?", ids).
		Order("sort_order asc, name asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListOptions(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*domain.Option, error) {
	var rows []*domain.Option
	stmt := db.WithContext(ctx).Model(&domain.Option{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	if err := stmt.Order("sort_order asc, name asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) UpdateOption(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.Option{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteOption(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Option{})
	return res.RowsAffected, res.Error
}

func (r *repo) OptionSelected(ctx context.Context, db *gorm.DB, optionID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Table(selectionsTable).
		Where("option_id = ?", optionID).
		Count(&count).Error
	return count > 0, err
}
