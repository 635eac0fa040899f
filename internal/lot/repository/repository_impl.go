package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/lot/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Features", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		})
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, lot *domain.Lot) error {
	return db.WithContext(ctx).Omit("Features", "Images").Create(lot).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Lot, error) {
	return r.findOne(ctx, db, "id = ?", id)
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Lot, error) {
	return r.findOne(ctx, db, "slug = ?", slug)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, arg any) (*domain.Lot, error) {
	var lot domain.Lot
	err := withChildren(db.WithContext(ctx)).Where(query, arg).First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lot, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, publishedOnly bool) ([]*domain.Lot, error) {
	var rows []*domain.Lot
	stmt := withChildren(db.WithContext(ctx).Model(&domain.Lot{}))
	if publishedOnly {
		stmt = stmt.Where("is_published = ?", true)
	}
	if err := stmt.Order("name asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Lot{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repo) ReplaceFeatures(ctx context.Context, db *gorm.DB, lotID snowflake.ID, features []domain.LotFeature) error {
	if err := db.WithContext(ctx).Where("lot_id = ?", lotID).Delete(&domain.LotFeature{}).Error; err != nil {
		return err
	}
	if len(features) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&features).Error
}

func (r *repo) ReplaceImages(ctx context.Context, db *gorm.DB, lotID snowflake.ID, images []domain.LotImage) error {
	if err := db.WithContext(ctx).Where("lot_id = ?", lotID).Delete(&domain.LotImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&images).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	if err := r.ReplaceFeatures(ctx, db, id, nil); err != nil {
		return 0, err
	}
	if err := r.ReplaceImages(ctx, db, id, nil); err != nil {
		return 0, err
	}
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Lot{})
	return res.RowsAffected, res.Error
}
