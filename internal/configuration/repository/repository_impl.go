package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/configuration/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func withGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Plan").
		Preload("Selections", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Selections.Option").
		Preload("Selections.Option.Category")
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, configuration *domain.Configuration) error {
	return db.WithContext(ctx).Omit("Plan", "Selections").Create(configuration).Error
}

func (r *repo) InsertSelections(ctx context.Context, db *gorm.DB, selections []domain.Selection) error {
	if len(selections) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit("Option").Create(&selections).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Configuration, error) {
	var configuration domain.Configuration
	err := withGraph(db.WithContext(ctx)).Where("id = ?", id).First(&configuration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &configuration, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Configuration, error) {
	var rows []*domain.Configuration
	err := withGraph(db.WithContext(ctx).Model(&domain.Configuration{})).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.Configuration{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteSelections(ctx context.Context, db *gorm.DB, configurationID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("configuration_id = ?", configurationID).
		Delete(&domain.Selection{}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Configuration{})
	return res.RowsAffected, res.Error
}
