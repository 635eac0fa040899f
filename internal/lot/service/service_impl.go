package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/lot/domain"
	"github.com/smallbiznis/homestead/pkg/db"
	"github.com/smallbiznis/homestead/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("lot.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, publishedOnly bool) ([]domain.Lot, error) {
	items, err := s.repo.List(ctx, s.db, publishedOnly)
	if err != nil {
		return nil, err
	}
	lots := make([]domain.Lot, 0, len(items))
	for _, item := range items {
		if item != nil {
			lots = append(lots, *item)
		}
	}
	return lots, nil
}

func (s *Service) Get(ctx context.Context, ref string, publishedOnly bool) (domain.Lot, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Lot{}, domain.ErrInvalidID
	}

	var (
		item *domain.Lot
		err  error
	)
	if id, parseErr := snowflake.ParseString(ref); parseErr == nil && id != 0 {
		if item, err = s.repo.FindByID(ctx, s.db, id); err != nil {
			return domain.Lot{}, err
		}
	}
	if item == nil {
		if item, err = s.repo.FindBySlug(ctx, s.db, strings.ToLower(ref)); err != nil {
			return domain.Lot{}, err
		}
	}
	if item == nil || (publishedOnly && !item.IsPublished) {
		return domain.Lot{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Lot, error) {
	if id == 0 {
		return domain.Lot{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Lot{}, err
	}
	if item == nil {
		return domain.Lot{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateLotRequest) (domain.Lot, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Lot{}, domain.ErrInvalidName
	}
	lotSlug := slug.Make(req.Slug)
	if lotSlug == "" {
		lotSlug = slug.Make(name)
	}
	if lotSlug == "" {
		return domain.Lot{}, domain.ErrInvalidSlug
	}
	status := req.Status
	if status == "" {
		status = domain.StatusAvailable
	}
	if !status.Valid() {
		return domain.Lot{}, domain.ErrInvalidStatus
	}
	if req.Price < 0 {
		return domain.Lot{}, domain.ErrInvalidPrice
	}
	if req.Acreage < 0 {
		return domain.Lot{}, domain.ErrInvalidAcreage
	}

	now := s.clock.Now()
	lot := domain.Lot{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        lotSlug,
		Address:     strings.TrimSpace(req.Address),
		Acreage:     req.Acreage,
		Price:       req.Price,
		Status:      status,
		Description: strings.TrimSpace(req.Description),
		IsPublished: req.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	features, err := s.buildFeatures(lot.ID, req.Features)
	if err != nil {
		return domain.Lot{}, err
	}
	images, err := s.buildImages(lot.ID, req.Images)
	if err != nil {
		return domain.Lot{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &lot); err != nil {
			return err
		}
		if err := s.repo.ReplaceFeatures(ctx, tx, lot.ID, features); err != nil {
			return err
		}
		return s.repo.ReplaceImages(ctx, tx, lot.ID, images)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Lot{}, domain.ErrSlugTaken
		}
		return domain.Lot{}, err
	}

	lot.Features = features
	lot.Images = images
	return lot, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateLotRequest) (domain.Lot, error) {
	if id == 0 {
		return domain.Lot{}, domain.ErrInvalidID
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		if name == "" {
			return domain.Lot{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Slug.Set {
		lotSlug := slug.Make(req.Slug.Value)
		if lotSlug == "" {
			return domain.Lot{}, domain.ErrInvalidSlug
		}
		fields["slug"] = lotSlug
	}
	if req.Address.Set {
		fields["address"] = strings.TrimSpace(req.Address.Value)
	}
	if req.Acreage.Set {
		if req.Acreage.Value < 0 {
			return domain.Lot{}, domain.ErrInvalidAcreage
		}
		fields["acreage"] = req.Acreage.Value
	}
	if req.Price.Set {
		if req.Price.Value < 0 {
			return domain.Lot{}, domain.ErrInvalidPrice
		}
		fields["price"] = req.Price.Value
	}
	if req.Status.Set {
		if !req.Status.Value.Valid() {
			return domain.Lot{}, domain.ErrInvalidStatus
		}
		fields["status"] = req.Status.Value
	}
	if req.Description.Set {
		fields["description"] = strings.TrimSpace(req.Description.Value)
	}
	if req.IsPublished.Set {
		fields["is_published"] = req.IsPublished.Value
	}

	var (
		features []domain.LotFeature
		images   []domain.LotImage
		err      error
	)
	if req.Features.Set {
		if features, err = s.buildFeatures(id, req.Features.Value); err != nil {
			return domain.Lot{}, err
		}
	}
	if req.Images.Set {
		if images, err = s.buildImages(id, req.Images.Value); err != nil {
			return domain.Lot{}, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.Update(ctx, tx, id, fields)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		if req.Features.Set {
			if err := s.repo.ReplaceFeatures(ctx, tx, id, features); err != nil {
				return err
			}
		}
		if req.Images.Set {
			return s.repo.ReplaceImages(ctx, tx, id, images)
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Lot{}, domain.ErrSlugTaken
		}
		return domain.Lot{}, err
	}

	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return domain.ErrInvalidID
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (s *Service) buildFeatures(lotID snowflake.ID, names []string) ([]domain.LotFeature, error) {
	features := make([]domain.LotFeature, 0, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, domain.ErrInvalidFeature
		}
		features = append(features, domain.LotFeature{
			ID:        s.genID.Generate(),
			LotID:     lotID,
			Name:      name,
			SortOrder: i,
		})
	}
	return features, nil
}

func (s *Service) buildImages(lotID snowflake.ID, inputs []domain.ImageInput) ([]domain.LotImage, error) {
	now := s.clock.Now()
	images := make([]domain.LotImage, 0, len(inputs))
	for i, input := range inputs {
		url := strings.TrimSpace(input.URL)
		if !validation.URL(url) {
			return nil, domain.ErrInvalidImage
		}
		order := input.SortOrder
		if order == 0 {
			order = i
		}
		images = append(images, domain.LotImage{
			ID:        s.genID.Generate(),
			LotID:     lotID,
			URL:       url,
			Caption:   strings.TrimSpace(input.Caption),
			SortOrder: order,
			CreatedAt: now,
		})
	}
	return images, nil
}
