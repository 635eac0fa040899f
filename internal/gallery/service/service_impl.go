package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/gallery/domain"
	"github.com/smallbiznis/homestead/pkg/db/option"
	"github.com/smallbiznis/homestead/pkg/repository"
	"github.com/smallbiznis/homestead/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  repository.Repository[domain.GalleryItem]
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  repository.Repository[domain.GalleryItem]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("gallery.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.GalleryItem, error) {
	opts := []option.QueryOption{option.OrderBy("sort_order asc", "created_at desc", "id desc")}
	if req.PublishedOnly {
		opts = append(opts, option.Published())
	}
	if category := normalizeCategory(req.Category); category != "" {
		opts = append(opts, option.Where("category = ?", category))
	}

	rows, err := s.repo.Find(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	items := make([]domain.GalleryItem, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			items = append(items, *row)
		}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.GalleryItem, error) {
	if id == 0 {
		return domain.GalleryItem{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.GalleryItem{}, err
	}
	if item == nil {
		return domain.GalleryItem{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateItemRequest) (domain.GalleryItem, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	if !validation.URL(imageURL) {
		return domain.GalleryItem{}, domain.ErrInvalidImageURL
	}

	now := s.clock.Now()
	item := domain.GalleryItem{
		ID:          s.genID.Generate(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		ImageURL:    imageURL,
		Category:    normalizeCategory(req.Category),
		Tags:        domain.NewTags(req.Tags),
		SortOrder:   req.SortOrder,
		IsPublished: req.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return domain.GalleryItem{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateItemRequest) (domain.GalleryItem, error) {
	if id == 0 {
		return domain.GalleryItem{}, domain.ErrInvalidID
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Title.Set {
		fields["title"] = strings.TrimSpace(req.Title.Value)
	}
	if req.Description.Set {
		fields["description"] = strings.TrimSpace(req.Description.Value)
	}
	if req.ImageURL.Set {
		imageURL := strings.TrimSpace(req.ImageURL.Value)
		if !validation.URL(imageURL) {
			return domain.GalleryItem{}, domain.ErrInvalidImageURL
		}
		fields["image_url"] = imageURL
	}
	if req.Category.Set {
		fields["category"] = normalizeCategory(req.Category.Value)
	}
	if req.Tags.Set {
		fields["tags"] = domain.NewTags(req.Tags.Value)
	}
	if req.SortOrder.Set {
		fields["sort_order"] = req.SortOrder.Value
	}
	if req.IsPublished.Set {
		fields["is_published"] = req.IsPublished.Value
	}

	affected, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return domain.GalleryItem{}, err
	}
	if affected == 0 {
		return domain.GalleryItem{}, domain.ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return domain.ErrInvalidID
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func normalizeCategory(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
