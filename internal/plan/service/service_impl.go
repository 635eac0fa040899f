package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/plan/domain"
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
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, publishedOnly bool) ([]domain.Plan, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListFilter{PublishedOnly: publishedOnly})
	if err != nil {
		return nil, err
	}
	plans := make([]domain.Plan, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		plans = append(plans, *item)
	}
	return plans, nil
}

func (s *Service) Get(ctx context.Context, ref string, publishedOnly bool) (domain.Plan, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Plan{}, domain.ErrInvalidID
	}

	var (
		item *domain.Plan
		err  error
	)
	if id, parseErr := snowflake.ParseString(ref); parseErr == nil && id != 0 {
		item, err = s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Plan{}, err
		}
	}
	if item == nil {
		item, err = s.repo.FindBySlug(ctx, s.db, strings.ToLower(ref))
		if err != nil {
			return domain.Plan{}, err
		}
	}
	if item == nil || (publishedOnly && !item.IsPublished) {
		return domain.Plan{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Plan, error) {
	if id == 0 {
		return domain.Plan{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if item == nil {
		return domain.Plan{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.Plan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Plan{}, domain.ErrInvalidName
	}
	planSlug := slug.Make(firstNonEmpty(req.Slug, name))
	if planSlug == "" {
		return domain.Plan{}, domain.ErrInvalidSlug
	}
	if req.Bedrooms < 0 || req.Bathrooms < 0 || req.SquareFeet < 0 || req.Stories < 0 || req.GarageSpaces < 0 {
		return domain.Plan{}, domain.ErrInvalidSpecs
	}
	if req.BasePrice < 0 {
		return domain.Plan{}, domain.ErrInvalidPrice
	}
	floorPlanURL := strings.TrimSpace(req.FloorPlanURL)
	if !validation.OptionalURL(floorPlanURL) {
		return domain.Plan{}, domain.ErrInvalidFloorPlan
	}
	stories := req.Stories
	if stories == 0 {
		stories = 1
	}

	now := s.clock.Now()
	plan := domain.Plan{
		ID:           s.genID.Generate(),
		Name:         name,
		Slug:         planSlug,
		Description:  strings.TrimSpace(req.Description),
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		Stories:      stories,
		GarageSpaces: req.GarageSpaces,
		BasePrice:    req.BasePrice,
		FloorPlanURL: floorPlanURL,
		IsPublished:  req.IsPublished,
		SortOrder:    req.SortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	images, err := s.buildImages(plan.ID, req.Images)
	if err != nil {
		return domain.Plan{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &plan); err != nil {
			return err
		}
		return s.repo.ReplaceImages(ctx, tx, plan.ID, images)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Plan{}, domain.ErrSlugTaken
		}
		return domain.Plan{}, err
	}

	plan.Images = images
	return plan, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdatePlanRequest) (domain.Plan, error) {
	if id == 0 {
		return domain.Plan{}, domain.ErrInvalidID
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		if name == "" {
			return domain.Plan{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Slug.Set {
		planSlug := slug.Make(req.Slug.Value)
		if planSlug == "" {
			return domain.Plan{}, domain.ErrInvalidSlug
		}
		fields["slug"] = planSlug
	}
	if req.Description.Set {
		fields["description"] = strings.TrimSpace(req.Description.Value)
	}
	for column, value := range map[string]patchInt{
		"bedrooms":      {req.Bedrooms.Set, req.Bedrooms.Value},
		"square_feet":   {req.SquareFeet.Set, req.SquareFeet.Value},
		"stories":       {req.Stories.Set, req.Stories.Value},
		"garage_spaces": {req.GarageSpaces.Set, req.GarageSpaces.Value},
	} {
		if !value.set {
			continue
		}
		if value.value < 0 {
			return domain.Plan{}, domain.ErrInvalidSpecs
		}
		fields[column] = value.value
	}
	if req.Bathrooms.Set {
		if req.Bathrooms.Value < 0 {
			return domain.Plan{}, domain.ErrInvalidSpecs
		}
		fields["bathrooms"] = req.Bathrooms.Value
	}
	if req.BasePrice.Set {
		if req.BasePrice.Value < 0 {
			return domain.Plan{}, domain.ErrInvalidPrice
		}
		fields["base_price"] = req.BasePrice.Value
	}
	if req.FloorPlanURL.Set {
		if !validation.OptionalURL(req.FloorPlanURL.Value) {
			return domain.Plan{}, domain.ErrInvalidFloorPlan
		}
		fields["floor_plan_url"] = strings.TrimSpace(req.FloorPlanURL.Value)
	}
	if req.IsPublished.Set {
		fields["is_published"] = req.IsPublished.Value
	}
	if req.SortOrder.Set {
		fields["sort_order"] = req.SortOrder.Value
	}

	var images []domain.PlanImage
	if req.Images.Set {
		var err error
		if images, err = s.buildImages(id, req.Images.Value); err != nil {
			return domain.Plan{}, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.Update(ctx, tx, id, fields)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		if req.Images.Set {
			return s.repo.ReplaceImages(ctx, tx, id, images)
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Plan{}, domain.ErrSlugTaken
		}
		return domain.Plan{}, err
	}

	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return domain.ErrInvalidID
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if db.IsForeignKeyErr(err) {
		return domain.ErrPlanInUse
	}
	return err
}

type patchInt struct {
	set   bool
	value int
}

func (s *Service) buildImages(planID snowflake.ID, inputs []domain.ImageInput) ([]domain.PlanImage, error) {
	now := s.clock.Now()
	images := make([]domain.PlanImage, 0, len(inputs))
	for i, input := range inputs {
		url := strings.TrimSpace(input.URL)
		if !validation.URL(url) {
			return nil, domain.ErrInvalidImage
		}
		order := input.SortOrder
		if order == 0 {
			order = i
		}
		images = append(images, domain.PlanImage{
			ID:        s.genID.Generate(),
			PlanID:    planID,
			URL:       url,
			Caption:   strings.TrimSpace(input.Caption),
			SortOrder: order,
			CreatedAt: now,
		})
	}
	return images, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
