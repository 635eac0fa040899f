package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/homestead/internal/clock"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
	"github.com/smallbiznis/homestead/internal/property/domain"
	"github.com/smallbiznis/homestead/pkg/db"
	"github.com/smallbiznis/homestead/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	PlanSvc plandomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	planSvc plandomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("property.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		planSvc: p.PlanSvc,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Property, error) {
	status := domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		PublishedOnly: req.PublishedOnly,
		Status:        status,
		FeaturedOnly:  req.FeaturedOnly,
	})
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (s *Service) Get(ctx context.Context, ref string, publishedOnly bool) (domain.Property, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Property{}, domain.ErrInvalidID
	}

	var (
		item *domain.Property
		err  error
	)
	if id, parseErr := snowflake.ParseString(ref); parseErr == nil && id != 0 {
		if item, err = s.repo.FindByID(ctx, s.db, id); err != nil {
			return domain.Property{}, err
		}
	}
	if item == nil {
		if item, err = s.repo.FindBySlug(ctx, s.db, strings.ToLower(ref)); err != nil {
			return domain.Property{}, err
		}
	}
	if item == nil || (publishedOnly && !item.IsPublished) {
		return domain.Property{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Property, error) {
	if id == 0 {
		return domain.Property{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Property{}, err
	}
	if item == nil {
		return domain.Property{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetMany(ctx context.Context, ids []snowflake.ID) ([]domain.Property, error) {
	items, err := s.repo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Property, 0, len(items))
	for _, item := range items {
		if item == nil || !item.IsPublished {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreatePropertyRequest) (domain.Property, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Property{}, domain.ErrInvalidTitle
	}
	propertySlug := slug.Make(firstNonEmpty(req.Slug, title))
	if propertySlug == "" {
		return domain.Property{}, domain.ErrInvalidSlug
	}
	status := req.Status
	if status == "" {
		status = domain.StatusAvailable
	}
	if !status.Valid() {
		return domain.Property{}, domain.ErrInvalidStatus
	}
	if req.Price < 0 {
		return domain.Property{}, domain.ErrInvalidPrice
	}
	if req.Bedrooms < 0 || req.Bathrooms < 0 || req.SquareFeet < 0 {
		return domain.Property{}, domain.ErrInvalidSpecs
	}
	if err := s.ensurePlan(ctx, req.PlanID); err != nil {
		return domain.Property{}, err
	}

	now := s.clock.Now()
	property := domain.Property{
		ID:          s.genID.Generate(),
		PlanID:      normalizeID(req.PlanID),
		Title:       title,
		Slug:        propertySlug,
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		PostalCode:  strings.TrimSpace(req.PostalCode),
		Price:       req.Price,
		Status:      status,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		SquareFeet:  req.SquareFeet,
		LotSize:     strings.TrimSpace(req.LotSize),
		Description: strings.TrimSpace(req.Description),
		IsFeatured:  req.IsFeatured,
		IsPublished: req.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	images, err := s.buildImages(property.ID, req.Images)
	if err != nil {
		return domain.Property{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &property); err != nil {
			return err
		}
		return s.repo.ReplaceImages(ctx, tx, property.ID, images)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Property{}, domain.ErrSlugTaken
		}
		if db.IsForeignKeyErr(err) {
			return domain.Property{}, domain.ErrInvalidPlan
		}
		return domain.Property{}, err
	}

	return s.GetByID(ctx, property.ID)
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdatePropertyRequest) (domain.Property, error) {
	if id == 0 {
		return domain.Property{}, domain.ErrInvalidID
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.PlanID.Set {
		planID := normalizeID(req.PlanID.Value)
		if err := s.ensurePlan(ctx, planID); err != nil {
			return domain.Property{}, err
		}
		fields["plan_id"] = planID
	}
	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Value)
		if title == "" {
			return domain.Property{}, domain.ErrInvalidTitle
		}
		fields["title"] = title
	}
	if req.Slug.Set {
		propertySlug := slug.Make(req.Slug.Value)
		if propertySlug == "" {
			return domain.Property{}, domain.ErrInvalidSlug
		}
		fields["slug"] = propertySlug
	}
	for column, field := range map[string]struct {
		set   bool
		value string
	}{
		"address":     {req.Address.Set, req.Address.Value},
		"city":        {req.City.Set, req.City.Value},
		"state":       {req.State.Set, req.State.Value},
		"postal_code": {req.PostalCode.Set, req.PostalCode.Value},
		"lot_size":    {req.LotSize.Set, req.LotSize.Value},
		"description": {req.Description.Set, req.Description.Value},
	} {
		if field.set {
			fields[column] = strings.TrimSpace(field.value)
		}
	}
	if req.Price.Set {
		if req.Price.Value < 0 {
			return domain.Property{}, domain.ErrInvalidPrice
		}
		fields["price"] = req.Price.Value
	}
	if req.Status.Set {
		if !req.Status.Value.Valid() {
			return domain.Property{}, domain.ErrInvalidStatus
		}
		fields["status"] = req.Status.Value
	}
	if req.Bedrooms.Set {
		if req.Bedrooms.Value < 0 {
			return domain.Property{}, domain.ErrInvalidSpecs
		}
		fields["bedrooms"] = req.Bedrooms.Value
	}
	if req.Bathrooms.Set {
		if req.Bathrooms.Value < 0 {
			return domain.Property{}, domain.ErrInvalidSpecs
		}
		fields["bathrooms"] = req.Bathrooms.Value
	}
	if req.SquareFeet.Set {
		if req.SquareFeet.Value < 0 {
			return domain.Property{}, domain.ErrInvalidSpecs
		}
		fields["square_feet"] = req.SquareFeet.Value
	}
	if req.IsFeatured.Set {
		fields["is_featured"] = req.IsFeatured.Value
	}
	if req.IsPublished.Set {
		fields["is_published"] = req.IsPublished.Value
	}

	var images []domain.PropertyImage
	if req.Images.Set {
		var err error
		if images, err = s.buildImages(id, req.Images.Value); err != nil {
			return domain.Property{}, err
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
			return domain.Property{}, domain.ErrSlugTaken
		}
		if db.IsForeignKeyErr(err) {
			return domain.Property{}, domain.ErrInvalidPlan
		}
		return domain.Property{}, err
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

func (s *Service) ensurePlan(ctx context.Context, planID *snowflake.ID) error {
	if planID == nil || *planID == 0 || s.planSvc == nil {
		return nil
	}
	if _, err := s.planSvc.GetByID(ctx, *planID); err != nil {
		if errors.Is(err, plandomain.ErrNotFound) {
			return domain.ErrInvalidPlan
		}
		return err
	}
	return nil
}

func (s *Service) buildImages(propertyID snowflake.ID, inputs []domain.ImageInput) ([]domain.PropertyImage, error) {
	now := s.clock.Now()
	images := make([]domain.PropertyImage, 0, len(inputs))
	for i, input := range inputs {
		url := strings.TrimSpace(input.URL)
		if !validation.URL(url) {
			return nil, domain.ErrInvalidImage
		}
		order := input.SortOrder
		if order == 0 {
			order = i
		}
		images = append(images, domain.PropertyImage{
			ID:         s.genID.Generate(),
			PropertyID: propertyID,
			URL:        url,
			Caption:    strings.TrimSpace(input.Caption),
			SortOrder:  order,
			CreatedAt:  now,
		})
	}
	return images, nil
}

func normalizeID(id *snowflake.ID) *snowflake.ID {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func deref(items []*domain.Property) []domain.Property {
	out := make([]domain.Property, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, *item)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
