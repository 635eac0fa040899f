package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/catalog/domain"
	"github.com/smallbiznis/homestead/internal/clock"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
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
		log:     p.Log.Named("catalog.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		planSvc: p.PlanSvc,
	}
}

func (s *Service) ListCatalog(ctx context.Context, req domain.CatalogRequest) ([]domain.CatalogCategory, error) {
	activeOnly := !req.IncludeInactive
	categories, err := s.repo.ListCategories(ctx, s.db, activeOnly)
	if err != nil {
		return nil, err
	}
	options, err := s.repo.ListOptions(ctx, s.db, activeOnly)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[snowflake.ID][]domain.Option, len(categories))
	for _, option := range options {
		if option == nil {
			continue
		}
		if activeOnly && !domain.OptionVisible(*option, req.PlanID) {
			continue
		}
		byCategory[option.CategoryID] = append(byCategory[option.CategoryID], *option)
	}

	out := make([]domain.CatalogCategory, 0, len(categories))
	for _, category := range categories {
		if category == nil {
			continue
		}
		visible := byCategory[category.ID]
		if activeOnly && req.PlanID != nil && len(visible) == 0 {
			continue
		}
		if visible == nil {
			visible = []domain.Option{}
		}
		out = append(out, domain.CatalogCategory{Category: *category, Options: visible})
	}
	return out, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.repo.ListCategories(ctx, s.db, false)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			categories = append(categories, *row)
		}
	}
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Category{}, domain.ErrInvalidName
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.clock.Now()
	category := domain.Category{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		StepOrder:   req.StepOrder,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertCategory(ctx, s.db, &category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id snowflake.ID, req domain.UpdateCategoryRequest) (domain.Category, error) {
	if id == 0 {
		return domain.Category{}, domain.ErrInvalidID
	}
	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		if name == "" {
			return domain.Category{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Description.Set {
		fields["description"] = strings.TrimSpace(req.Description.Value)
	}
	if req.StepOrder.Set {
		fields["step_order"] = req.StepOrder.Value
	}
	if req.IsActive.Set {
		fields["is_active"] = req.IsActive.Value
	}

	affected, err := s.repo.UpdateCategory(ctx, s.db, id, fields)
	if err != nil {
		return domain.Category{}, err
	}
	if affected == 0 {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return s.getCategory(ctx, id)
}

func (s *Service) ReorderCategories(ctx context.Context, ids []snowflake.ID) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, domain.ErrInvalidOrder
	}
	seen := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, domain.ErrInvalidOrder
		}
		if _, dup := seen[id]; dup {
			return nil, domain.ErrInvalidOrder
		}
		seen[id] = struct{}{}
	}

	now := s.clock.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			affected, err := s.repo.UpdateCategory(ctx, tx, id, map[string]any{
				"step_order": i + 1,
				"updated_at": now,
			})
			if err != nil {
				return err
			}
			if affected == 0 {
				return domain.ErrCategoryNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ListCategories(ctx)
}

func (s *Service) DeleteCategory(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return domain.ErrInvalidID
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.repo.CountOptions(ctx, tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrCategoryInUse
		}
		affected, err := s.repo.DeleteCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrCategoryNotFound
		}
		return nil
	})
	if db.IsForeignKeyErr(err) {
		return domain.ErrCategoryInUse
	}
	return err
}

func (s *Service) getCategory(ctx context.Context, id snowflake.ID) (domain.Category, error) {
	category, err := s.repo.FindCategory(ctx, s.db, id)
	if err != nil {
		return domain.Category{}, err
	}
	if category == nil {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return *category, nil
}

func (s *Service) GetOption(ctx context.Context, id snowflake.ID) (domain.Option, error) {
	if id == 0 {
		return domain.Option{}, domain.ErrInvalidID
	}
	option, err := s.repo.FindOption(ctx, s.db, id)
	if err != nil {
		return domain.Option{}, err
	}
	if option == nil {
		return domain.Option{}, domain.ErrNotFound
	}
	return *option, nil
}

func (s *Service) OptionsByIDs(ctx context.Context, ids []snowflake.ID) ([]domain.Option, error) {
	rows, err := s.repo.FindOptions(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	options := make([]domain.Option, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			options = append(options, *row)
		}
	}
	return options, nil
}

func (s *Service) CreateOption(ctx context.Context, req domain.CreateOptionRequest) (domain.Option, error) {
	if req.CategoryID == 0 {
		return domain.Option{}, domain.ErrInvalidCategory
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Option{}, domain.ErrInvalidName
	}
	if req.UpgradePrice < 0 {
		return domain.Option{}, domain.ErrInvalidPrice
	}
	if !validation.OptionalURL(req.ImageURL) {
		return domain.Option{}, domain.ErrInvalidImageURL
	}
	if _, err := s.getCategory(ctx, req.CategoryID); err != nil {
		return domain.Option{}, err
	}
	planID := normalizeID(req.PlanID)
	if err := s.ensurePlan(ctx, planID); err != nil {
		return domain.Option{}, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.clock.Now()
	option := domain.Option{
		ID:           s.genID.Generate(),
		CategoryID:   req.CategoryID,
		PlanID:       planID,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		UpgradePrice: req.UpgradePrice,
		IsDefault:    req.IsDefault,
		SortOrder:    req.SortOrder,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertOption(ctx, s.db, &option); err != nil {
		if db.IsForeignKeyErr(err) {
			return domain.Option{}, domain.ErrInvalidPlan
		}
		return domain.Option{}, err
	}
	return option, nil
}

func (s *Service) UpdateOption(ctx context.Context, id snowflake.ID, req domain.UpdateOptionRequest) (domain.Option, error) {
	if id == 0 {
		return domain.Option{}, domain.ErrInvalidID
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.CategoryID.Set {
		if req.CategoryID.Value == 0 {
			return domain.Option{}, domain.ErrInvalidCategory
		}
		if _, err := s.getCategory(ctx, req.CategoryID.Value); err != nil {
			return domain.Option{}, err
		}
		fields["category_id"] = req.CategoryID.Value
	}
	if req.PlanID.Set {
		planID := normalizeID(req.PlanID.Value)
		if err := s.ensurePlan(ctx, planID); err != nil {
			return domain.Option{}, err
		}
		fields["plan_id"] = planID
	}
	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		if name == "" {
			return domain.Option{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Description.Set {
		fields["description"] = strings.TrimSpace(req.Description.Value)
	}
	if req.ImageURL.Set {
		if !validation.OptionalURL(req.ImageURL.Value) {
			return domain.Option{}, domain.ErrInvalidImageURL
		}
		fields["image_url"] = strings.TrimSpace(req.ImageURL.Value)
	}
	if req.UpgradePrice.Set {
		if req.UpgradePrice.Value < 0 {
			return domain.Option{}, domain.ErrInvalidPrice
		}
		fields["upgrade_price"] = req.UpgradePrice.Value
	}
	if req.IsDefault.Set {
		fields["is_default"] = req.IsDefault.Value
	}
	if req.SortOrder.Set {
		fields["sort_order"] = req.SortOrder.Value
	}
	if req.IsActive.Set {
		fields["is_active"] = req.IsActive.Value
	}

	affected, err := s.repo.UpdateOption(ctx, s.db, id, fields)
	if err != nil {
		if db.IsForeignKeyErr(err) {
			return domain.Option{}, domain.ErrInvalidPlan
		}
		return domain.Option{}, err
	}
	if affected == 0 {
		return domain.Option{}, domain.ErrNotFound
	}
	return s.GetOption(ctx, id)
}

func (s *Service) DeleteOption(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return domain.ErrInvalidID
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		selected, err := s.repo.OptionSelected(ctx, tx, id)
		if err != nil {
			return err
		}
		if selected {
			return domain.ErrOptionInUse
		}
		affected, err := s.repo.DeleteOption(ctx, tx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if db.IsForeignKeyErr(err) {
		return domain.ErrOptionInUse
	}
	return err
}

func (s *Service) ensurePlan(ctx context.Context, planID *snowflake.ID) error {
	if planID == nil || s.planSvc == nil {
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

func normalizeID(id *snowflake.ID) *snowflake.ID {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}
