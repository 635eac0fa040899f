package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/homestead/internal/catalog/domain"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/configuration/domain"
	"github.com/smallbiznis/homestead/internal/observability/metrics"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
	"github.com/smallbiznis/homestead/internal/providers/email"
	"github.com/smallbiznis/homestead/pkg/db"
	"github.com/smallbiznis/homestead/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notifyTimeout = 10 * time.Second

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	PlanSvc    plandomain.Service
	CatalogSvc catalogdomain.Service
	Notifier   email.Notifier   `optional:"true"`
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	planSvc    plandomain.Service
	catalogSvc catalogdomain.Service
	notifier   email.Notifier
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("configuration.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		planSvc:    p.PlanSvc,
		catalogSvc: p.CatalogSvc,
		notifier:   p.Notifier,
		metrics:    p.Metrics,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.CreateConfigurationRequest) (domain.Configuration, error) {
	configuration, plan, options, err := s.create(ctx, req, domain.StatusSubmitted, true)
	if err != nil {
		return domain.Configuration{}, err
	}
	s.notify(ctx, configuration, plan, options)
	return configuration, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateConfigurationRequest) (domain.Configuration, error) {
	status := domain.Status(strings.ToLower(strings.TrimSpace(string(req.Status))))
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.Valid() {
		return domain.Configuration{}, domain.ErrInvalidStatus
	}
	configuration, _, _, err := s.create(ctx, req, status, false)
	return configuration, err
}

// create validates and stores a configuration. Public submissions pass
// publishedOnly so drafts stay out of reach.
func (s *Service) create(ctx context.Context, req domain.CreateConfigurationRequest, status domain.Status, publishedOnly bool) (domain.Configuration, plandomain.Plan, []catalogdomain.Option, error) {
	var (
		plan    plandomain.Plan
		options []catalogdomain.Option
	)
	if req.PlanID == 0 {
		return domain.Configuration{}, plan, nil, domain.ErrInvalidPlan
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return domain.Configuration{}, plan, nil, domain.ErrInvalidCustomerName
	}
	address := strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if !validation.Email(address) {
		return domain.Configuration{}, plan, nil, domain.ErrInvalidCustomerEmail
	}
	optionIDs := uniqueIDs(req.OptionIDs)
	if len(optionIDs) == 0 {
		return domain.Configuration{}, plan, nil, domain.ErrNoSelections
	}

	plan, err := s.planSvc.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, plandomain.ErrNotFound) {
			return domain.Configuration{}, plan, nil, domain.ErrInvalidPlan
		}
		return domain.Configuration{}, plan, nil, err
	}
	if publishedOnly && !plan.IsPublished {
		return domain.Configuration{}, plan, nil, domain.ErrInvalidPlan
	}

	options, err = s.catalogSvc.OptionsByIDs(ctx, optionIDs)
	if err != nil {
		return domain.Configuration{}, plan, nil, err
	}
	if len(options) != len(optionIDs) {
		return domain.Configuration{}, plan, nil, domain.ErrInvalidSelection
	}
	for _, option := range options {
		if !catalogdomain.OptionVisible(option, &plan.ID) || option.Category == nil || !option.Category.IsActive {
			return domain.Configuration{}, plan, nil, domain.ErrInvalidSelection
		}
	}

	now := s.clock.Now()
	configuration := domain.Configuration{
		ID:            s.genID.Generate(),
		PlanID:        plan.ID,
		CustomerName:  name,
		CustomerEmail: address,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Message:       strings.TrimSpace(req.Message),
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	selections := make([]domain.Selection, 0, len(optionIDs))
	for _, optionID := range optionIDs {
		selections = append(selections, domain.Selection{
			ID:              s.genID.Generate(),
			ConfigurationID: configuration.ID,
			OptionID:        optionID,
			CreatedAt:       now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &configuration); err != nil {
			return err
		}
		return s.repo.InsertSelections(ctx, tx, selections)
	})
	if err != nil {
		if db.IsForeignKeyErr(err) {
			return domain.Configuration{}, plan, nil, domain.ErrInvalidSelection
		}
		return domain.Configuration{}, plan, nil, err
	}

	s.metrics.RecordConfigurationSubmitted(ctx, string(status))
	s.log.Info("configuration created",
		zap.String("configuration_id", configuration.ID.String()),
		zap.String("plan_id", plan.ID.String()),
		zap.String("status", string(status)),
		zap.Int("selections", len(selections)),
	)

	created, err := s.Get(ctx, configuration.ID)
	return created, plan, options, err
}

// notify is best effort; delivery failures are only logged.
func (s *Service) notify(ctx context.Context, configuration domain.Configuration, plan plandomain.Plan, options []catalogdomain.Option) {
	if s.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	lines := make([]email.SelectionLine, 0, len(options))
	for _, option := range options {
		line := email.SelectionLine{Option: option.Name}
		if option.Category != nil {
			line.Category = option.Category.Name
		}
		lines = append(lines, line)
	}
	err := s.notifier.ConfigurationSubmitted(notifyCtx, email.ConfigurationNotice{
		CustomerName:  configuration.CustomerName,
		CustomerEmail: configuration.CustomerEmail,
		CustomerPhone: configuration.CustomerPhone,
		PlanName:      plan.Name,
		Message:       configuration.Message,
		Selections:    lines,
	})
	if err != nil {
		s.log.Warn("configuration notification failed",
			zap.String("configuration_id", configuration.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Configuration, error) {
	rows, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Configuration, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Configuration, error) {
	if id == 0 {
		return domain.Configuration{}, domain.ErrInvalidID
	}
	configuration, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Configuration{}, err
	}
	if configuration == nil {
		return domain.Configuration{}, domain.ErrNotFound
	}
	return *configuration, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status string) (domain.Configuration, error) {
	if id == 0 {
		return domain.Configuration{}, domain.ErrInvalidID
	}
	next := domain.Status(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return domain.Configuration{}, domain.ErrInvalidStatus
	}
	affected, err := s.repo.Update(ctx, s.db, id, map[string]any{
		"status":     next,
		"updated_at": s.clock.Now(),
	})
	if err != nil {
		return domain.Configuration{}, err
	}
	if affected == 0 {
		return domain.Configuration{}, domain.ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return domain.ErrInvalidID
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteSelections(ctx, tx, id); err != nil {
			return err
		}
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

// uniqueIDs drops zero and repeated ids, keeping first occurrence order.
func uniqueIDs(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
