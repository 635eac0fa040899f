package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/smallbiznis/homestead/internal/lead/domain"
	"github.com/smallbiznis/homestead/internal/observability/metrics"
	"github.com/smallbiznis/homestead/internal/providers/email"
	"github.com/smallbiznis/homestead/pkg/iphash"
	"github.com/smallbiznis/homestead/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxMessageLength = 5000
	notifyTimeout    = 10 * time.Second
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Repo     domain.Repository
	Notifier email.Notifier   `optional:"true"`
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	salt     string
	repo     domain.Repository
	notifier email.Notifier
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("lead.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		salt:     p.Cfg.RateLimit.IPHashSalt,
		repo:     p.Repo,
		notifier: p.Notifier,
		metrics:  p.Metrics,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitLeadRequest) (domain.Lead, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Lead{}, domain.ErrInvalidName
	}
	address := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.Email(address) {
		return domain.Lead{}, domain.ErrInvalidEmail
	}
	interest := domain.Interest(strings.ToLower(strings.TrimSpace(string(req.Interest))))
	if interest == "" {
		interest = domain.InterestGeneral
	}
	if !interest.Valid() {
		return domain.Lead{}, domain.ErrInvalidInterest
	}
	message := strings.TrimSpace(req.Message)
	if utf8.RuneCountInString(message) > maxMessageLength {
		return domain.Lead{}, domain.ErrInvalidMessage
	}
	var reference *snowflake.ID
	if req.ReferenceID != nil && *req.ReferenceID != 0 && interest != domain.InterestGeneral {
		ref := *req.ReferenceID
		reference = &ref
	}

	now := s.clock.Now()
	lead := domain.Lead{
		ID:          s.genID.Generate(),
		Name:        name,
		Email:       address,
		Phone:       strings.TrimSpace(req.Phone),
		Message:     message,
		Interest:    interest,
		ReferenceID: reference,
		Status:      domain.StatusNew,
		IPHash:      iphash.Sum(req.ClientIP, s.salt),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &lead); err != nil {
		return domain.Lead{}, err
	}

	s.metrics.RecordLeadSubmitted(ctx, string(interest))
	s.notify(ctx, lead)
	return lead, nil
}

// notify is best effort; delivery failures are only logged.
func (s *Service) notify(ctx context.Context, lead domain.Lead) {
	if s.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	notice := email.LeadNotice{
		Name:     lead.Name,
		Email:    lead.Email,
		Phone:    lead.Phone,
		Interest: string(lead.Interest),
		Message:  lead.Message,
	}
	if lead.ReferenceID != nil {
		notice.Reference = lead.ReferenceID.String()
	}
	if err := s.notifier.LeadSubmitted(notifyCtx, notice); err != nil {
		s.log.Warn("lead notification failed",
			zap.String("lead_id", lead.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context, status string) ([]domain.Lead, error) {
	filter := domain.Status(strings.ToLower(strings.TrimSpace(status)))
	if filter != "" && !filter.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	rows, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	leads := make([]domain.Lead, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			leads = append(leads, *row)
		}
	}
	return leads, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Lead, error) {
	if id == 0 {
		return domain.Lead{}, domain.ErrInvalidID
	}
	lead, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if lead == nil {
		return domain.Lead{}, domain.ErrNotFound
	}
	return *lead, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status string) (domain.Lead, error) {
	if id == 0 {
		return domain.Lead{}, domain.ErrInvalidID
	}
	next := domain.Status(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return domain.Lead{}, domain.ErrInvalidStatus
	}
	affected, err := s.repo.Update(ctx, s.db, id, map[string]any{
		"status":     next,
		"updated_at": s.clock.Now(),
	})
	if err != nil {
		return domain.Lead{}, err
	}
	if affected == 0 {
		return domain.Lead{}, domain.ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return domain.ErrInvalidID
	}
	affected, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
