package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/auditcontext"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/selectionbook/domain"
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
		log:   p.Log.Named("selectionbook.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.SelectionBook, error) {
	rows, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	books := make([]domain.SelectionBook, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			books = append(books, *row)
		}
	}
	return books, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.SelectionBook, error) {
	if id == 0 {
		return domain.SelectionBook{}, domain.ErrInvalidID
	}
	book, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.SelectionBook{}, err
	}
	if book == nil {
		return domain.SelectionBook{}, domain.ErrNotFound
	}
	return *book, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateSelectionBookRequest) (domain.SelectionBook, error) {
	email, err := normalizeEmail(req.CustomerEmail)
	if err != nil {
		return domain.SelectionBook{}, err
	}
	selections, err := domain.NormalizeSelections(req.Selections)
	if err != nil {
		return domain.SelectionBook{}, err
	}
	if req.TotalUpgrades < 0 {
		return domain.SelectionBook{}, domain.ErrInvalidTotal
	}

	now := s.clock.Now()
	book := domain.SelectionBook{
		ID:            s.genID.Generate(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: email,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		PlanID:        nonZero(req.PlanID),
		PlanName:      strings.TrimSpace(req.PlanName),
		LotLabel:      strings.TrimSpace(req.LotLabel),
		Selections:    selections,
		Notes:         req.Notes,
		TotalUpgrades: req.TotalUpgrades,
		Status:        domain.StatusDraft,
		CreatedBy:     auditcontext.ActorNameFromContext(ctx),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, &book); err != nil {
		return domain.SelectionBook{}, err
	}

	s.log.Info("selection book created",
		zap.String("selection_book_id", book.ID.String()),
		zap.String("created_by", book.CreatedBy),
	)
	return book, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateSelectionBookRequest) (domain.SelectionBook, error) {
	if id == 0 {
		return domain.SelectionBook{}, domain.ErrInvalidID
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.CustomerName.Set {
		fields["customer_name"] = strings.TrimSpace(req.CustomerName.Value)
	}
	if req.CustomerEmail.Set {
		email, err := normalizeEmail(req.CustomerEmail.Value)
		if err != nil {
			return domain.SelectionBook{}, err
		}
		fields["customer_email"] = email
	}
	if req.CustomerPhone.Set {
		fields["customer_phone"] = strings.TrimSpace(req.CustomerPhone.Value)
	}
	if req.PlanID.Set {
		fields["plan_id"] = nonZero(req.PlanID.Value)
	}
	if req.PlanName.Set {
		fields["plan_name"] = strings.TrimSpace(req.PlanName.Value)
	}
	if req.LotLabel.Set {
		fields["lot_label"] = strings.TrimSpace(req.LotLabel.Value)
	}
	if req.Selections.Set {
		selections, err := domain.NormalizeSelections(req.Selections.Value)
		if err != nil {
			return domain.SelectionBook{}, err
		}
		fields["selections"] = selections
	}
	if req.Notes.Set {
		fields["notes"] = req.Notes.Value
	}
	if req.TotalUpgrades.Set {
		if req.TotalUpgrades.Value < 0 {
			return domain.SelectionBook{}, domain.ErrInvalidTotal
		}
		fields["total_upgrades"] = req.TotalUpgrades.Value
	}
	if req.Status.Set {
		status := domain.Status(strings.ToLower(strings.TrimSpace(string(req.Status.Value))))
		if !status.Valid() {
			return domain.SelectionBook{}, domain.ErrInvalidStatus
		}
		fields["status"] = status
	}

	affected, err := s.repo.Update(ctx, s.db, id, fields)
	if err != nil {
		return domain.SelectionBook{}, err
	}
	if affected == 0 {
		return domain.SelectionBook{}, domain.ErrNotFound
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

// normalizeEmail accepts an empty address; books are often started before
// contact details are known.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email != "" && !validation.Email(email) {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func nonZero(id *snowflake.ID) *snowflake.ID {
	if id == nil || *id == 0 {
		return nil
	}
	value := *id
	return &value
}
