package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/testimonial/domain"
	"github.com/smallbiznis/homestead/pkg/db/option"
	"github.com/smallbiznis/homestead/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  repository.Repository[domain.Testimonial]
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  repository.Repository[domain.Testimonial]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("testimonial.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, publishedOnly bool) ([]domain.Testimonial, error) {
	opts := []option.QueryOption{option.OrderBy("sort_order asc", "created_at desc", "id desc")}
	if publishedOnly {
		opts = append(opts, option.Published())
	}
	rows, err := s.repo.Find(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Testimonial, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			items = append(items, *row)
		}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Testimonial, error) {
	if id == 0 {
		return domain.Testimonial{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Testimonial{}, err
	}
	if item == nil {
		return domain.Testimonial{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateTestimonialRequest) (domain.Testimonial, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return domain.Testimonial{}, domain.ErrInvalidCustomerName
	}
	quote := strings.TrimSpace(req.Quote)
	if quote == "" {
		return domain.Testimonial{}, domain.ErrInvalidQuote
	}
	rating := req.Rating
	if rating == 0 {
		rating = domain.MaxRating
	}
	if !validRating(rating) {
		return domain.Testimonial{}, domain.ErrInvalidRating
	}

	now := s.clock.Now()
	item := domain.Testimonial{
		ID:           s.genID.Generate(),
		CustomerName: name,
		Location:     strings.TrimSpace(req.Location),
		Quote:        quote,
		Rating:       rating,
		IsPublished:  req.IsPublished,
		SortOrder:    req.SortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return domain.Testimonial{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateTestimonialRequest) (domain.Testimonial, error) {
	if id == 0 {
		return domain.Testimonial{}, domain.ErrInvalidID
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.CustomerName.Set {
		name := strings.TrimSpace(req.CustomerName.Value)
		if name == "" {
			return domain.Testimonial{}, domain.ErrInvalidCustomerName
		}
		fields["customer_name"] = name
	}
	if req.Location.Set {
		fields["location"] = strings.TrimSpace(req.Location.Value)
	}
	if req.Quote.Set {
		quote := strings.TrimSpace(req.Quote.Value)
		if quote == "" {
			return domain.Testimonial{}, domain.ErrInvalidQuote
		}
		fields["quote"] = quote
	}
	if req.Rating.Set {
		if !validRating(req.Rating.Value) {
			return domain.Testimonial{}, domain.ErrInvalidRating
		}
		fields["rating"] = req.Rating.Value
	}
	if req.IsPublished.Set {
		fields["is_published"] = req.IsPublished.Value
	}
	if req.SortOrder.Set {
		fields["sort_order"] = req.SortOrder.Value
	}

	affected, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return domain.Testimonial{}, err
	}
	if affected == 0 {
		return domain.Testimonial{}, domain.ErrNotFound
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

func validRating(rating int) bool {
	return rating >= domain.MinRating && rating <= domain.MaxRating
}
