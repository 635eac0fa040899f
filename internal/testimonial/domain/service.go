package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/pkg/patch"
)

type CreateTestimonialRequest struct {
	CustomerName string `json:"customer_name"`
	Location     string `json:"location"`
	Quote        string `json:"quote"`
	// Rating defaults to 5 when omitted.
	Rating      int  `json:"rating"`
	IsPublished bool `json:"is_published"`
	SortOrder   int  `json:"sort_order"`
}

type UpdateTestimonialRequest struct {
	CustomerName patch.Field[string] `json:"customer_name"`
	Location     patch.Field[string] `json:"location"`
	Quote        patch.Field[string] `json:"quote"`
	Rating       patch.Field[int]    `json:"rating"`
	IsPublished  patch.Field[bool]   `json:"is_published"`
	SortOrder    patch.Field[int]    `json:"sort_order"`
}

type Service interface {
	List(ctx context.Context, publishedOnly bool) ([]Testimonial, error)
	Get(ctx context.Context, id snowflake.ID) (Testimonial, error)
	Create(ctx context.Context, req CreateTestimonialRequest) (Testimonial, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateTestimonialRequest) (Testimonial, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidCustomerName = errors.New("invalid_customer_name")
	ErrInvalidQuote        = errors.New("invalid_quote")
	ErrInvalidRating       = errors.New("invalid_rating")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
