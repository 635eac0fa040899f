package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/pkg/patch"
)

type ImageInput struct {
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	SortOrder int    `json:"sort_order"`
}

type CreatePlanRequest struct {
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    float64      `json:"bathrooms"`
	SquareFeet   int          `json:"square_feet"`
	Stories      int          `json:"stories"`
	GarageSpaces int          `json:"garage_spaces"`
	BasePrice    int64        `json:"base_price"`
	FloorPlanURL string       `json:"floor_plan_url"`
	IsPublished  bool         `json:"is_published"`
	SortOrder    int          `json:"sort_order"`
	Images       []ImageInput `json:"images"`
}

// UpdatePlanRequest changes only the keys present in the payload.
type UpdatePlanRequest struct {
	Name         patch.Field[string]       `json:"name"`
	Slug         patch.Field[string]       `json:"slug"`
	Description  patch.Field[string]       `json:"description"`
	Bedrooms     patch.Field[int]          `json:"bedrooms"`
	Bathrooms    patch.Field[float64]      `json:"bathrooms"`
	SquareFeet   patch.Field[int]          `json:"square_feet"`
	Stories      patch.Field[int]          `json:"stories"`
	GarageSpaces patch.Field[int]          `json:"garage_spaces"`
	BasePrice    patch.Field[int64]        `json:"base_price"`
	FloorPlanURL patch.Field[string]       `json:"floor_plan_url"`
	IsPublished  patch.Field[bool]         `json:"is_published"`
	SortOrder    patch.Field[int]          `json:"sort_order"`
	Images       patch.Field[[]ImageInput] `json:"images"`
}

type Service interface {
	List(ctx context.Context, publishedOnly bool) ([]Plan, error)
	// Get resolves ref as an id first and then as a slug.
	Get(ctx context.Context, ref string, publishedOnly bool) (Plan, error)
	GetByID(ctx context.Context, id snowflake.ID) (Plan, error)
	Create(ctx context.Context, req CreatePlanRequest) (Plan, error)
	Update(ctx context.Context, id snowflake.ID, req UpdatePlanRequest) (Plan, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidSlug  = errors.New("invalid_slug")
	ErrInvalidSpecs = errors.New("invalid_specs")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidImage = errors.New("invalid_image")
	ErrInvalidID    = errors.New("invalid_id")
	ErrSlugTaken    = errors.New("slug_taken")
	ErrPlanInUse    = errors.New("plan_in_use")
	ErrNotFound     = errors.New("not_found")

	ErrInvalidFloorPlan = errors.New("invalid_floor_plan_url")
)
