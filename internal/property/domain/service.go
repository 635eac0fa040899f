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

type CreatePropertyRequest struct {
	PlanID      *snowflake.ID `json:"plan_id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Address     string        `json:"address"`
	City        string        `json:"city"`
	State       string        `json:"state"`
	PostalCode  string        `json:"postal_code"`
	Price       int64         `json:"price"`
	Status      Status        `json:"status"`
	Bedrooms    int           `json:"bedrooms"`
	Bathrooms   float64       `json:"bathrooms"`
	SquareFeet  int           `json:"square_feet"`
	LotSize     string        `json:"lot_size"`
	Description string        `json:"description"`
	IsFeatured  bool          `json:"is_featured"`
	IsPublished bool          `json:"is_published"`
	Images      []ImageInput  `json:"images"`
}

type UpdatePropertyRequest struct {
	PlanID      patch.Field[*snowflake.ID] `json:"plan_id"`
	Title       patch.Field[string]        `json:"title"`
	Slug        patch.Field[string]        `json:"slug"`
	Address     patch.Field[string]        `json:"address"`
	City        patch.Field[string]        `json:"city"`
	State       patch.Field[string]        `json:"state"`
	PostalCode  patch.Field[string]        `json:"postal_code"`
	Price       patch.Field[int64]         `json:"price"`
	Status      patch.Field[Status]        `json:"status"`
	Bedrooms    patch.Field[int]           `json:"bedrooms"`
	Bathrooms   patch.Field[float64]       `json:"bathrooms"`
	SquareFeet  patch.Field[int]           `json:"square_feet"`
	LotSize     patch.Field[string]        `json:"lot_size"`
	Description patch.Field[string]        `json:"description"`
	IsFeatured  patch.Field[bool]          `json:"is_featured"`
	IsPublished patch.Field[bool]          `json:"is_published"`
	Images      patch.Field[[]ImageInput]  `json:"images"`
}

type ListRequest struct {
	PublishedOnly bool
	Status        string
	FeaturedOnly  bool
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Property, error)
	Get(ctx context.Context, ref string, publishedOnly bool) (Property, error)
	GetByID(ctx context.Context, id snowflake.ID) (Property, error)
	// GetMany loads published properties for ids, preserving order and
	// skipping ids that do not match.
	GetMany(ctx context.Context, ids []snowflake.ID) ([]Property, error)
	Create(ctx context.Context, req CreatePropertyRequest) (Property, error)
	Update(ctx context.Context, id snowflake.ID, req UpdatePropertyRequest) (Property, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidTitle  = errors.New("invalid_title")
	ErrInvalidSlug   = errors.New("invalid_slug")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidPrice  = errors.New("invalid_price")
	ErrInvalidSpecs  = errors.New("invalid_specs")
	ErrInvalidImage  = errors.New("invalid_image")
	ErrInvalidPlan   = errors.New("invalid_plan")
	ErrInvalidID     = errors.New("invalid_id")
	ErrSlugTaken     = errors.New("slug_taken")
	ErrNotFound      = errors.New("not_found")
)
