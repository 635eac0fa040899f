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

type CreateLotRequest struct {
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Address     string       `json:"address"`
	Acreage     float64      `json:"acreage"`
	Price       int64        `json:"price"`
	Status      Status       `json:"status"`
	Description string       `json:"description"`
	IsPublished bool         `json:"is_published"`
	Features    []string     `json:"features"`
	Images      []ImageInput `json:"images"`
}

type UpdateLotRequest struct {
	Name        patch.Field[string]       `json:"name"`
	Slug        patch.Field[string]       `json:"slug"`
	Address     patch.Field[string]       `json:"address"`
	Acreage     patch.Field[float64]      `json:"acreage"`
	Price       patch.Field[int64]        `json:"price"`
	Status      patch.Field[Status]       `json:"status"`
	Description patch.Field[string]       `json:"description"`
	IsPublished patch.Field[bool]         `json:"is_published"`
	Features    patch.Field[[]string]     `json:"features"`
	Images      patch.Field[[]ImageInput] `json:"images"`
}

type Service interface {
	List(ctx context.Context, publishedOnly bool) ([]Lot, error)
	Get(ctx context.Context, ref string, publishedOnly bool) (Lot, error)
	GetByID(ctx context.Context, id snowflake.ID) (Lot, error)
	Create(ctx context.Context, req CreateLotRequest) (Lot, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateLotRequest) (Lot, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidSlug    = errors.New("invalid_slug")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrInvalidAcreage = errors.New("invalid_acreage")
	ErrInvalidFeature = errors.New("invalid_feature")
	ErrInvalidImage   = errors.New("invalid_image")
	ErrInvalidID      = errors.New("invalid_id")
	ErrSlugTaken      = errors.New("slug_taken")
	ErrNotFound       = errors.New("not_found")
)
