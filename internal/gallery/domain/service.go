package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/pkg/patch"
)

type CreateItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	SortOrder   int      `json:"sort_order"`
	IsPublished bool     `json:"is_published"`
}

type UpdateItemRequest struct {
	Title       patch.Field[string]   `json:"title"`
	Description patch.Field[string]   `json:"description"`
	ImageURL    patch.Field[string]   `json:"image_url"`
	Category    patch.Field[string]   `json:"category"`
	Tags        patch.Field[[]string] `json:"tags"`
	SortOrder   patch.Field[int]      `json:"sort_order"`
	IsPublished patch.Field[bool]     `json:"is_published"`
}

type ListRequest struct {
	PublishedOnly bool
	Category      string
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]GalleryItem, error)
	Get(ctx context.Context, id snowflake.ID) (GalleryItem, error)
	Create(ctx context.Context, req CreateItemRequest) (GalleryItem, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateItemRequest) (GalleryItem, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidImageURL = errors.New("invalid_image_url")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
