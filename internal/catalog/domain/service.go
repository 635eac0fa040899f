package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/pkg/patch"
)

type CatalogRequest struct {
	PlanID *snowflake.ID
	// IncludeInactive returns every category and option unfiltered for the
	// admin editor. PlanID is ignored when it is set.
	IncludeInactive bool
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StepOrder   int    `json:"step_order"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateCategoryRequest struct {
	Name        patch.Field[string] `json:"name"`
	Description patch.Field[string] `json:"description"`
	StepOrder   patch.Field[int]    `json:"step_order"`
	IsActive    patch.Field[bool]   `json:"is_active"`
}

type CreateOptionRequest struct {
	CategoryID   snowflake.ID  `json:"category_id"`
	PlanID       *snowflake.ID `json:"plan_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	ImageURL     string        `json:"image_url"`
	UpgradePrice int64         `json:"upgrade_price"`
	IsDefault    bool          `json:"is_default"`
	SortOrder    int           `json:"sort_order"`
	IsActive     *bool         `json:"is_active"`
}

type UpdateOptionRequest struct {
	CategoryID   patch.Field[snowflake.ID]  `json:"category_id"`
	PlanID       patch.Field[*snowflake.ID] `json:"plan_id"`
	Name         patch.Field[string]        `json:"name"`
	Description  patch.Field[string]        `json:"description"`
	ImageURL     patch.Field[string]        `json:"image_url"`
	UpgradePrice patch.Field[int64]         `json:"upgrade_price"`
	IsDefault    patch.Field[bool]          `json:"is_default"`
	SortOrder    patch.Field[int]           `json:"sort_order"`
	IsActive     patch.Field[bool]          `json:"is_active"`
}

type Service interface {
	ListCatalog(ctx context.Context, req CatalogRequest) ([]CatalogCategory, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (Category, error)
	UpdateCategory(ctx context.Context, id snowflake.ID, req UpdateCategoryRequest) (Category, error)
	// ReorderCategories assigns step_order 1..n following ids.
	ReorderCategories(ctx context.Context, ids []snowflake.ID) ([]Category, error)
	DeleteCategory(ctx context.Context, id snowflake.ID) error

	GetOption(ctx context.Context, id snowflake.ID) (Option, error)
	// OptionsByIDs loads options with their category, skipping unknown ids.
	OptionsByIDs(ctx context.Context, ids []snowflake.ID) ([]Option, error)
	CreateOption(ctx context.Context, req CreateOptionRequest) (Option, error)
	UpdateOption(ctx context.Context, id snowflake.ID, req UpdateOptionRequest) (Option, error)
	DeleteOption(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidCategory  = errors.New("invalid_category")
	ErrInvalidPlan      = errors.New("invalid_plan")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidImageURL  = errors.New("invalid_image_url")
	ErrInvalidOrder     = errors.New("invalid_order")
	ErrInvalidID        = errors.New("invalid_id")
	ErrCategoryNotFound = errors.New("category_not_found")
	ErrCategoryInUse    = errors.New("category_in_use")
	ErrOptionInUse      = errors.New("option_in_use")
	ErrNotFound         = errors.New("not_found")
)
