package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/homestead/pkg/patch"
)

type CreateSelectionBookRequest struct {
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone"`
	PlanID        *snowflake.ID  `json:"plan_id"`
	PlanName      string         `json:"plan_name"`
	LotLabel      string         `json:"lot_label"`
	Selections    map[string]any `json:"selections"`
	Notes         string         `json:"notes"`
	TotalUpgrades int64          `json:"total_upgrades"`
}

// UpdateSelectionBookRequest changes only the keys present in the payload.
type UpdateSelectionBookRequest struct {
	CustomerName  patch.Field[string]         `json:"customer_name"`
	CustomerEmail patch.Field[string]         `json:"customer_email"`
	CustomerPhone patch.Field[string]         `json:"customer_phone"`
	PlanID        patch.Field[*snowflake.ID]  `json:"plan_id"`
	PlanName      patch.Field[string]         `json:"plan_name"`
	LotLabel      patch.Field[string]         `json:"lot_label"`
	Selections    patch.Field[map[string]any] `json:"selections"`
	Notes         patch.Field[string]         `json:"notes"`
	TotalUpgrades patch.Field[int64]          `json:"total_upgrades"`
	Status        patch.Field[Status]         `json:"status"`
}

type Service interface {
	// List returns every book, most recently updated first.
	List(ctx context.Context) ([]SelectionBook, error)
	Get(ctx context.Context, id snowflake.ID) (SelectionBook, error)
	// Create always starts the book as a draft owned by the calling actor.
	Create(ctx context.Context, req CreateSelectionBookRequest) (SelectionBook, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateSelectionBookRequest) (SelectionBook, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidEmail      = errors.New("invalid_customer_email")
	ErrInvalidSelections = errors.New("invalid_selections")
	ErrInvalidTotal      = errors.New("invalid_total_upgrades")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
)
