package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateConfigurationRequest struct {
	PlanID        snowflake.ID   `json:"plan_id"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone"`
	Message       string         `json:"message"`
	OptionIDs     []snowflake.ID `json:"option_ids"`
	// Status is honoured for admin-created records only.
	Status Status `json:"status"`
}

type Service interface {
	// Submit records a customer's configuration with status submitted.
	Submit(ctx context.Context, req CreateConfigurationRequest) (Configuration, error)
	// Create records an admin configuration, defaulting to draft.
	Create(ctx context.Context, req CreateConfigurationRequest) (Configuration, error)
	List(ctx context.Context) ([]Configuration, error)
	Get(ctx context.Context, id snowflake.ID) (Configuration, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status string) (Configuration, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidPlan          = errors.New("invalid_plan")
	ErrInvalidCustomerName  = errors.New("invalid_customer_name")
	ErrInvalidCustomerEmail = errors.New("invalid_customer_email")
	ErrNoSelections         = errors.New("no_selections")
	ErrInvalidSelection     = errors.New("invalid_selection")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
)
