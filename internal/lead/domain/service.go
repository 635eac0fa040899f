package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type SubmitLeadRequest struct {
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Message     string        `json:"message"`
	Interest    Interest      `json:"interest"`
	ReferenceID *snowflake.ID `json:"reference_id"`
	// ClientIP is hashed before it is stored.
	ClientIP string `json:"-"`
}

type Service interface {
	Submit(ctx context.Context, req SubmitLeadRequest) (Lead, error)
	// List returns leads newest first, optionally filtered by status.
	List(ctx context.Context, status string) ([]Lead, error)
	Get(ctx context.Context, id snowflake.ID) (Lead, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status string) (Lead, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidInterest = errors.New("invalid_interest")
	ErrInvalidMessage  = errors.New("invalid_message")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
