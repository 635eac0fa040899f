package authorization

import (
	"context"
	"errors"
)

// Service decides whether an authenticated actor holding role may perform
// action on object.
type Service interface {
	Authorize(ctx context.Context, subject string, role string, object string, action string) error
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidRole   = errors.New("invalid_role")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// KnownRole reports whether role has policies attached.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor:
		return true
	default:
		return false
	}
}
