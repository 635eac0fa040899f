// Package domain contains the identity types produced by token verification.
package domain

import (
	"context"
	"errors"
)

// Identity is the verified caller behind an admin request.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role"`
}

// DisplayName is the value stamped on records the identity creates.
func (i Identity) DisplayName() string {
	if i.Email != "" {
		return i.Email
	}
	return i.Subject
}

// Verifier turns an access token issued by the hosted auth provider into an
// Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

var (
	ErrMissingToken     = errors.New("missing token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrVerifierDisabled = errors.New("token verification is not configured")
)
