package server

import (
	"fmt"
	"net/http"
	"testing"

	authdomain "github.com/smallbiznis/homestead/internal/auth/domain"
	"github.com/smallbiznis/homestead/internal/authorization"
	catalogdomain "github.com/smallbiznis/homestead/internal/catalog/domain"
	documentdomain "github.com/smallbiznis/homestead/internal/document/domain"
	lotdomain "github.com/smallbiznis/homestead/internal/lot/domain"
	mediadomain "github.com/smallbiznis/homestead/internal/media/domain"
	propertydomain "github.com/smallbiznis/homestead/internal/property/domain"
	"github.com/smallbiznis/homestead/internal/ratelimit"
	selectionbookdomain "github.com/smallbiznis/homestead/internal/selectionbook/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing token", authdomain.ErrMissingToken, http.StatusUnauthorized},
		{"expired token", authdomain.ErrTokenExpired, http.StatusUnauthorized},
		{"forbidden", authorization.ErrForbidden, http.StatusForbidden},
		{"verifier disabled", authdomain.ErrVerifierDisabled, http.StatusServiceUnavailable},
		{"property not found", propertydomain.ErrNotFound, http.StatusNotFound},
		{"lot not found wrapped", fmt.Errorf("load lot: %w", lotdomain.ErrNotFound), http.StatusNotFound},
		{"document not found", documentdomain.ErrNotFound, http.StatusNotFound},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"file too large", mediadomain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"max bytes", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"rate limited", ratelimit.ErrRateLimited, http.StatusTooManyRequests},
		{"duplicate submission", ratelimit.ErrDuplicateSubmission, http.StatusTooManyRequests},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := mapError(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestMapError_ValidationFields(t *testing.T) {
	tests := []struct {
		err   error
		field string
		code  string
	}{
		{documentdomain.ErrTooManyProperties, "ids", "too_many_properties"},
		{mediadomain.ErrInvalidKind, "type", "invalid_upload_type"},
		{mediadomain.ErrContentMismatch, "file", "content_type_mismatch"},
		{selectionbookdomain.ErrInvalidSelections, "selections", "invalid_selections"},
		{propertydomain.ErrInvalidStatus, "status", "invalid_status"},
		{catalogdomain.ErrInvalidName, "name", "invalid_name"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, payload := mapError(tt.err)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "validation_error", payload.Type)
			if assert.Len(t, payload.Errors, 1) {
				assert.Equal(t, tt.field, payload.Errors[0].Field)
				assert.Equal(t, tt.code, payload.Errors[0].Code)
				assert.NotEmpty(t, payload.Errors[0].Message)
			}
		})
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(propertydomain.ErrInvalidSlug)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_slug", code)

	typ, code = classifyErrorForLog(assert.AnError)
	assert.Equal(t, "internal_error", typ)
	assert.Equal(t, "internal_error", code)

	typ, code = classifyErrorForLog(lotdomain.ErrNotFound)
	assert.Equal(t, "not_found", typ)
	assert.Equal(t, "not_found", code)
}
