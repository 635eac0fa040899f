package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/homestead/internal/audit/domain"
	authdomain "github.com/smallbiznis/homestead/internal/auth/domain"
	"github.com/smallbiznis/homestead/internal/authorization"
	catalogdomain "github.com/smallbiznis/homestead/internal/catalog/domain"
	configurationdomain "github.com/smallbiznis/homestead/internal/configuration/domain"
	documentdomain "github.com/smallbiznis/homestead/internal/document/domain"
	gallerydomain "github.com/smallbiznis/homestead/internal/gallery/domain"
	leaddomain "github.com/smallbiznis/homestead/internal/lead/domain"
	lotdomain "github.com/smallbiznis/homestead/internal/lot/domain"
	mediadomain "github.com/smallbiznis/homestead/internal/media/domain"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
	propertydomain "github.com/smallbiznis/homestead/internal/property/domain"
	"github.com/smallbiznis/homestead/internal/ratelimit"
	selectionbookdomain "github.com/smallbiznis/homestead/internal/selectionbook/domain"
	testimonialdomain "github.com/smallbiznis/homestead/internal/testimonial/domain"
	"github.com/smallbiznis/homestead/pkg/validation"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrPayloadTooLarge    = errors.New("payload_too_large")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

// bindError converts a binding failure into field errors when the validator
// produced them.
func bindError(err error) error {
	fields := validation.Flatten(err)
	if len(fields) == 0 {
		return invalidRequestError()
	}
	out := make([]ValidationError, 0, len(fields))
	for _, fe := range fields {
		out = append(out, ValidationError{
			Field:   fe.Field,
			Code:    fe.Tag,
			Message: fe.Field + " is " + fe.Tag,
		})
	}
	return &ValidationErrors{Errors: out}
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrMissingToken),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrTokenExpired),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrPayloadTooLarge),
		errors.Is(err, mediadomain.ErrFileTooLarge),
		errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, errorPayload{
			Type:    "payload_too_large",
			Message: "file exceeds the upload limit",
		}
	case errors.Is(err, ErrRateLimited),
		errors.Is(err, ratelimit.ErrRateLimited),
		errors.Is(err, ratelimit.ErrDuplicateSubmission):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, authdomain.ErrVerifierDisabled):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog reports the response type and a stable code for the
// request log.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	if len(payload.Errors) > 0 {
		return payload.Type, payload.Errors[0].Code
	}
	if payload.Type == "internal_error" {
		return payload.Type, "internal_error"
	}
	return payload.Type, strings.TrimSpace(err.Error())
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isCatalogValidationError(err),
		isConfigurationValidationError(err),
		isSelectionBookValidationError(err),
		isPlanValidationError(err),
		isPropertyValidationError(err),
		isLotValidationError(err),
		isGalleryValidationError(err),
		isTestimonialValidationError(err),
		isLeadValidationError(err),
		isUploadValidationError(err),
		isDocumentValidationError(err),
		isAuditValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrCategoryNotFound),
		errors.Is(err, configurationdomain.ErrNotFound),
		errors.Is(err, selectionbookdomain.ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, propertydomain.ErrNotFound),
		errors.Is(err, lotdomain.ErrNotFound),
		errors.Is(err, gallerydomain.ErrNotFound),
		errors.Is(err, testimonialdomain.ErrNotFound),
		errors.Is(err, leaddomain.ErrNotFound),
		errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, catalogdomain.ErrCategoryInUse),
		errors.Is(err, catalogdomain.ErrOptionInUse),
		errors.Is(err, plandomain.ErrSlugTaken),
		errors.Is(err, plandomain.ErrPlanInUse),
		errors.Is(err, propertydomain.ErrSlugTaken),
		errors.Is(err, lotdomain.ErrSlugTaken):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, catalogdomain.ErrCategoryInUse):
		return "category still has options"
	case errors.Is(err, catalogdomain.ErrOptionInUse):
		return "option is referenced by a configuration"
	case errors.Is(err, plandomain.ErrPlanInUse):
		return "plan is referenced by other records"
	case errors.Is(err, plandomain.ErrSlugTaken),
		errors.Is(err, propertydomain.ErrSlugTaken),
		errors.Is(err, lotdomain.ErrSlugTaken):
		return "slug already in use"
	default:
		return "conflict"
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

var validationFields = map[string]string{
	"invalid_request":        "request",
	"invalid_upload_type":    "type",
	"invalid_selections":     "selections",
	"invalid_page_token":     "page_token",
	"invalid_time_range":     "start_at",
	"no_selections":          "option_ids",
	"invalid_selection":      "option_ids",
	"missing_file":           "file",
	"unsupported_media_type": "file",
	"content_type_mismatch":  "file",
	"too_many_properties":    "ids",
}

func validationErrorField(code string) string {
	if field, ok := validationFields[code]; ok {
		return field
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

var validationMessages = map[string]string{
	"invalid_request":        "invalid request",
	"no_selections":          "select at least one option",
	"invalid_selection":      "an option is not available for this plan",
	"missing_file":           "file is required",
	"unsupported_media_type": "file type is not allowed for this upload",
	"content_type_mismatch":  "file content does not match its declared type",
	"too_many_properties":    "a flyer holds at most 6 properties",
}

func validationErrorMessage(code string) string {
	if message, ok := validationMessages[code]; ok {
		return message
	}
	return "invalid value"
}

func isUploadValidationError(err error) bool {
	switch err {
	case mediadomain.ErrInvalidKind,
		mediadomain.ErrMissingFile,
		mediadomain.ErrUnsupportedType,
		mediadomain.ErrContentMismatch:
		return true
	default:
		return false
	}
}

func isDocumentValidationError(err error) bool {
	switch err {
	case documentdomain.ErrInvalidIDs,
		documentdomain.ErrTooManyProperties:
		return true
	default:
		return false
	}
}

func isAuditValidationError(err error) bool {
	switch err {
	case auditdomain.ErrInvalidPageToken,
		auditdomain.ErrInvalidTimeRange,
		auditdomain.ErrInvalidAction:
		return true
	default:
		return false
	}
}
