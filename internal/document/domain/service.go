package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// MaxFlyerProperties caps the properties printed on one flyer page.
const MaxFlyerProperties = 6

// Document is a rendered PDF ready to be served as an attachment.
type Document struct {
	Filename string
	Data     []byte
}

type Service interface {
	PlanBrochure(ctx context.Context, ref string) (Document, error)
	PropertyBrochure(ctx context.Context, ref string) (Document, error)
	PropertyFlyer(ctx context.Context, ids []snowflake.ID) (Document, error)
	SelectionBookSummary(ctx context.Context, id snowflake.ID) (Document, error)
}

var (
	ErrInvalidIDs        = errors.New("invalid_ids")
	ErrTooManyProperties = errors.New("too_many_properties")
	ErrNotFound          = errors.New("not_found")
)

// ParseIDs parses a comma separated id list. Blank entries are ignored and
// any malformed entry fails the whole list.
func ParseIDs(raw string) ([]snowflake.ID, error) {
	parts := strings.Split(raw, ",")
	ids := make([]snowflake.ID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := snowflake.ParseString(part)
		if err != nil || id <= 0 {
			return nil, ErrInvalidIDs
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrInvalidIDs
	}
	return ids, nil
}
