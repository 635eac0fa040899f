package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
)

var ErrNotFound = errors.New("object_not_found")

// Object describes a stored file.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Provider stores public site media.
type Provider interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (Object, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

func joinURL(base string, parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, strings.TrimRight(base, "/"))
	for _, part := range parts {
		for _, segment := range strings.Split(strings.Trim(part, "/"), "/") {
			if segment == "" {
				continue
			}
			escaped = append(escaped, url.PathEscape(segment))
		}
	}
	return strings.Join(escaped, "/")
}
