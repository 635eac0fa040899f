package domain

import (
	"context"
	"errors"
	"io"
)

type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

func (k Kind) Valid() bool {
	return k == KindImage || k == KindDocument
}

// Prefix is the top-level storage folder for the kind.
func (k Kind) Prefix() string {
	if k == KindDocument {
		return "documents"
	}
	return "images"
}

type UploadRequest struct {
	Kind     Kind
	Filename string
	// ContentType is the type declared by the client for the file part.
	ContentType string
	// Size is the declared size; -1 when unknown.
	Size int64
	Body io.Reader
}

type Upload struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Service interface {
	Upload(ctx context.Context, req UploadRequest) (Upload, error)
}

var (
	ErrInvalidKind     = errors.New("invalid_upload_type")
	ErrMissingFile     = errors.New("missing_file")
	ErrUnsupportedType = errors.New("unsupported_media_type")
	ErrContentMismatch = errors.New("content_type_mismatch")
	ErrFileTooLarge    = errors.New("file_too_large")
)
