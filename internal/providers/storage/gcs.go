package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const writeTimeout = 2 * time.Minute

type GCSProvider struct {
	client  *gcs.Client
	bucket  string
	baseURL string
	log     *zap.Logger
}

// NewGCSProvider opens a client using the credentials file when given, and
// application default credentials otherwise.
func NewGCSProvider(ctx context.Context, bucket, credentialsFile, publicBaseURL string, log *zap.Logger) (*GCSProvider, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage bucket is required")
	}
	opts := []option.ClientOption{option.WithScopes(gcs.ScopeReadWrite)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCSProvider{
		client:  client,
		bucket:  bucket,
		baseURL: publicBaseURL,
		log:     log.Named("storage.gcs"),
	}, nil
}

func (p *GCSProvider) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (Object, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	w := p.client.Bucket(p.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	written, err := io.Copy(w, body)
	if err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("close object writer: %w", err)
	}

	p.log.Debug("object stored", zap.String("key", key), zap.Int64("size", written))
	return Object{Key: key, URL: p.PublicURL(key), ContentType: contentType, Size: written}, nil
}

func (p *GCSProvider) Delete(ctx context.Context, key string) error {
	err := p.client.Bucket(p.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrNotFound
	}
	return err
}

func (p *GCSProvider) PublicURL(key string) string {
	return joinURL(p.baseURL, key)
}

func (p *GCSProvider) Close() error {
	return p.client.Close()
}
