package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SupabaseProvider talks to the Supabase Storage REST API with the service
// role key.
type SupabaseProvider struct {
	baseURL   string
	bucket    string
	apiKey    string
	publicURL string
	client    *http.Client
}

func NewSupabaseProvider(baseURL, bucket, apiKey, publicBaseURL string, client *http.Client) (*SupabaseProvider, error) {
	if baseURL == "" || apiKey == "" {
		return nil, errors.New("supabase url and service key are required")
	}
	if bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	if publicBaseURL == "" {
		publicBaseURL = joinURL(baseURL, "storage/v1/object/public", bucket)
	}
	return &SupabaseProvider{
		baseURL:   baseURL,
		bucket:    bucket,
		apiKey:    apiKey,
		publicURL: publicBaseURL,
		client:    client,
	}, nil
}

func (p *SupabaseProvider) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (Object, error) {
	endpoint := joinURL(p.baseURL, "storage/v1/object", p.bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return Object{}, err
	}
	if size > 0 {
		req.ContentLength = size
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=31536000")
	req.Header.Set("x-upsert", "false")
	p.authorize(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return Object{}, fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Object{}, fmt.Errorf("upload object: status %d: %s", resp.StatusCode, string(msg))
	}
	return Object{Key: key, URL: p.PublicURL(key), ContentType: contentType, Size: size}, nil
}

func (p *SupabaseProvider) Delete(ctx context.Context, key string) error {
	endpoint := joinURL(p.baseURL, "storage/v1/object", p.bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	p.authorize(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("delete object: status %d", resp.StatusCode)
	}
	return nil
}

func (p *SupabaseProvider) PublicURL(key string) string {
	return joinURL(p.publicURL, key)
}

func (p *SupabaseProvider) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("apikey", p.apiKey)
}
