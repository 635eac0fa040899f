package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryProvider keeps objects in process memory. Used in development and
// tests.
type MemoryProvider struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	data        []byte
}

func NewMemoryProvider(baseURL string) *MemoryProvider {
	if baseURL == "" {
		baseURL = "http://localhost:8080/media"
	}
	return &MemoryProvider{baseURL: baseURL, objects: map[string]memoryObject{}}
}

func (p *MemoryProvider) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (Object, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return Object{}, err
	}
	p.mu.Lock()
	p.objects[key] = memoryObject{contentType: contentType, data: buf.Bytes()}
	p.mu.Unlock()

	return Object{
		Key:         key,
		URL:         p.PublicURL(key),
		ContentType: contentType,
		Size:        int64(buf.Len()),
	}, nil
}

func (p *MemoryProvider) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.objects[key]; !ok {
		return ErrNotFound
	}
	delete(p.objects, key)
	return nil
}

func (p *MemoryProvider) PublicURL(key string) string {
	return joinURL(p.baseURL, key)
}

// Get returns a copy of a stored object.
func (p *MemoryProvider) Get(key string) ([]byte, string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	obj, ok := p.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}
