package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProvider_PutDelete(t *testing.T) {
	p := NewMemoryProvider("https://cdn.example.com/media/")
	ctx := context.Background()

	obj, err := p.Put(ctx, "images/2025/08/01j-kitchen.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/images/2025/08/01j-kitchen.png", obj.URL)
	assert.Equal(t, int64(9), obj.Size)

	data, contentType, ok := p.Get(obj.Key)
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, p.Delete(ctx, obj.Key))
	assert.ErrorIs(t, p.Delete(ctx, obj.Key), ErrNotFound)
}

func TestSupabaseProvider_Put(t *testing.T) {
	var (
		gotPath, gotAuth, gotType string
		gotBody                   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"site-media/images/a.png"}`))
	}))
	defer srv.Close()

	p, err := NewSupabaseProvider(srv.URL, "site-media", "service-key", "", srv.Client())
	require.NoError(t, err)

	obj, err := p.Put(context.Background(), "images/a b.png", "image/png", strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/site-media/images/a b.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "abc", string(gotBody))
	assert.Equal(t, srv.URL+"/storage/v1/object/public/site-media/images/a%20b.png", obj.URL)
}

func TestSupabaseProvider_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("denied"))
	}))
	defer srv.Close()

	p, err := NewSupabaseProvider(srv.URL, "site-media", "service-key", "https://cdn.example.com", srv.Client())
	require.NoError(t, err)

	_, err = p.Put(context.Background(), "images/a.png", "image/png", strings.NewReader("abc"), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.ErrorIs(t, p.Delete(context.Background(), "images/a.png"), ErrNotFound)
	assert.Equal(t, "https://cdn.example.com/images/a.png", p.PublicURL("images/a.png"))

	_, err = NewSupabaseProvider("", "site-media", "k", "", nil)
	assert.Error(t, err)
}
