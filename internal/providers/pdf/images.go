package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"go.uber.org/zap"
	"golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const (
	defaultFetchConcurrency = 4
	defaultFetchTimeout     = 10 * time.Second
	maxImageBytes           = 8 << 20
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// Image is an encoded picture in a format the layout engine accepts.
type Image struct {
	Data []byte
	Ext  extension.Type
}

// Decode normalizes raw bytes to JPEG or PNG. WebP and GIF are re-encoded
// as PNG.
func Decode(data []byte) (*Image, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return &Image{Data: data, Ext: extension.Jpg}, nil
	case "image/png":
		return &Image{Data: data, Ext: extension.Png}, nil
	case "image/webp":
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode webp: %w", err)
		}
		return encodePNG(img)
	case "image/gif":
		img, err := gif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode gif: %w", err)
		}
		return encodePNG(img)
	default:
		return nil, ErrUnsupportedImage
	}
}

func encodePNG(img image.Image) (*Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &Image{Data: buf.Bytes(), Ext: extension.Png}, nil
}

// Fetcher downloads listing images with bounded concurrency.
type Fetcher struct {
	client      *http.Client
	log         *zap.Logger
	concurrency int
	timeout     time.Duration
}

func NewFetcher(client *http.Client, log *zap.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		client:      client,
		log:         log.Named("pdf.fetcher"),
		concurrency: defaultFetchConcurrency,
		timeout:     defaultFetchTimeout,
	}
}

// FetchAll returns one entry per url, keeping order. Failed or empty urls
// yield nil and are logged.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []*Image {
	out := make([]*Image, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		g.Go(func() error {
			img, err := f.fetch(gctx, raw)
			if err != nil {
				f.log.Warn("image skipped", zap.String("url", raw), zap.Error(err))
				return nil
			}
			out[i] = img
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (f *Fetcher) fetch(ctx context.Context, url string) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, errors.New("image too large")
	}
	return Decode(data)
}
