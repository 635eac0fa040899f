package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/config"
	"github.com/smallbiznis/homestead/internal/media/domain"
	"github.com/smallbiznis/homestead/internal/observability/metrics"
	"github.com/smallbiznis/homestead/internal/providers/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sniffLen = 512

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Clock   clock.Clock
	Storage storage.Provider
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	storage  storage.Provider
	metrics  *metrics.Metrics
	maxBytes map[domain.Kind]int64
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("media.service"),
		clock:   p.Clock,
		storage: p.Storage,
		metrics: p.Metrics,
		maxBytes: map[domain.Kind]int64{
			domain.KindImage:    p.Cfg.Storage.MaxImageBytes,
			domain.KindDocument: p.Cfg.Storage.MaxDocumentBytes,
		},
	}
}

func (s *Service) Upload(ctx context.Context, req domain.UploadRequest) (domain.Upload, error) {
	kind := domain.Kind(strings.ToLower(strings.TrimSpace(string(req.Kind))))
	if !kind.Valid() {
		return domain.Upload{}, domain.ErrInvalidKind
	}
	if req.Body == nil {
		return domain.Upload{}, domain.ErrMissingFile
	}
	limit := s.maxBytes[kind]
	if req.Size > limit {
		return domain.Upload{}, domain.ErrFileTooLarge
	}

	// The declared size can lie, so the ceiling is enforced on the bytes read.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(req.Body, limit+1))
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return domain.Upload{}, domain.ErrMissingFile
	}
	if n > limit {
		return domain.Upload{}, domain.ErrFileTooLarge
	}

	data := buf.Bytes()
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	declared, _, _ := mime.ParseMediaType(strings.TrimSpace(req.ContentType))
	ext, err := domain.ResolveType(kind, declared, sniffed)
	if err != nil {
		s.log.Info("upload rejected",
			zap.String("kind", string(kind)),
			zap.String("declared", declared),
			zap.String("sniffed", sniffed),
			zap.Error(err),
		)
		return domain.Upload{}, err
	}

	key := s.objectKey(kind, req.Filename, ext)
	obj, err := s.storage.Put(ctx, key, declared, bytes.NewReader(data), n)
	if err != nil {
		return domain.Upload{}, err
	}

	s.metrics.RecordUpload(ctx, string(kind), n)
	s.log.Info("upload stored",
		zap.String("path", obj.Key),
		zap.String("content_type", declared),
		zap.Int64("size", n),
	)
	return domain.Upload{
		URL:         obj.URL,
		Path:        obj.Key,
		ContentType: declared,
		Size:        n,
	}, nil
}

// objectKey builds <prefix>/YYYY/MM/<ulid>-<slug>.<ext>.
func (s *Service) objectKey(kind domain.Kind, filename, ext string) string {
	now := s.clock.Now().UTC()
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	name := slug.Make(base)
	if name == "" {
		name = "file"
	}
	if len(name) > 80 {
		name = strings.Trim(name[:80], "-")
	}
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())
	return fmt.Sprintf("%s/%04d/%02d/%s-%s.%s", kind.Prefix(), now.Year(), int(now.Month()), strings.ToLower(id.String()), name, ext)
}
