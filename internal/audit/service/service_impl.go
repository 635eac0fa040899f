package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/homestead/internal/audit/domain"
	"github.com/smallbiznis/homestead/internal/audit/masking"
	auditcontext "github.com/smallbiznis/homestead/internal/auditcontext"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// AuditLog records one admin mutation. With an empty actorType the actor is
// taken from the request context, else the entry is attributed to the system.
func (s *Service) AuditLog(ctx context.Context, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	actor := s.resolveActor(ctx, strings.TrimSpace(actorType), actorID)
	entry := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  actor.kind,
		ActorID:    actor.id,
		Action:     action,
		TargetType: valueOr(targetType, "unknown"),
		TargetID:   trimmedPtr(targetID),
		Metadata:   datatypes.JSONMap(s.metadata(ctx, actor, metadata)),
		IPAddress:  trimmedPtr(ptr(auditcontext.IPAddressFromContext(ctx))),
		UserAgent:  trimmedPtr(ptr(auditcontext.UserAgentFromContext(ctx))),
		CreatedAt:  s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) metadata(ctx context.Context, actor resolvedActor, in map[string]any) map[string]any {
	out := masking.MaskMetadata(in)
	if requestID := auditcontext.RequestIDFromContext(ctx); requestID != "" {
		out["request_id"] = requestID
	}
	if actor.name != "" {
		out["actor_name"] = actor.name
	}
	return out
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidTimeRange
	}

	cursor, err := decodeCursor(req.PageToken)
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}
	pageSize := clampPageSize(req.PageSize)

	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ActorType:  req.ActorType,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Cursor:     cursor,
		Limit:      pageSize,
	})
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	var resp auditdomain.ListAuditLogResponse
	if pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), encodeCursor); pageInfo != nil {
		resp.PageInfo = *pageInfo
		if pageInfo.HasMore && len(items) > pageSize {
			items = items[:pageSize]
		}
	}

	resp.AuditLogs = make([]auditdomain.AuditLog, 0, len(items))
	for _, item := range items {
		if item != nil {
			resp.AuditLogs = append(resp.AuditLogs, *item)
		}
	}
	return resp, nil
}

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

func clampPageSize(size int) int {
	switch {
	case size <= 0:
		return defaultPageSize
	case size > maxPageSize:
		return maxPageSize
	default:
		return size
	}
}

func encodeCursor(item *auditdomain.AuditLog) string {
	token, err := pagination.EncodeCursor(pagination.Cursor{
		ID:        item.ID.String(),
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return ""
	}
	return token
}

func decodeCursor(token string) (*auditdomain.AuditCursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	decoded, err := pagination.DecodeCursor(token)
	if err != nil {
		return nil, auditdomain.ErrInvalidPageToken
	}
	createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
	if err != nil {
		return nil, auditdomain.ErrInvalidPageToken
	}
	id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
	if err != nil || id == 0 {
		return nil, auditdomain.ErrInvalidPageToken
	}
	return &auditdomain.AuditCursor{ID: id, CreatedAt: createdAt}, nil
}

type resolvedActor struct {
	kind string
	id   *string
	name string
}

func (s *Service) resolveActor(ctx context.Context, actorType string, actorID *string) resolvedActor {
	if actorType != "" {
		return resolvedActor{kind: actorType, id: trimmedPtr(actorID)}
	}

	ctxType, ctxID := auditcontext.ActorFromContext(ctx)
	if ctxType == "" {
		return resolvedActor{kind: string(auditdomain.ActorTypeSystem), id: trimmedPtr(actorID)}
	}

	id := trimmedPtr(actorID)
	if id == nil {
		id = trimmedPtr(&ctxID)
	}
	return resolvedActor{kind: ctxType, id: id, name: auditcontext.ActorNameFromContext(ctx)}
}

func valueOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func ptr(value string) *string {
	return &value
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
