package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/smallbiznis/homestead/internal/audit/domain"
	"github.com/smallbiznis/homestead/internal/audit/repository"
	"github.com/smallbiznis/homestead/internal/auditcontext"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAuditService(t *testing.T) (auditdomain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
	return svc, db, clk
}

func TestAuditLog_UsesContextActorAndMasksMetadata(t *testing.T) {
	svc, db, _ := setupAuditService(t)

	ctx := auditcontext.WithActor(context.Background(), "user", "user-123", "editor@example.com")
	ctx = auditcontext.WithIPAddress(ctx, "10.0.0.1")
	ctx = auditcontext.WithRequestID(ctx, "req-1")

	target := "42"
	err := svc.AuditLog(ctx, "", nil, "lead.update_status", "lead", &target, map[string]any{
		"email":  "buyer@example.com",
		"status": "contacted",
	})
	require.NoError(t, err)

	var entry auditdomain.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "user", entry.ActorType)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "user-123", *entry.ActorID)
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "10.0.0.1", *entry.IPAddress)
	assert.Equal(t, "b****@example.com", entry.Metadata["email"])
	assert.Equal(t, "contacted", entry.Metadata["status"])
	assert.Equal(t, "req-1", entry.Metadata["request_id"])
	assert.Equal(t, "editor@example.com", entry.Metadata["actor_name"])
}

func TestAuditLog_DefaultsToSystemActor(t *testing.T) {
	svc, db, _ := setupAuditService(t)

	require.NoError(t, svc.AuditLog(context.Background(), "", nil, "catalog.reorder", "", nil, nil))

	var entry auditdomain.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, string(auditdomain.ActorTypeSystem), entry.ActorType)
	assert.Equal(t, "unknown", entry.TargetType)
	assert.Nil(t, entry.ActorID)
}

func TestAuditLog_RequiresAction(t *testing.T) {
	svc, _, _ := setupAuditService(t)
	err := svc.AuditLog(context.Background(), "", nil, "  ", "lead", nil, nil)
	assert.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}

func TestList_PaginatesNewestFirst(t *testing.T) {
	svc, _, clk := setupAuditService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.AuditLog(ctx, "user", nil, fmt.Sprintf("plan.update.%d", i), "plan", nil, nil))
		clk.Advance(time.Minute)
	}

	page, err := svc.List(ctx, auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, page.AuditLogs, 3)
	assert.Equal(t, "plan.update.2", page.AuditLogs[0].Action)
	assert.False(t, page.HasMore)

	req := auditdomain.ListAuditLogRequest{}
	req.PageSize = 2
	page, err = svc.List(ctx, req)
	require.NoError(t, err)
	require.Len(t, page.AuditLogs, 2)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextPageToken)

	req.PageToken = page.NextPageToken
	page, err = svc.List(ctx, req)
	require.NoError(t, err)
	require.Len(t, page.AuditLogs, 1)
	assert.Equal(t, "plan.update.0", page.AuditLogs[0].Action)
	assert.False(t, page.HasMore)
}

func TestList_RejectsBadInputs(t *testing.T) {
	svc, _, _ := setupAuditService(t)
	ctx := context.Background()

	req := auditdomain.ListAuditLogRequest{}
	req.PageToken = "not-a-token"
	_, err := svc.List(ctx, req)
	assert.ErrorIs(t, err, auditdomain.ErrInvalidPageToken)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = svc.List(ctx, auditdomain.ListAuditLogRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidTimeRange)
}
