package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/homestead/internal/auditcontext"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/selectionbook/domain"
	"github.com/smallbiznis/homestead/internal/selectionbook/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSelectionBookService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.SelectionBook{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
	return svc, clk
}

func decodeUpdate(t *testing.T, raw string) domain.UpdateSelectionBookRequest {
	t.Helper()
	var req domain.UpdateSelectionBookRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return req
}

func TestCreate_ForcesDraftAndStampsActor(t *testing.T) {
	svc, _ := setupSelectionBookService(t)
	ctx := auditcontext.WithActor(context.Background(), "user", "8f0c", "sales@homestead.test")

	var req domain.CreateSelectionBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"customer_name": "Dana Reyes",
		"customer_email": "Dana@Example.com",
		"plan_name": "Magnolia",
		"selections": {"Flooring": "Tile", "Fixtures": ["Brushed nickel", "Matte black"]},
		"total_upgrades": 1250000
	}`), &req))

	book, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, book.Status)
	assert.Equal(t, "sales@homestead.test", book.CreatedBy)
	assert.Equal(t, "dana@example.com", book.CustomerEmail)
	assert.Nil(t, book.PlanID)

	stored, err := svc.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1250000), stored.TotalUpgrades)
	assert.Equal(t, []domain.SelectionEntry{
		{Category: "Fixtures", Choices: []string{"Brushed nickel", "Matte black"}},
		{Category: "Flooring", Choices: []string{"Tile"}},
	}, stored.Entries())
}

func TestCreate_EmptyBookFallsBackToActorID(t *testing.T) {
	svc, _ := setupSelectionBookService(t)
	ctx := auditcontext.WithActor(context.Background(), "user", "8f0c", "")

	book, err := svc.Create(ctx, domain.CreateSelectionBookRequest{})
	require.NoError(t, err)
	assert.Equal(t, "8f0c", book.CreatedBy)
	assert.Empty(t, book.Selections)
}

func TestCreate_RejectsMalformedSelections(t *testing.T) {
	svc, _ := setupSelectionBookService(t)
	ctx := context.Background()

	for _, raw := range []string{
		`{"selections": {"": "Tile"}}`,
		`{"selections": {"Flooring": 12}}`,
		`{"selections": {"Flooring": ["Tile", 3]}}`,
		`{"selections": {"Flooring": {"choice": "Tile"}}}`,
	} {
		var req domain.CreateSelectionBookRequest
		require.NoError(t, json.Unmarshal([]byte(raw), &req))
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidSelections, raw)
	}

	_, err := svc.Create(ctx, domain.CreateSelectionBookRequest{CustomerEmail: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	_, err = svc.Create(ctx, domain.CreateSelectionBookRequest{TotalUpgrades: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidTotal)
}

func TestUpdate_PresenceGovernsMutation(t *testing.T) {
	svc, clk := setupSelectionBookService(t)
	ctx := context.Background()

	book, err := svc.Create(ctx, domain.CreateSelectionBookRequest{CustomerName: "Dana", Notes: "A"})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	updated, err := svc.Update(ctx, book.ID, decodeUpdate(t, `{"customer_phone": "555-0100"}`))
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Notes)
	assert.Equal(t, "555-0100", updated.CustomerPhone)
	assert.True(t, updated.UpdatedAt.After(book.UpdatedAt))

	cleared, err := svc.Update(ctx, book.ID, decodeUpdate(t, `{"notes": ""}`))
	require.NoError(t, err)
	assert.Equal(t, "", cleared.Notes)
	assert.Equal(t, "Dana", cleared.CustomerName)
}

func TestUpdate_StatusAndSelections(t *testing.T) {
	svc, _ := setupSelectionBookService(t)
	ctx := context.Background()

	book, err := svc.Create(ctx, domain.CreateSelectionBookRequest{Selections: map[string]any{"Flooring": "Tile"}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, book.ID, decodeUpdate(t, `{"status": "archived"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	updated, err := svc.Update(ctx, book.ID, decodeUpdate(t, `{"status": "closed", "selections": {"Cabinets": ["Shaker"]}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, updated.Status)
	assert.Equal(t, []domain.SelectionEntry{{Category: "Cabinets", Choices: []string{"Shaker"}}}, updated.Entries())

	reopened, err := svc.Update(ctx, book.ID, decodeUpdate(t, `{"status": "draft", "selections": null}`))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, reopened.Status)
	assert.Empty(t, reopened.Entries())

	_, err = svc.Update(ctx, book.ID, decodeUpdate(t, `{"selections": {"Cabinets": [true]}}`))
	assert.ErrorIs(t, err, domain.ErrInvalidSelections)

	_, err = svc.Update(ctx, snowflake.ID(77), decodeUpdate(t, `{"notes": "x"}`))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	svc, clk := setupSelectionBookService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateSelectionBookRequest{CustomerName: "First"})
	require.NoError(t, err)
	clk.Advance(time.Minute)
	second, err := svc.Create(ctx, domain.CreateSelectionBookRequest{CustomerName: "Second"})
	require.NoError(t, err)

	books, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, second.ID, books[0].ID)

	clk.Advance(time.Minute)
	_, err = svc.Update(ctx, first.ID, decodeUpdate(t, `{"notes": "touched"}`))
	require.NoError(t, err)
	books, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, books[0].ID)

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.ErrorIs(t, svc.Delete(ctx, first.ID), domain.ErrNotFound)
	_, err = svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
