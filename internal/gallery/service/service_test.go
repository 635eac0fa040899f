package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/homestead/internal/clock"
	"github.com/smallbiznis/homestead/internal/gallery/domain"
	"github.com/smallbiznis/homestead/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupGalleryService(t *testing.T) domain.Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.GalleryItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.ProvideStore[domain.GalleryItem](conn),
	})
}

func TestCreate_NormalizesTags(t *testing.T) {
	svc := setupGalleryService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, domain.CreateItemRequest{
		Title:    "Open kitchen",
		ImageURL: "https://cdn.example.com/kitchen.jpg",
		Category: " Kitchens ",
		Tags:     []string{"Quartz", "quartz", " island ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "kitchens", item.Category)

	loaded, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Tags{"quartz", "island"}, loaded.Tags)

	_, err = svc.Create(ctx, domain.CreateItemRequest{Title: "No image"})
	assert.ErrorIs(t, err, domain.ErrInvalidImageURL)

	_, err = svc.Create(ctx, domain.CreateItemRequest{Title: "Relative", ImageURL: "uploads/kitchen.jpg"})
	assert.ErrorIs(t, err, domain.ErrInvalidImageURL)
}

func TestList_PublishedAndCategory(t *testing.T) {
	svc := setupGalleryService(t)
	ctx := context.Background()

	for _, req := range []domain.CreateItemRequest{
		{Title: "Bath", ImageURL: "https://cdn.example.com/1.jpg", Category: "baths", SortOrder: 2, IsPublished: true},
		{Title: "Kitchen", ImageURL: "https://cdn.example.com/2.jpg", Category: "kitchens", SortOrder: 1, IsPublished: true},
		{Title: "Draft", ImageURL: "https://cdn.example.com/3.jpg", Category: "kitchens"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	public, err := svc.List(ctx, domain.ListRequest{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "Kitchen", public[0].Title)

	kitchens, err := svc.List(ctx, domain.ListRequest{Category: "Kitchens"})
	require.NoError(t, err)
	assert.Len(t, kitchens, 2)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := setupGalleryService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, domain.CreateItemRequest{
		Title:    "Porch",
		ImageURL: "https://cdn.example.com/porch.jpg",
		Tags:     []string{"exterior"},
	})
	require.NoError(t, err)

	var req domain.UpdateItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"is_published":true,"tags":["exterior","craftsman"]}`), &req))
	updated, err := svc.Update(ctx, item.ID, req)
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	assert.Equal(t, "Porch", updated.Title)
	assert.Equal(t, domain.Tags{"exterior", "craftsman"}, updated.Tags)

	require.NoError(t, svc.Delete(ctx, item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, item.ID), domain.ErrNotFound)
	_, err = svc.Update(ctx, item.ID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
