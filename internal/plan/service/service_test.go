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
	"github.com/smallbiznis/homestead/internal/plan/domain"
	"github.com/smallbiznis/homestead/internal/plan/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupPlanService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Plan{}, &domain.PlanImage{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	}), clk
}

func TestCreate_DerivesSlugAndStoresImages(t *testing.T) {
	svc, _ := setupPlanService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, domain.CreatePlanRequest{
		Name:       "The Magnolia Ranch",
		Bedrooms:   3,
		Bathrooms:  2.5,
		SquareFeet: 1850,
		BasePrice:  32500000,
		Images: []domain.ImageInput{
			{URL: "https://cdn.example.com/front.jpg"},
			{URL: "https://cdn.example.com/kitchen.jpg", Caption: "Kitchen"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "the-magnolia-ranch", plan.Slug)
	assert.Equal(t, 1, plan.Stories)

	loaded, err := svc.Get(ctx, "the-magnolia-ranch", false)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, loaded.ID)
	require.Len(t, loaded.Images, 2)
	assert.Equal(t, "https://cdn.example.com/front.jpg", loaded.PrimaryImage())

	byID, err := svc.Get(ctx, plan.ID.String(), false)
	require.NoError(t, err)
	assert.Equal(t, plan.Slug, byID.Slug)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := setupPlanService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreatePlanRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreatePlanRequest{Name: "Cedar", Bedrooms: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidSpecs)

	_, err = svc.Create(ctx, domain.CreatePlanRequest{Name: "Cedar", BasePrice: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(ctx, domain.CreatePlanRequest{Name: "Cedar", Images: []domain.ImageInput{{URL: ""}}})
	assert.ErrorIs(t, err, domain.ErrInvalidImage)

	_, err = svc.Create(ctx, domain.CreatePlanRequest{Name: "Cedar", Images: []domain.ImageInput{{URL: "front.jpg"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidImage)

	_, err = svc.Create(ctx, domain.CreatePlanRequest{Name: "Cedar", FloorPlanURL: "ftp://files.example.com/cedar.pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidFloorPlan)
}

func TestCreate_DuplicateSlug(t *testing.T) {
	svc, _ := setupPlanService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreatePlanRequest{Name: "Willow"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreatePlanRequest{Name: "Willow"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestUpdate_PartialFieldsAndImages(t *testing.T) {
	svc, clk := setupPlanService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, domain.CreatePlanRequest{
		Name:        "Aspen",
		Description: "Two story farmhouse",
		Bedrooms:    4,
		Images:      []domain.ImageInput{{URL: "https://cdn.example.com/a.jpg"}},
	})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	var req domain.UpdatePlanRequest
	require.NoError(t, json.Unmarshal([]byte(`{"is_published": true, "bedrooms": 0, "images": [{"url":"https://cdn.example.com/b.jpg"},{"url":"https://cdn.example.com/c.jpg"}]}`), &req))

	updated, err := svc.Update(ctx, plan.ID, req)
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	assert.Equal(t, 0, updated.Bedrooms)
	assert.Equal(t, "Two story farmhouse", updated.Description)
	assert.Equal(t, "Aspen", updated.Name)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, "https://cdn.example.com/b.jpg", updated.Images[0].URL)
	assert.True(t, updated.UpdatedAt.After(plan.UpdatedAt))
}

func TestUpdate_OmittedImagesKept(t *testing.T) {
	svc, _ := setupPlanService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, domain.CreatePlanRequest{
		Name:   "Birch",
		Images: []domain.ImageInput{{URL: "https://cdn.example.com/a.jpg"}},
	})
	require.NoError(t, err)

	var req domain.UpdatePlanRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Birch II"}`), &req))
	updated, err := svc.Update(ctx, plan.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Birch II", updated.Name)
	assert.Equal(t, "birch", updated.Slug)
	assert.Len(t, updated.Images, 1)
}

func TestUpdate_FloorPlanURL(t *testing.T) {
	svc, _ := setupPlanService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, domain.CreatePlanRequest{Name: "Aspen", FloorPlanURL: "https://cdn.example.com/aspen.png"})
	require.NoError(t, err)

	var bad domain.UpdatePlanRequest
	require.NoError(t, json.Unmarshal([]byte(`{"floor_plan_url": "aspen.png"}`), &bad))
	_, err = svc.Update(ctx, plan.ID, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidFloorPlan)

	var empty domain.UpdatePlanRequest
	require.NoError(t, json.Unmarshal([]byte(`{"floor_plan_url": ""}`), &empty))
	updated, err := svc.Update(ctx, plan.ID, empty)
	require.NoError(t, err)
	assert.Empty(t, updated.FloorPlanURL)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := setupPlanService(t)
	_, err := svc.Update(context.Background(), snowflake.ID(12345), domain.UpdatePlanRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPublishedFiltering(t *testing.T) {
	svc, _ := setupPlanService(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, domain.CreatePlanRequest{Name: "Draft Plan"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreatePlanRequest{Name: "Live Plan", IsPublished: true})
	require.NoError(t, err)

	public, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Live Plan", public[0].Name)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Get(ctx, draft.Slug, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := setupPlanService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, domain.CreatePlanRequest{
		Name:   "Spruce",
		Images: []domain.ImageInput{{URL: "https://cdn.example.com/a.jpg"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, plan.ID))
	_, err = svc.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, plan.ID), domain.ErrNotFound)
}
