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
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
	planrepository "github.com/smallbiznis/homestead/internal/plan/repository"
	planservice "github.com/smallbiznis/homestead/internal/plan/service"
	"github.com/smallbiznis/homestead/internal/property/domain"
	"github.com/smallbiznis/homestead/internal/property/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc     domain.Service
	planSvc plandomain.Service
	clock   *clock.FakeClock
}

func setupPropertyService(t *testing.T) fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.Plan{},
		&plandomain.PlanImage{},
		&domain.Property{},
		&domain.PropertyImage{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	planSvc := planservice.New(planservice.Params{
		DB: conn, Log: log, GenID: node, Clock: clk, Repo: planrepository.Provide(),
	})
	svc := New(Params{
		DB: conn, Log: log, GenID: node, Clock: clk, Repo: repository.Provide(), PlanSvc: planSvc,
	})
	return fixture{svc: svc, planSvc: planSvc, clock: clk}
}

func TestCreate_WithPlanAndImages(t *testing.T) {
	f := setupPropertyService(t)
	ctx := context.Background()

	plan, err := f.planSvc.Create(ctx, plandomain.CreatePlanRequest{Name: "Magnolia"})
	require.NoError(t, err)

	property, err := f.svc.Create(ctx, domain.CreatePropertyRequest{
		PlanID:     &plan.ID,
		Title:      "123 Oak Lane",
		Address:    "123 Oak Lane",
		City:       "Franklin",
		State:      "TN",
		PostalCode: "37064",
		Price:      54900000,
		Bedrooms:   4,
		Bathrooms:  3,
		SquareFeet: 2650,
		Images: []domain.ImageInput{
			{URL: "https://cdn.example.com/front.jpg"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "123-oak-lane", property.Slug)
	assert.Equal(t, domain.StatusAvailable, property.Status)
	assert.Equal(t, "Magnolia", property.PlanName())
	assert.Equal(t, "123 Oak Lane, Franklin, TN 37064", property.FullAddress())
	assert.Equal(t, "https://cdn.example.com/front.jpg", property.PrimaryImage())

	view := property.View()
	require.NotNil(t, view.Plan)
	assert.Equal(t, plan.ID, view.Plan.ID)
}

func TestCreate_UnknownPlan(t *testing.T) {
	f := setupPropertyService(t)
	missing := snowflake.ID(999)
	_, err := f.svc.Create(context.Background(), domain.CreatePropertyRequest{Title: "Lot 9", PlanID: &missing})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestCreate_Validation(t *testing.T) {
	f := setupPropertyService(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreatePropertyRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "x", Status: "leased"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "x", Price: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "x", Images: []domain.ImageInput{{URL: "/front.jpg"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestList_FiltersAndFeaturedFirst(t *testing.T) {
	f := setupPropertyService(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "Plain", IsPublished: true})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "Sold One", Status: domain.StatusSold, IsPublished: true})
	require.NoError(t, err)
	f.clock.Advance(-2 * time.Minute)
	_, err = f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "Featured", IsFeatured: true, IsPublished: true})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "Hidden"})
	require.NoError(t, err)

	public, err := f.svc.List(ctx, domain.ListRequest{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, public, 3)
	assert.Equal(t, "Featured", public[0].Title)
	assert.Equal(t, "Sold One", public[1].Title)

	sold, err := f.svc.List(ctx, domain.ListRequest{PublishedOnly: true, Status: "SOLD"})
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, "Sold One", sold[0].Title)

	_, err = f.svc.List(ctx, domain.ListRequest{Status: "rented"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	all, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetMany_PreservesOrderAndSkipsUnpublished(t *testing.T) {
	f := setupPropertyService(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "A", IsPublished: true})
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "B", IsPublished: true})
	require.NoError(t, err)
	hidden, err := f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "C"})
	require.NoError(t, err)

	items, err := f.svc.GetMany(ctx, []snowflake.ID{b.ID, snowflake.ID(1), hidden.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].Title)
	assert.Equal(t, "A", items[1].Title)
}

func TestUpdate_ClearsPlanWithNull(t *testing.T) {
	f := setupPropertyService(t)
	ctx := context.Background()

	plan, err := f.planSvc.Create(ctx, plandomain.CreatePlanRequest{Name: "Aspen"})
	require.NoError(t, err)
	property, err := f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "9 Elm", PlanID: &plan.ID})
	require.NoError(t, err)
	require.NotNil(t, property.PlanID)

	var req domain.UpdatePropertyRequest
	require.NoError(t, json.Unmarshal([]byte(`{"plan_id": null, "status": "under_contract"}`), &req))
	updated, err := f.svc.Update(ctx, property.ID, req)
	require.NoError(t, err)
	assert.Nil(t, updated.PlanID)
	assert.Equal(t, domain.StatusUnderContract, updated.Status)
	assert.Equal(t, "9 Elm", updated.Title)

	var bad domain.UpdatePropertyRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status": "gone"}`), &bad))
	_, err = f.svc.Update(ctx, property.ID, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDelete(t *testing.T) {
	f := setupPropertyService(t)
	ctx := context.Background()

	property, err := f.svc.Create(ctx, domain.CreatePropertyRequest{Title: "Gone Soon"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, property.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, property.ID), domain.ErrNotFound)
}
