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
	"github.com/smallbiznis/homestead/internal/testimonial/domain"
	"github.com/smallbiznis/homestead/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestimonialService(t *testing.T) domain.Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Testimonial{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
		Repo:  repository.ProvideStore[domain.Testimonial](conn),
	})
}

func TestCreate_RatingBounds(t *testing.T) {
	svc := setupTestimonialService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, domain.CreateTestimonialRequest{CustomerName: "The Parkers", Quote: "On time and on budget."})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Rating)

	for _, rating := range []int{-1, 6} {
		_, err = svc.Create(ctx, domain.CreateTestimonialRequest{CustomerName: "A", Quote: "B", Rating: rating})
		assert.ErrorIs(t, err, domain.ErrInvalidRating, "rating %d", rating)
	}

	_, err = svc.Create(ctx, domain.CreateTestimonialRequest{Quote: "B"})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerName)
	_, err = svc.Create(ctx, domain.CreateTestimonialRequest{CustomerName: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuote)
}

func TestUpdate_RatingZeroRejected(t *testing.T) {
	svc := setupTestimonialService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, domain.CreateTestimonialRequest{CustomerName: "Sam", Quote: "Great crew", Rating: 4})
	require.NoError(t, err)

	var req domain.UpdateTestimonialRequest
	require.NoError(t, json.Unmarshal([]byte(`{"rating":0}`), &req))
	_, err = svc.Update(ctx, item.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	var publish domain.UpdateTestimonialRequest
	require.NoError(t, json.Unmarshal([]byte(`{"is_published":true,"location":"Franklin, TN"}`), &publish))
	updated, err := svc.Update(ctx, item.ID, publish)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "Franklin, TN", updated.Location)

	public, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	require.NoError(t, svc.Delete(ctx, item.ID))
	_, err = svc.Get(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
