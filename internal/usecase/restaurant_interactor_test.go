package usecase_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/GoArmGo/TastyTrail/internal/core/ports/mocks"
	"github.com/GoArmGo/TastyTrail/internal/database/memory"
	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/logger"
	"github.com/GoArmGo/TastyTrail/internal/messaging/payloads"
	"github.com/GoArmGo/TastyTrail/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRestaurantUseCase(publisher *mocks.ReviewEventPublisher) (usecase.RestaurantUseCase, *memory.Store) {
	store := memory.NewStore()
	media := usecase.NewMediaIngestor(nil, logger.Discard())
	if publisher == nil {
		return usecase.NewRestaurantUseCase(store, store, media, nil, logger.Discard()), store
	}
	return usecase.NewRestaurantUseCase(store, store, media, publisher, logger.Discard()), store
}

func mustCreateRestaurant(t *testing.T, uc usecase.RestaurantUseCase, name string, lat, lng float64) *domain.Restaurant {
	t.Helper()
	r, err := uc.CreateRestaurant(context.Background(), testUser, usecase.CreateRestaurantInput{
		Name:      name,
		Latitude:  lat,
		Longitude: lng,
	})
	require.NoError(t, err)
	return r
}

func TestRestaurantUseCase_CreateRestaurant(t *testing.T) {
	uc, store := newRestaurantUseCase(nil)
	ctx := context.Background()

	r := mustCreateRestaurant(t, uc, "Pelmennaya", 55.75, 37.61)
	assert.Equal(t, testUser.ID, r.AddedBy)
	assert.Equal(t, 0, r.TotalReviews)
	assert.Equal(t, 0.0, r.AverageRating)

	stored, err := store.GetRestaurantByID(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	_, err = uc.CreateRestaurant(ctx, nil, usecase.CreateRestaurantInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.CreateRestaurant(ctx, testUser, usecase.CreateRestaurantInput{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = uc.CreateRestaurant(ctx, testUser, usecase.CreateRestaurantInput{Name: "x", Latitude: 91})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = uc.CreateRestaurant(ctx, testUser, usecase.CreateRestaurantInput{Name: "x", Longitude: -180.5})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRestaurantUseCase_ReviewAggregatesMean(t *testing.T) {
	uc, store := newRestaurantUseCase(nil)
	ctx := context.Background()
	r := mustCreateRestaurant(t, uc, "Bistro", 0, 0)

	for _, rating := range []int{5, 4, 3, 3} {
		_, err := uc.CreateReview(ctx, testUser, usecase.CreateReviewInput{RestaurantID: r.ID, Rating: rating})
		require.NoError(t, err)
	}

	stored, err := store.GetRestaurantByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.TotalReviews)
	assert.Equal(t, 15.0/4.0, stored.AverageRating)

	reviews, err := uc.ListReviews(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 4)
	for _, rv := range reviews {
		assert.NotNil(t, rv.Photos)
		assert.Equal(t, testUser.Username, rv.Username)
	}
}

func TestRestaurantUseCase_ReviewRatingOutOfRange(t *testing.T) {
	uc, store := newRestaurantUseCase(nil)
	ctx := context.Background()
	r := mustCreateRestaurant(t, uc, "Bistro", 0, 0)

	for _, rating := range []int{0, 6, -3} {
		_, err := uc.CreateReview(ctx, testUser, usecase.CreateReviewInput{RestaurantID: r.ID, Rating: rating})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "rating %d", rating)
	}

	stored, err := store.GetRestaurantByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.TotalReviews, "rejected reviews must not touch the aggregate")

	reviews, err := uc.ListReviews(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestRestaurantUseCase_ReviewErrors(t *testing.T) {
	uc, _ := newRestaurantUseCase(nil)
	ctx := context.Background()
	r := mustCreateRestaurant(t, uc, "Bistro", 0, 0)

	_, err := uc.CreateReview(ctx, nil, usecase.CreateReviewInput{RestaurantID: r.ID, Rating: 5})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.CreateReview(ctx, testUser, usecase.CreateReviewInput{RestaurantID: "missing", Rating: 5})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	_, err = uc.CreateReview(ctx, testUser, usecase.CreateReviewInput{
		RestaurantID: r.ID,
		Rating:       5,
		Photos:       []usecase.MediaUpload{{Filename: "v.mp4", ContentType: "video/mp4", Content: []byte("v")}},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)
}

func TestRestaurantUseCase_ReviewPhotos(t *testing.T) {
	uc, _ := newRestaurantUseCase(nil)
	r := mustCreateRestaurant(t, uc, "Bistro", 0, 0)

	review, err := uc.CreateReview(context.Background(), testUser, usecase.CreateReviewInput{
		RestaurantID: r.ID,
		Rating:       4,
		Comment:      "tasty",
		Photos: []usecase.MediaUpload{
			{Filename: "a.jpg", ContentType: "image/jpeg", Content: []byte("a")},
			{Filename: "b.png", ContentType: "image/png", Content: []byte("b")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"YQ==", "Yg=="}, review.Photos)
}

func TestRestaurantUseCase_ReviewPublishesEvent(t *testing.T) {
	publisher := new(mocks.ReviewEventPublisher)
	uc, _ := newRestaurantUseCase(publisher)
	r := mustCreateRestaurant(t, uc, "Bistro", 0, 0)

	publisher.On("PublishReviewCreated", mock.Anything, mock.MatchedBy(func(p payloads.ReviewCreatedPayload) bool {
		return p.Event == payloads.EventReviewCreated && p.RestaurantID == r.ID && p.Rating == 5
	})).Return(nil).Once()

	_, err := uc.CreateReview(context.Background(), testUser, usecase.CreateReviewInput{RestaurantID: r.ID, Rating: 5})
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestRestaurantUseCase_PublishFailureDoesNotFailReview(t *testing.T) {
	publisher := new(mocks.ReviewEventPublisher)
	publisher.On("PublishReviewCreated", mock.Anything, mock.Anything).Return(errors.New("channel closed"))
	uc, store := newRestaurantUseCase(publisher)
	r := mustCreateRestaurant(t, uc, "Bistro", 0, 0)

	_, err := uc.CreateReview(context.Background(), testUser, usecase.CreateReviewInput{RestaurantID: r.ID, Rating: 2})
	require.NoError(t, err)

	stored, err := store.GetRestaurantByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalReviews)
}

func TestRestaurantUseCase_Nearby(t *testing.T) {
	uc, _ := newRestaurantUseCase(nil)
	ctx := context.Background()

	mustCreateRestaurant(t, uc, "far", 40, 40)
	edge := mustCreateRestaurant(t, uc, "edge", 10, 0)
	center := mustCreateRestaurant(t, uc, "center", 0, 0)

	got, err := uc.Nearby(ctx, 0, 0, usecase.DefaultNearbyRadius)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// порядок хранения, без сортировки по расстоянию
	assert.Equal(t, edge.ID, got[0].ID)
	assert.Equal(t, center.ID, got[1].ID)

	got, err = uc.Nearby(ctx, 0, 0, 9.999)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, center.ID, got[0].ID)

	got, err = uc.Nearby(ctx, -60, -60, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	_, err = uc.Nearby(ctx, math.NaN(), 0, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = uc.Nearby(ctx, 0, 0, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRestaurantUseCase_ListRestaurantsUsesScanCap(t *testing.T) {
	restaurants := new(mocks.RestaurantStorage)
	restaurants.On("ListRestaurants", mock.Anything, usecase.MaxRestaurantScan).Return([]domain.Restaurant{{ID: "a"}}, nil)

	uc := usecase.NewRestaurantUseCase(restaurants, new(mocks.ReviewStorage), usecase.NewMediaIngestor(nil, logger.Discard()), nil, logger.Discard())
	list, err := uc.ListRestaurants(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	restaurants.AssertExpectations(t)
}

func TestRestaurantUseCase_ListReviewsReplacesNilPhotos(t *testing.T) {
	reviews := new(mocks.ReviewStorage)
	reviews.On("ListReviewsByRestaurant", mock.Anything, "r1", usecase.MaxReviewsPerListing).
		Return([]domain.Review{{ID: "rv1", Photos: nil}}, nil)

	uc := usecase.NewRestaurantUseCase(new(mocks.RestaurantStorage), reviews, usecase.NewMediaIngestor(nil, logger.Discard()), nil, logger.Discard())
	list, err := uc.ListReviews(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{}, list[0].Photos)
}

func TestRestaurantUseCase_RecomputeRating(t *testing.T) {
	uc, _ := newRestaurantUseCase(nil)
	ctx := context.Background()
	r := mustCreateRestaurant(t, uc, "Bistro", 0, 0)

	for _, rating := range []int{1, 2} {
		_, err := uc.CreateReview(ctx, testUser, usecase.CreateReviewInput{RestaurantID: r.ID, Rating: rating})
		require.NoError(t, err)
	}

	summary, err := uc.RecomputeRating(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalReviews)
	assert.Equal(t, 1.5, summary.AverageRating)

	_, err = uc.RecomputeRating(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
