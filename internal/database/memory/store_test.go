package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	u, err := s.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	user := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", HashedPassword: "h"}
	require.NoError(t, s.CreateUser(ctx, user))

	err = s.CreateUser(ctx, &domain.User{ID: "u2", Username: "alice2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
}

func TestStore_ListRecipesOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveRecipe(ctx, &domain.Recipe{
			ID:        fmt.Sprintf("r%d", i),
			Title:     fmt.Sprintf("recipe %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := s.ListRecipes(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "recipes must be newest first")
	}
	assert.Equal(t, "r4", all[0].ID)

	page, err := s.ListRecipes(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "r2", page[0].ID)
	assert.Equal(t, "r1", page[1].ID)

	empty, err := s.ListRecipes(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_ToggleLike(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveRecipe(ctx, &domain.Recipe{ID: "r1", Title: "soup"}))

	res, err := s.ToggleLike(ctx, "r1", "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeResult{Likes: 1, Liked: true}, res)

	res, err = s.ToggleLike(ctx, "r1", "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeResult{Likes: 0, Liked: false}, res)

	got, err := s.GetRecipeByID(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, got.LikedBy)

	_, err = s.ToggleLike(ctx, "missing", "u1")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestStore_ToggleLikeConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveRecipe(ctx, &domain.Recipe{ID: "r1", Title: "soup"}))

	const likers = 50
	var wg sync.WaitGroup
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.ToggleLike(ctx, "r1", fmt.Sprintf("user-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.GetRecipeByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, likers, got.Likes)
	assert.Len(t, got.LikedBy, likers)
}

func TestStore_RestaurantsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.SaveRestaurant(ctx, &domain.Restaurant{ID: id, Name: id}))
	}

	list, err := s.ListRestaurants(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})

	limited, err := s.ListRestaurants(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	missing, err := s.GetRestaurantByID(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_AddReviewAndRecompute(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveRestaurant(ctx, &domain.Restaurant{ID: "rest", Name: "Bistro"}))

	_, err := s.AddReview(ctx, &domain.Review{ID: "x", RestaurantID: "nope", Rating: 5})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var summary domain.RatingSummary
	for i, rating := range []int{5, 4, 3} {
		summary, err = s.AddReview(ctx, &domain.Review{
			ID:           fmt.Sprintf("rv%d", i),
			RestaurantID: "rest",
			Rating:       rating,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, summary.TotalReviews)
	assert.Equal(t, 4.0, summary.AverageRating)

	rest, err := s.GetRestaurantByID(ctx, "rest")
	require.NoError(t, err)
	assert.Equal(t, 12, rest.RatingSum)
	assert.Equal(t, 4.0, rest.AverageRating)

	reviews, err := s.ListReviewsByRestaurant(ctx, "rest", 10)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "rv2", reviews[0].ID)

	recomputed, err := s.RecomputeRating(ctx, "rest")
	require.NoError(t, err)
	assert.Equal(t, summary, recomputed)

	_, err = s.RecomputeRating(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestStore_AddReviewConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveRestaurant(ctx, &domain.Restaurant{ID: "rest", Name: "Bistro"}))

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AddReview(ctx, &domain.Review{ID: fmt.Sprintf("rv%d", i), RestaurantID: "rest", Rating: i%5 + 1})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rest, err := s.GetRestaurantByID(ctx, "rest")
	require.NoError(t, err)
	assert.Equal(t, n, rest.TotalReviews)
	// 40 оценок по кругу 1..5: сумма 8*15
	assert.Equal(t, 120, rest.RatingSum)
	assert.Equal(t, 3.0, rest.AverageRating)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()

	_, err := s.ListRestaurants(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
