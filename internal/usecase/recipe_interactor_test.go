package usecase_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/GoArmGo/TastyTrail/internal/core/ports/mocks"
	"github.com/GoArmGo/TastyTrail/internal/database/memory"
	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/logger"
	"github.com/GoArmGo/TastyTrail/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testUser = &domain.User{ID: "user-1", Username: "chef", Email: "chef@example.com"}

func newRecipeUseCase() (usecase.RecipeUseCase, *memory.Store) {
	store := memory.NewStore()
	media := usecase.NewMediaIngestor(nil, logger.Discard())
	return usecase.NewRecipeUseCase(store, media, logger.Discard()), store
}

func TestRecipeUseCase_CreateRecipe(t *testing.T) {
	uc, store := newRecipeUseCase()
	ctx := context.Background()

	recipe, err := uc.CreateRecipe(ctx, testUser, usecase.CreateRecipeInput{
		Title:       "Borscht",
		Ingredients: []string{"beet", "cabbage"},
		Media:       &usecase.MediaUpload{Filename: "b.jpg", ContentType: "image/jpeg", Content: []byte("jpeg-bytes")},
	})
	require.NoError(t, err)

	assert.Equal(t, testUser.ID, recipe.UserID)
	assert.Equal(t, testUser.Username, recipe.Username)
	assert.Equal(t, domain.MediaTypeImage, recipe.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")), recipe.MediaData)
	assert.Empty(t, recipe.MediaURL)
	assert.Equal(t, 0, recipe.Likes)
	assert.NotNil(t, recipe.LikedBy)
	assert.NotNil(t, recipe.Instructions)

	stored, err := store.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Borscht", stored.Title)
}

func TestRecipeUseCase_CreateRecipeRejects(t *testing.T) {
	uc, store := newRecipeUseCase()
	ctx := context.Background()

	_, err := uc.CreateRecipe(ctx, nil, usecase.CreateRecipeInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.CreateRecipe(ctx, testUser, usecase.CreateRecipeInput{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = uc.CreateRecipe(ctx, testUser, usecase.CreateRecipeInput{
		Title: "pdf",
		Media: &usecase.MediaUpload{Filename: "r.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	list, err := store.ListRecipes(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list, "rejected recipes must not be stored")
}

func TestRecipeUseCase_CreateRecipeVideo(t *testing.T) {
	uc, _ := newRecipeUseCase()

	recipe, err := uc.CreateRecipe(context.Background(), testUser, usecase.CreateRecipeInput{
		Title: "Pancakes",
		Media: &usecase.MediaUpload{Filename: "p.mp4", ContentType: "video/mp4", Content: []byte("mp4")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeVideo, recipe.MediaType)
}

func TestRecipeUseCase_MediaUploadedToObjectStorage(t *testing.T) {
	files := new(mocks.FileStorage)
	files.On("UploadFile", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "recipes/") && strings.HasSuffix(key, ".png")
	}), mock.Anything, "image/png").Return("http://minio/tasty-trail-media/recipes/x.png", nil)

	uc := usecase.NewRecipeUseCase(memory.NewStore(), usecase.NewMediaIngestor(files, logger.Discard()), logger.Discard())
	recipe, err := uc.CreateRecipe(context.Background(), testUser, usecase.CreateRecipeInput{
		Title: "Salad",
		Media: &usecase.MediaUpload{Filename: "s.png", ContentType: "image/png", Content: []byte("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://minio/tasty-trail-media/recipes/x.png", recipe.MediaURL)
	assert.NotEmpty(t, recipe.MediaData)
	files.AssertExpectations(t)
}

func TestRecipeUseCase_MediaUploadFailureKeepsRecipe(t *testing.T) {
	files := new(mocks.FileStorage)
	files.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket unavailable"))

	uc := usecase.NewRecipeUseCase(memory.NewStore(), usecase.NewMediaIngestor(files, logger.Discard()), logger.Discard())
	recipe, err := uc.CreateRecipe(context.Background(), testUser, usecase.CreateRecipeInput{
		Title: "Salad",
		Media: &usecase.MediaUpload{Filename: "s.png", ContentType: "image/png", Content: []byte("png")},
	})
	require.NoError(t, err)
	assert.Empty(t, recipe.MediaURL)
	assert.NotEmpty(t, recipe.MediaData)
}

func TestRecipeUseCase_ListRecipes(t *testing.T) {
	uc, _ := newRecipeUseCase()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := uc.CreateRecipe(ctx, testUser, usecase.CreateRecipeInput{Title: fmt.Sprintf("recipe %d", i)})
		require.NoError(t, err)
	}

	all, err := uc.ListRecipes(ctx, 0, usecase.DefaultRecipeLimit)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	page, err := uc.ListRecipes(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[1].ID, page[0].ID)
	assert.Equal(t, all[2].ID, page[1].ID)

	_, err = uc.ListRecipes(ctx, -1, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = uc.ListRecipes(ctx, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRecipeUseCase_ListRecipesCapsLimit(t *testing.T) {
	recipes := new(mocks.RecipeStorage)
	recipes.On("ListRecipes", mock.Anything, 0, usecase.MaxRecipeLimit).Return([]domain.Recipe{{ID: "r1"}}, nil)

	uc := usecase.NewRecipeUseCase(recipes, usecase.NewMediaIngestor(nil, logger.Discard()), logger.Discard())
	list, err := uc.ListRecipes(context.Background(), 0, 10_000)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].LikedBy, "listed recipes are normalized")
	recipes.AssertExpectations(t)
}

func TestRecipeUseCase_ToggleLikeIsIdempotentPair(t *testing.T) {
	uc, store := newRecipeUseCase()
	ctx := context.Background()

	recipe, err := uc.CreateRecipe(ctx, testUser, usecase.CreateRecipeInput{Title: "Soup"})
	require.NoError(t, err)

	liker := &domain.User{ID: "user-2", Username: "fan"}
	first, err := uc.ToggleLike(ctx, liker, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeResult{Likes: 1, Liked: true}, first)

	second, err := uc.ToggleLike(ctx, liker, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeResult{Likes: 0, Liked: false}, second)

	stored, err := store.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Likes)
	assert.Empty(t, stored.LikedBy)
}

func TestRecipeUseCase_ConcurrentDistinctLikers(t *testing.T) {
	uc, store := newRecipeUseCase()
	ctx := context.Background()

	recipe, err := uc.CreateRecipe(ctx, testUser, usecase.CreateRecipeInput{Title: "Soup"})
	require.NoError(t, err)

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.ToggleLike(ctx, &domain.User{ID: fmt.Sprintf("liker-%d", i)}, recipe.ID)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := store.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, n, stored.Likes)
	assert.Len(t, stored.LikedBy, n)
}

func TestRecipeUseCase_ToggleLikeErrors(t *testing.T) {
	uc, _ := newRecipeUseCase()
	ctx := context.Background()

	_, err := uc.ToggleLike(ctx, nil, "r1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.ToggleLike(ctx, testUser, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ToggleLike(ctx, testUser, "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestRecipeUseCase_SaveFailureDeletesUploadedMedia(t *testing.T) {
	files := new(mocks.FileStorage)
	var uploadedKey string
	files.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, "image/png").
		Run(func(args mock.Arguments) { uploadedKey = args.String(1) }).
		Return("http://minio/b/k.png", nil)
	files.On("DeleteFile", mock.Anything, mock.Anything).Return(nil)

	recipes := new(mocks.RecipeStorage)
	dbErr := errors.New("disk full")
	recipes.On("SaveRecipe", mock.Anything, mock.Anything).Return(dbErr)

	uc := usecase.NewRecipeUseCase(recipes, usecase.NewMediaIngestor(files, logger.Discard()), logger.Discard())
	_, err := uc.CreateRecipe(context.Background(), testUser, usecase.CreateRecipeInput{
		Title: "Salad",
		Media: &usecase.MediaUpload{Filename: "s.png", ContentType: "image/png", Content: []byte("png")},
	})
	require.ErrorIs(t, err, dbErr)
	require.NotEmpty(t, uploadedKey)
	files.AssertCalled(t, "DeleteFile", mock.Anything, uploadedKey)
}
