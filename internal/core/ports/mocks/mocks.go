// Package mocks содержит testify-моки портов для тестов usecase и auth.
package mocks

import (
	"context"
	"io"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/messaging/payloads"
	"github.com/stretchr/testify/mock"
)

// UserStorage — мок ports.UserStorage
type UserStorage struct {
	mock.Mock
}

func (m *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// RecipeStorage — мок ports.RecipeStorage
type RecipeStorage struct {
	mock.Mock
}

func (m *RecipeStorage) SaveRecipe(ctx context.Context, recipe *domain.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *RecipeStorage) GetRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	args := m.Called(ctx, id)
	recipe, _ := args.Get(0).(*domain.Recipe)
	return recipe, args.Error(1)
}

func (m *RecipeStorage) ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error) {
	args := m.Called(ctx, skip, limit)
	recipes, _ := args.Get(0).([]domain.Recipe)
	return recipes, args.Error(1)
}

func (m *RecipeStorage) ToggleLike(ctx context.Context, recipeID, userID string) (domain.LikeResult, error) {
	args := m.Called(ctx, recipeID, userID)
	res, _ := args.Get(0).(domain.LikeResult)
	return res, args.Error(1)
}

// RestaurantStorage — мок ports.RestaurantStorage
type RestaurantStorage struct {
	mock.Mock
}

func (m *RestaurantStorage) SaveRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *RestaurantStorage) GetRestaurantByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	restaurant, _ := args.Get(0).(*domain.Restaurant)
	return restaurant, args.Error(1)
}

func (m *RestaurantStorage) ListRestaurants(ctx context.Context, limit int) ([]domain.Restaurant, error) {
	args := m.Called(ctx, limit)
	restaurants, _ := args.Get(0).([]domain.Restaurant)
	return restaurants, args.Error(1)
}

// ReviewStorage — мок ports.ReviewStorage
type ReviewStorage struct {
	mock.Mock
}

func (m *ReviewStorage) AddReview(ctx context.Context, review *domain.Review) (domain.RatingSummary, error) {
	args := m.Called(ctx, review)
	summary, _ := args.Get(0).(domain.RatingSummary)
	return summary, args.Error(1)
}

func (m *ReviewStorage) ListReviewsByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, restaurantID, limit)
	reviews, _ := args.Get(0).([]domain.Review)
	return reviews, args.Error(1)
}

func (m *ReviewStorage) RecomputeRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error) {
	args := m.Called(ctx, restaurantID)
	summary, _ := args.Get(0).(domain.RatingSummary)
	return summary, args.Error(1)
}

// FileStorage — мок ports.FileStorage
type FileStorage struct {
	mock.Mock
}

func (m *FileStorage) UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, contentType)
	return args.String(0), args.Error(1)
}

func (m *FileStorage) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// UserCache — мок ports.UserCache
type UserCache struct {
	mock.Mock
}

func (m *UserCache) GetUser(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserCache) SetUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// ReviewEventPublisher — мок ports.ReviewEventPublisher
type ReviewEventPublisher struct {
	mock.Mock
}

func (m *ReviewEventPublisher) PublishReviewCreated(ctx context.Context, payload payloads.ReviewCreatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
