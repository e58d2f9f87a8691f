package usecase

import (
	"context"

	"github.com/GoArmGo/TastyTrail/internal/domain"
)

// Лимиты выборок: полные сканы ресторанов и отзывов ограничены
const (
	MaxRestaurantScan    = 1000
	MaxReviewsPerListing = 1000
	DefaultNearbyRadius  = 10.0
)

// CreateRestaurantInput — поля нового ресторана
type CreateRestaurantInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CuisineType string  `json:"cuisine_type"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// CreateReviewInput — поля нового отзыва
type CreateReviewInput struct {
	RestaurantID string
	Rating       int
	Comment      string
	Photos       []MediaUpload
}

// RestaurantUseCase определяет интерфейс для ресторанов и отзывов
type RestaurantUseCase interface {
	CreateRestaurant(ctx context.Context, user *domain.User, in CreateRestaurantInput) (*domain.Restaurant, error)

	// ListRestaurants — полный скан без сортировки
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)

	// Nearby отбирает рестораны не дальше radius от точки (плоское расстояние в градусах)
	Nearby(ctx context.Context, lat, lng, radius float64) ([]domain.Restaurant, error)

	// CreateReview проверяет ресторан и оценку, сохраняет отзыв и обновляет агрегат рейтинга
	CreateReview(ctx context.Context, user *domain.User, in CreateReviewInput) (*domain.Review, error)

	// ListReviews возвращает отзывы ресторана по убыванию created_at
	ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error)

	// RecomputeRating пересчитывает агрегат по всем отзывам (сверка в воркере)
	RecomputeRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error)
}
