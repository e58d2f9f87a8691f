package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/TastyTrail/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	// CreateUser сохраняет пользователя; при занятом email возвращает domain.ErrEmailTaken
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByEmail возвращает (nil, nil), если пользователь не найден
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RecipeStorage определяет методы для взаимодействия с хранилищем рецептов
type RecipeStorage interface {
	SaveRecipe(ctx context.Context, recipe *domain.Recipe) error
	// GetRecipeByID возвращает (nil, nil), если рецепт не найден
	GetRecipeByID(ctx context.Context, id string) (*domain.Recipe, error)
	// ListRecipes возвращает рецепты по убыванию created_at
	ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error)
	// ToggleLike атомарно переключает лайк пользователя и синхронизирует счётчик.
	// Если рецепта нет, возвращает domain.ErrRecipeNotFound.
	ToggleLike(ctx context.Context, recipeID, userID string) (domain.LikeResult, error)
}

// RestaurantStorage определяет методы для взаимодействия с хранилищем ресторанов
type RestaurantStorage interface {
	SaveRestaurant(ctx context.Context, restaurant *domain.Restaurant) error
	// GetRestaurantByID возвращает (nil, nil), если ресторан не найден
	GetRestaurantByID(ctx context.Context, id string) (*domain.Restaurant, error)
	// ListRestaurants возвращает рестораны в порядке хранения, не больше limit
	ListRestaurants(ctx context.Context, limit int) ([]domain.Restaurant, error)
}

// ReviewStorage определяет методы для работы с отзывами и агрегатом рейтинга
type ReviewStorage interface {
	// AddReview сохраняет отзыв и атомарно увеличивает (rating_sum, total_reviews) ресторана.
	// Если ресторана нет, возвращает domain.ErrRestaurantNotFound и ничего не пишет.
	AddReview(ctx context.Context, review *domain.Review) (domain.RatingSummary, error)
	// ListReviewsByRestaurant возвращает отзывы по убыванию created_at
	ListReviewsByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.Review, error)
	// RecomputeRating пересчитывает агрегат по полному набору отзывов ресторана
	RecomputeRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error)
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает его публичный URL.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	// DeleteFile удаляет файл из хранилища по его ключу.
	DeleteFile(ctx context.Context, key string) error
}

// UserCache — кеш пользователей по email для резолвера сессий
type UserCache interface {
	// GetUser возвращает (nil, nil) при промахе
	GetUser(ctx context.Context, email string) (*domain.User, error)
	SetUser(ctx context.Context, user *domain.User) error
}
