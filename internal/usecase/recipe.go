package usecase

import (
	"context"

	"github.com/GoArmGo/TastyTrail/internal/domain"
)

// Параметры пагинации ленты рецептов
const (
	DefaultRecipeLimit = 20
	MaxRecipeLimit     = 100
)

// CreateRecipeInput — поля нового рецепта
type CreateRecipeInput struct {
	Title        string
	Description  string
	Ingredients  []string
	Instructions []string
	Tags         []string
	Media        *MediaUpload
}

// RecipeUseCase определяет интерфейс для бизнес-логики работы с рецептами
type RecipeUseCase interface {
	// CreateRecipe сохраняет рецепт от имени автора; user == nil — domain.ErrUnauthorized
	CreateRecipe(ctx context.Context, user *domain.User, in CreateRecipeInput) (*domain.Recipe, error)

	// ListRecipes возвращает ленту по убыванию created_at начиная с позиции skip
	ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error)

	// ToggleLike ставит или снимает лайк пользователя
	ToggleLike(ctx context.Context, user *domain.User, recipeID string) (domain.LikeResult, error)
}
