package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/core/ports"
	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/google/uuid"
)

// recipeUseCase implements RecipeUseCase
type recipeUseCase struct {
	recipes ports.RecipeStorage
	media   *MediaIngestor
	logger  *slog.Logger
}

// NewRecipeUseCase создает новый экземпляр RecipeUseCase
func NewRecipeUseCase(recipes ports.RecipeStorage, media *MediaIngestor, logger *slog.Logger) RecipeUseCase {
	return &recipeUseCase{
		recipes: recipes,
		media:   media,
		logger:  logger,
	}
}

func (uc *recipeUseCase) CreateRecipe(ctx context.Context, user *domain.User, in CreateRecipeInput) (*domain.Recipe, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrInvalidArgument)
	}

	recipe := &domain.Recipe{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Title:        in.Title,
		Description:  in.Description,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		Tags:         in.Tags,
		CreatedAt:    time.Now().UTC(),
	}

	// валидация медиа до любой записи
	var att MediaAttachment
	if in.Media != nil {
		var err error
		att, err = uc.media.Ingest(ctx, "recipes", *in.Media, domain.MediaTypeImage, domain.MediaTypeVideo)
		if err != nil {
			return nil, err
		}
		recipe.MediaType = att.Type
		recipe.MediaData = att.Data
		recipe.MediaURL = att.URL
	}
	recipe.Normalize()

	if err := uc.recipes.SaveRecipe(ctx, recipe); err != nil {
		uc.media.Discard(ctx, att)
		return nil, fmt.Errorf("usecase: save recipe: %w", err)
	}

	uc.logger.Info("recipe created", "recipe_id", recipe.ID, "user_id", user.ID, "media_type", recipe.MediaType)
	return recipe, nil
}

func (uc *recipeUseCase) ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error) {
	if skip < 0 {
		return nil, fmt.Errorf("skip must not be negative: %w", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive: %w", domain.ErrInvalidArgument)
	}
	if limit > MaxRecipeLimit {
		limit = MaxRecipeLimit
	}

	recipes, err := uc.recipes.ListRecipes(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("usecase: list recipes: %w", err)
	}
	for i := range recipes {
		recipes[i].Normalize()
	}
	return recipes, nil
}

func (uc *recipeUseCase) ToggleLike(ctx context.Context, user *domain.User, recipeID string) (domain.LikeResult, error) {
	if user == nil {
		return domain.LikeResult{}, domain.ErrUnauthorized
	}
	if recipeID == "" {
		return domain.LikeResult{}, domain.ErrRecipeNotFound
	}

	res, err := uc.recipes.ToggleLike(ctx, recipeID, user.ID)
	if err != nil {
		return domain.LikeResult{}, fmt.Errorf("usecase: toggle like on %s: %w", recipeID, err)
	}

	uc.logger.Info("recipe like toggled", "recipe_id", recipeID, "user_id", user.ID, "liked", res.Liked, "likes", res.Likes)
	return res, nil
}
