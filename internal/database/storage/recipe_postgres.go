package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const recipeColumns = `id, user_id, username, title, description, ingredients, instructions,
	media_type, media_data, media_url, tags, likes, liked_by, comments, created_at`

// recipeRow — строка таблицы recipes; массивы хранятся как TEXT[], комментарии как JSONB
type recipeRow struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	Username     string         `db:"username"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Ingredients  pq.StringArray `db:"ingredients"`
	Instructions pq.StringArray `db:"instructions"`
	MediaType    string         `db:"media_type"`
	MediaData    string         `db:"media_data"`
	MediaURL     string         `db:"media_url"`
	Tags         pq.StringArray `db:"tags"`
	Likes        int            `db:"likes"`
	LikedBy      pq.StringArray `db:"liked_by"`
	Comments     []byte         `db:"comments"`
	CreatedAt    time.Time      `db:"created_at"`
}

func newRecipeRow(r *domain.Recipe) (*recipeRow, error) {
	comments := r.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}
	raw, err := json.Marshal(comments)
	if err != nil {
		return nil, fmt.Errorf("marshal comments: %w", err)
	}
	return &recipeRow{
		ID:           r.ID,
		UserID:       r.UserID,
		Username:     r.Username,
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  pq.StringArray(nonNil(r.Ingredients)),
		Instructions: pq.StringArray(nonNil(r.Instructions)),
		MediaType:    r.MediaType,
		MediaData:    r.MediaData,
		MediaURL:     r.MediaURL,
		Tags:         pq.StringArray(nonNil(r.Tags)),
		Likes:        r.Likes,
		LikedBy:      pq.StringArray(nonNil(r.LikedBy)),
		Comments:     raw,
		CreatedAt:    r.CreatedAt,
	}, nil
}

func (row *recipeRow) toDomain() (domain.Recipe, error) {
	r := domain.Recipe{
		ID:           row.ID,
		UserID:       row.UserID,
		Username:     row.Username,
		Title:        row.Title,
		Description:  row.Description,
		Ingredients:  row.Ingredients,
		Instructions: row.Instructions,
		MediaType:    row.MediaType,
		MediaData:    row.MediaData,
		MediaURL:     row.MediaURL,
		Tags:         row.Tags,
		Likes:        row.Likes,
		LikedBy:      row.LikedBy,
		CreatedAt:    row.CreatedAt,
	}
	if len(row.Comments) > 0 {
		if err := json.Unmarshal(row.Comments, &r.Comments); err != nil {
			return domain.Recipe{}, fmt.Errorf("unmarshal comments of recipe %s: %w", row.ID, err)
		}
	}
	r.Normalize()
	return r, nil
}

// RecipeStorage реализует ports.RecipeStorage
type RecipeStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewRecipeStorage(db *sqlx.DB, logger *slog.Logger) *RecipeStorage {
	return &RecipeStorage{db: db, logger: logger}
}

// SaveRecipe сохраняет рецепт в базе данных
func (s *RecipeStorage) SaveRecipe(ctx context.Context, recipe *domain.Recipe) error {
	start := time.Now()

	row, err := newRecipeRow(recipe)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`)
		VALUES (:id, :user_id, :username, :title, :description, :ingredients, :instructions,
			:media_type, :media_data, :media_url, :tags, :likes, :liked_by, :comments, :created_at)
	`, row)
	if err != nil {
		s.logger.Error("failed to save recipe", "recipe_id", recipe.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении рецепта: %w", err)
	}

	s.logger.Info("recipe saved successfully",
		"recipe_id", recipe.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetRecipeByID получает рецепт по ID; (nil, nil) если его нет
func (s *RecipeStorage) GetRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	var row recipeRow
	err := s.db.GetContext(ctx, &row, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("recipe not found by id", "recipe_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get recipe by id", "recipe_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении рецепта по ID: %w", err)
	}

	recipe, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes получает ленту рецептов по убыванию created_at
func (s *RecipeStorage) ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error) {
	start := time.Now()

	var rows []recipeRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+recipeColumns+` FROM recipes
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, skip)
	if err != nil {
		s.logger.Error("failed to list recipes", "skip", skip, "limit", limit, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка рецептов: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(rows))
	for i := range rows {
		r, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}

	s.logger.Debug("recipes listed",
		"count", len(recipes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return recipes, nil
}

// ToggleLike переключает лайк одним UPDATE: блокировка строки сериализует
// параллельные переключения, а SET вычисляется по актуальной версии строки.
func (s *RecipeStorage) ToggleLike(ctx context.Context, recipeID, userID string) (domain.LikeResult, error) {
	var res struct {
		Likes int  `db:"likes"`
		Liked bool `db:"liked"`
	}
	err := s.db.GetContext(ctx, &res, `
		UPDATE recipes SET
			liked_by = CASE WHEN $2::text = ANY(liked_by)
				THEN array_remove(liked_by, $2::text)
				ELSE array_append(liked_by, $2::text) END,
			likes = CASE WHEN $2::text = ANY(liked_by)
				THEN GREATEST(likes - 1, 0)
				ELSE likes + 1 END
		WHERE id = $1
		RETURNING likes, $2::text = ANY(liked_by) AS liked
	`, recipeID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LikeResult{}, domain.ErrRecipeNotFound
		}
		s.logger.Error("failed to toggle like", "recipe_id", recipeID, "user_id", userID, "error", err)
		return domain.LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}
	return domain.LikeResult{Likes: res.Likes, Liked: res.Liked}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
