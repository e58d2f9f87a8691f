package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// сколько раз повторять переключение лайка, если параллельный запрос успел раньше
const toggleAttempts = 5

// RecipeStorage реализует ports.RecipeStorage
type RecipeStorage struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

func NewRecipeStorage(db *mongo.Database, logger *slog.Logger) *RecipeStorage {
	return &RecipeStorage{collection: db.Collection(recipesCollection), logger: logger}
}

func (s *RecipeStorage) SaveRecipe(ctx context.Context, recipe *domain.Recipe) error {
	doc := *recipe
	doc.Normalize()
	if _, err := s.collection.InsertOne(ctx, &doc); err != nil {
		s.logger.Error("failed to save recipe", "recipe_id", recipe.ID, "error", err)
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

func (s *RecipeStorage) GetRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		s.logger.Error("failed to find recipe", "recipe_id", id, "error", err)
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeStorage) ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		s.logger.Error("failed to list recipes", "skip", skip, "limit", limit, "error", err)
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	recipes := []domain.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return recipes, nil
}

// ToggleLike: условный фильтр по liked_by делает каждое обновление атомарным
// на уровне документа. Если обе попытки промахнулись, значит параллельный
// запрос переключил лайк между ними, и цикл повторяется.
func (s *RecipeStorage) ToggleLike(ctx context.Context, recipeID, userID string) (domain.LikeResult, error) {
	after := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1})

	for range toggleAttempts {
		var doc struct {
			Likes int `bson:"likes"`
		}

		err := s.collection.FindOneAndUpdate(ctx,
			bson.M{"id": recipeID, "liked_by": bson.M{"$ne": userID}},
			bson.M{"$addToSet": bson.M{"liked_by": userID}, "$inc": bson.M{"likes": 1}},
			after,
		).Decode(&doc)
		if err == nil {
			return domain.LikeResult{Likes: doc.Likes, Liked: true}, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return domain.LikeResult{}, fmt.Errorf("add like: %w", err)
		}

		err = s.collection.FindOneAndUpdate(ctx,
			bson.M{"id": recipeID, "liked_by": userID},
			bson.M{"$pull": bson.M{"liked_by": userID}, "$inc": bson.M{"likes": -1}},
			after,
		).Decode(&doc)
		if err == nil {
			return domain.LikeResult{Likes: doc.Likes, Liked: false}, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return domain.LikeResult{}, fmt.Errorf("remove like: %w", err)
		}

		n, err := s.collection.CountDocuments(ctx, bson.M{"id": recipeID})
		if err != nil {
			return domain.LikeResult{}, fmt.Errorf("count recipe: %w", err)
		}
		if n == 0 {
			return domain.LikeResult{}, domain.ErrRecipeNotFound
		}
	}

	s.logger.Warn("like toggle kept losing races", "recipe_id", recipeID, "user_id", userID)
	return domain.LikeResult{}, fmt.Errorf("toggle like on %s: too much contention", recipeID)
}
