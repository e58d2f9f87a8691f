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

// RestaurantStorage реализует ports.RestaurantStorage
type RestaurantStorage struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

func NewRestaurantStorage(db *mongo.Database, logger *slog.Logger) *RestaurantStorage {
	return &RestaurantStorage{collection: db.Collection(restaurantsCollection), logger: logger}
}

func (s *RestaurantStorage) SaveRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	if _, err := s.collection.InsertOne(ctx, restaurant); err != nil {
		s.logger.Error("failed to save restaurant", "restaurant_id", restaurant.ID, "error", err)
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

func (s *RestaurantStorage) GetRestaurantByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	err := s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&restaurant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		s.logger.Error("failed to find restaurant", "restaurant_id", id, "error", err)
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return &restaurant, nil
}

// ListRestaurants возвращает рестораны в естественном порядке коллекции
func (s *RestaurantStorage) ListRestaurants(ctx context.Context, limit int) ([]domain.Restaurant, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "$natural", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		s.logger.Error("failed to list restaurants", "limit", limit, "error", err)
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	restaurants := []domain.Restaurant{}
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, fmt.Errorf("decode restaurants: %w", err)
	}
	return restaurants, nil
}
