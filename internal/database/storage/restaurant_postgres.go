package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/jmoiron/sqlx"
)

const restaurantColumns = `id, name, description, cuisine_type, address, latitude, longitude,
	added_by, average_rating, total_reviews, rating_sum, created_at`

// RestaurantStorage реализует ports.RestaurantStorage
type RestaurantStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewRestaurantStorage(db *sqlx.DB, logger *slog.Logger) *RestaurantStorage {
	return &RestaurantStorage{db: db, logger: logger}
}

// SaveRestaurant сохраняет ресторан; seq задаёт порядок хранения
func (s *RestaurantStorage) SaveRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	start := time.Now()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO restaurants (`+restaurantColumns+`)
		VALUES (:id, :name, :description, :cuisine_type, :address, :latitude, :longitude,
			:added_by, :average_rating, :total_reviews, :rating_sum, :created_at)
	`, restaurant)
	if err != nil {
		s.logger.Error("failed to save restaurant", "restaurant_id", restaurant.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении ресторана: %w", err)
	}

	s.logger.Info("restaurant saved successfully",
		"restaurant_id", restaurant.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *RestaurantStorage) GetRestaurantByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	err := s.db.GetContext(ctx, &restaurant, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("restaurant not found by id", "restaurant_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get restaurant by id", "restaurant_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении ресторана по ID: %w", err)
	}
	return &restaurant, nil
}

func (s *RestaurantStorage) ListRestaurants(ctx context.Context, limit int) ([]domain.Restaurant, error) {
	restaurants := []domain.Restaurant{}
	err := s.db.SelectContext(ctx, &restaurants, `
		SELECT `+restaurantColumns+` FROM restaurants
		ORDER BY seq
		LIMIT $1
	`, limit)
	if err != nil {
		s.logger.Error("failed to list restaurants", "limit", limit, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка ресторанов: %w", err)
	}
	return restaurants, nil
}
