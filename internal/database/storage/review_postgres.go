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
	"github.com/lib/pq"
)

type reviewRow struct {
	ID           string         `db:"id"`
	RestaurantID string         `db:"restaurant_id"`
	UserID       string         `db:"user_id"`
	Username     string         `db:"username"`
	Rating       int            `db:"rating"`
	Comment      string         `db:"comment"`
	Photos       pq.StringArray `db:"photos"`
	CreatedAt    time.Time      `db:"created_at"`
}

type ratingRow struct {
	RatingSum    int `db:"rating_sum"`
	TotalReviews int `db:"total_reviews"`
}

// ReviewStorage реализует ports.ReviewStorage
type ReviewStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewReviewStorage(db *sqlx.DB, logger *slog.Logger) *ReviewStorage {
	return &ReviewStorage{db: db, logger: logger}
}

// AddReview в одной транзакции увеличивает агрегат ресторана и вставляет отзыв.
// UPDATE идёт первым: он блокирует строку ресторана и заодно проверяет, что она есть.
func (s *ReviewStorage) AddReview(ctx context.Context, review *domain.Review) (domain.RatingSummary, error) {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var agg ratingRow
	err = tx.GetContext(ctx, &agg, `
		UPDATE restaurants SET
			rating_sum = rating_sum + $2,
			total_reviews = total_reviews + 1,
			average_rating = (rating_sum + $2)::float8 / (total_reviews + 1)
		WHERE id = $1
		RETURNING rating_sum, total_reviews
	`, review.RestaurantID, review.Rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RatingSummary{}, domain.ErrRestaurantNotFound
		}
		s.logger.Error("failed to update rating aggregate", "restaurant_id", review.RestaurantID, "error", err)
		return domain.RatingSummary{}, fmt.Errorf("update rating aggregate: %w", err)
	}

	photos := review.Photos
	if photos == nil {
		photos = []string{}
	}
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO reviews (id, restaurant_id, user_id, username, rating, comment, photos, created_at)
		VALUES (:id, :restaurant_id, :user_id, :username, :rating, :comment, :photos, :created_at)
	`, &reviewRow{
		ID:           review.ID,
		RestaurantID: review.RestaurantID,
		UserID:       review.UserID,
		Username:     review.Username,
		Rating:       review.Rating,
		Comment:      review.Comment,
		Photos:       pq.StringArray(photos),
		CreatedAt:    review.CreatedAt,
	})
	if err != nil {
		s.logger.Error("failed to insert review", "review_id", review.ID, "error", err)
		return domain.RatingSummary{}, fmt.Errorf("insert review: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("commit review: %w", err)
	}

	s.logger.Info("review saved successfully",
		"review_id", review.ID,
		"restaurant_id", review.RestaurantID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return domain.NewRatingSummary(agg.RatingSum, agg.TotalReviews), nil
}

func (s *ReviewStorage) ListReviewsByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.Review, error) {
	var rows []reviewRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, restaurant_id, user_id, username, rating, comment, photos, created_at
		FROM reviews
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, restaurantID, limit)
	if err != nil {
		s.logger.Error("failed to list reviews", "restaurant_id", restaurantID, "error", err)
		return nil, fmt.Errorf("ошибка при получении отзывов: %w", err)
	}

	reviews := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, domain.Review{
			ID:           row.ID,
			RestaurantID: row.RestaurantID,
			UserID:       row.UserID,
			Username:     row.Username,
			Rating:       row.Rating,
			Comment:      row.Comment,
			Photos:       nonNil(row.Photos),
			CreatedAt:    row.CreatedAt,
		})
	}
	return reviews, nil
}

// RecomputeRating пересчитывает агрегат по всем отзывам ресторана.
// Строка ресторана блокируется до чтения отзывов. Незавершённый AddReview держит
// ту же блокировку, так что агрегат считается уже с его отзывом.
func (s *ReviewStorage) RecomputeRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var locked string
	err = tx.GetContext(ctx, &locked, `SELECT id FROM restaurants WHERE id = $1 FOR UPDATE`, restaurantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RatingSummary{}, domain.ErrRestaurantNotFound
		}
		s.logger.Error("failed to lock restaurant", "restaurant_id", restaurantID, "error", err)
		return domain.RatingSummary{}, fmt.Errorf("lock restaurant: %w", err)
	}

	var agg ratingRow
	err = tx.GetContext(ctx, &agg, `
		SELECT COALESCE(SUM(rating), 0)::int AS rating_sum, COUNT(*)::int AS total_reviews
		FROM reviews WHERE restaurant_id = $1
	`, restaurantID)
	if err != nil {
		s.logger.Error("failed to aggregate reviews", "restaurant_id", restaurantID, "error", err)
		return domain.RatingSummary{}, fmt.Errorf("aggregate reviews: %w", err)
	}

	summary := domain.NewRatingSummary(agg.RatingSum, agg.TotalReviews)
	_, err = tx.ExecContext(ctx, `
		UPDATE restaurants SET rating_sum = $2, total_reviews = $3, average_rating = $4
		WHERE id = $1
	`, restaurantID, summary.RatingSum, summary.TotalReviews, summary.AverageRating)
	if err != nil {
		s.logger.Error("failed to store recomputed rating", "restaurant_id", restaurantID, "error", err)
		return domain.RatingSummary{}, fmt.Errorf("store recomputed rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("commit recompute: %w", err)
	}
	return summary, nil
}
