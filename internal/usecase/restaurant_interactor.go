package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/core/ports"
	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/messaging/payloads"
	"github.com/google/uuid"
)

// restaurantUseCase implements RestaurantUseCase
type restaurantUseCase struct {
	restaurants ports.RestaurantStorage
	reviews     ports.ReviewStorage
	media       *MediaIngestor
	publisher   ports.ReviewEventPublisher
	logger      *slog.Logger
}

// NewRestaurantUseCase создает новый экземпляр RestaurantUseCase.
// publisher может быть nil — тогда события об отзывах не публикуются.
func NewRestaurantUseCase(
	restaurants ports.RestaurantStorage,
	reviews ports.ReviewStorage,
	media *MediaIngestor,
	publisher ports.ReviewEventPublisher,
	logger *slog.Logger,
) RestaurantUseCase {
	return &restaurantUseCase{
		restaurants: restaurants,
		reviews:     reviews,
		media:       media,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *restaurantUseCase) CreateRestaurant(ctx context.Context, user *domain.User, in CreateRestaurantInput) (*domain.Restaurant, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidArgument)
	}
	if !validCoordinate(in.Latitude, 90) || !validCoordinate(in.Longitude, 180) {
		return nil, fmt.Errorf("coordinates (%v, %v) out of range: %w", in.Latitude, in.Longitude, domain.ErrInvalidArgument)
	}

	restaurant := &domain.Restaurant{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CuisineType: in.CuisineType,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		AddedBy:     user.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.restaurants.SaveRestaurant(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("usecase: save restaurant: %w", err)
	}

	uc.logger.Info("restaurant created", "restaurant_id", restaurant.ID, "added_by", user.ID)
	return restaurant, nil
}

func (uc *restaurantUseCase) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	restaurants, err := uc.restaurants.ListRestaurants(ctx, MaxRestaurantScan)
	if err != nil {
		return nil, fmt.Errorf("usecase: list restaurants: %w", err)
	}
	return restaurants, nil
}

func (uc *restaurantUseCase) Nearby(ctx context.Context, lat, lng, radius float64) ([]domain.Restaurant, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsNaN(radius) || radius < 0 {
		return nil, fmt.Errorf("invalid nearby query (%v, %v, r=%v): %w", lat, lng, radius, domain.ErrInvalidArgument)
	}

	// полный скан: геоиндекса нет
	all, err := uc.restaurants.ListRestaurants(ctx, MaxRestaurantScan)
	if err != nil {
		return nil, fmt.Errorf("usecase: list restaurants for nearby: %w", err)
	}

	nearby := make([]domain.Restaurant, 0, len(all))
	for _, r := range all {
		if r.Within(lat, lng, radius) {
			nearby = append(nearby, r)
		}
	}
	return nearby, nil
}

func (uc *restaurantUseCase) CreateReview(ctx context.Context, user *domain.User, in CreateReviewInput) (*domain.Review, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	restaurant, err := uc.restaurants.GetRestaurantByID(ctx, in.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("usecase: get restaurant %s: %w", in.RestaurantID, err)
	}
	if restaurant == nil {
		return nil, domain.ErrRestaurantNotFound
	}

	if !domain.ValidRating(in.Rating) {
		return nil, fmt.Errorf("got %d: %w", in.Rating, domain.ErrRatingOutOfRange)
	}

	photos := make([]string, 0, len(in.Photos))
	uploaded := make([]MediaAttachment, 0, len(in.Photos))
	for _, p := range in.Photos {
		att, err := uc.media.Ingest(ctx, "reviews", p, domain.MediaTypeImage)
		if err != nil {
			uc.media.Discard(ctx, uploaded...)
			return nil, err
		}
		uploaded = append(uploaded, att)
		photos = append(photos, att.Data)
	}

	review := &domain.Review{
		ID:           uuid.NewString(),
		RestaurantID: restaurant.ID,
		UserID:       user.ID,
		Username:     user.Username,
		Rating:       in.Rating,
		Comment:      in.Comment,
		Photos:       photos,
		CreatedAt:    time.Now().UTC(),
	}

	summary, err := uc.reviews.AddReview(ctx, review)
	if err != nil {
		uc.media.Discard(ctx, uploaded...)
		return nil, fmt.Errorf("usecase: add review: %w", err)
	}

	uc.logger.Info("review created",
		"review_id", review.ID,
		"restaurant_id", review.RestaurantID,
		"rating", review.Rating,
		"average_rating", summary.AverageRating,
		"total_reviews", summary.TotalReviews,
	)

	uc.publishReviewCreated(ctx, review)
	return review, nil
}

// publishReviewCreated — best effort: ошибка публикации не отменяет записанный отзыв
func (uc *restaurantUseCase) publishReviewCreated(ctx context.Context, review *domain.Review) {
	if uc.publisher == nil {
		return
	}
	payload := payloads.ReviewCreatedPayload{
		Event:        payloads.EventReviewCreated,
		ReviewID:     review.ID,
		RestaurantID: review.RestaurantID,
		UserID:       review.UserID,
		Rating:       review.Rating,
		CreatedAt:    review.CreatedAt,
	}
	if err := uc.publisher.PublishReviewCreated(ctx, payload); err != nil {
		uc.logger.Warn("failed to publish review event", "review_id", review.ID, "error", err)
	}
}

func (uc *restaurantUseCase) ListReviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	reviews, err := uc.reviews.ListReviewsByRestaurant(ctx, restaurantID, MaxReviewsPerListing)
	if err != nil {
		return nil, fmt.Errorf("usecase: list reviews for %s: %w", restaurantID, err)
	}
	for i := range reviews {
		if reviews[i].Photos == nil {
			reviews[i].Photos = []string{}
		}
	}
	return reviews, nil
}

func (uc *restaurantUseCase) RecomputeRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error) {
	summary, err := uc.reviews.RecomputeRating(ctx, restaurantID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("usecase: recompute rating for %s: %w", restaurantID, err)
	}
	uc.logger.Info("restaurant rating recomputed",
		"restaurant_id", restaurantID,
		"average_rating", summary.AverageRating,
		"total_reviews", summary.TotalReviews,
	)
	return summary, nil
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}
