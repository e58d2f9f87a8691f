package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewStorage реализует ports.ReviewStorage
type ReviewStorage struct {
	reviews     *mongo.Collection
	restaurants *mongo.Collection
	logger      *slog.Logger
}

func NewReviewStorage(db *mongo.Database, logger *slog.Logger) *ReviewStorage {
	return &ReviewStorage{
		reviews:     db.Collection(reviewsCollection),
		restaurants: db.Collection(restaurantsCollection),
		logger:      logger,
	}
}

// Параметры сверки агрегата: пока у ресторана есть незавершённые отзывы
// или агрегат меняется между чтением и записью, попытка повторяется.
const (
	recomputeAttempts = 10
	recomputeBackoff  = 20 * time.Millisecond
)

// ratingDelta — конвейерное обновление: второй $set видит результат первого,
// поэтому сумма, счётчик, среднее и число незавершённых отзывов меняются
// одной атомарной операцией над документом.
func ratingDelta(rating, count, pending int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "rating_sum", Value: bson.D{{Key: "$add", Value: bson.A{"$rating_sum", rating}}}},
			{Key: "total_reviews", Value: bson.D{{Key: "$add", Value: bson.A{"$total_reviews", count}}}},
			{Key: "pending_reviews", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$pending_reviews", 0}}}, pending,
			}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "average_rating", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$gt", Value: bson.A{"$total_reviews", 0}}},
				bson.D{{Key: "$divide", Value: bson.A{"$rating_sum", "$total_reviews"}}},
				0.0,
			}}}},
		}}},
	}
}

type ratingDoc struct {
	RatingSum      int `bson:"rating_sum"`
	TotalReviews   int `bson:"total_reviews"`
	PendingReviews int `bson:"pending_reviews"`
}

// AddReview сначала увеличивает агрегат (заодно проверяя ресторан) и помечает
// отзыв как незавершённый, потом вставляет отзыв и снимает пометку.
// Если вставка не удалась, агрегат и пометка откатываются обратной дельтой.
func (s *ReviewStorage) AddReview(ctx context.Context, review *domain.Review) (domain.RatingSummary, error) {
	var agg ratingDoc
	err := s.restaurants.FindOneAndUpdate(ctx,
		bson.M{"id": review.RestaurantID},
		ratingDelta(review.Rating, 1, 1),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&agg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.RatingSummary{}, domain.ErrRestaurantNotFound
		}
		s.logger.Error("failed to update rating aggregate", "restaurant_id", review.RestaurantID, "error", err)
		return domain.RatingSummary{}, fmt.Errorf("update rating aggregate: %w", err)
	}

	doc := *review
	if doc.Photos == nil {
		doc.Photos = []string{}
	}
	if _, err := s.reviews.InsertOne(ctx, &doc); err != nil {
		s.logger.Error("failed to insert review, reverting aggregate", "review_id", review.ID, "error", err)
		if _, rerr := s.restaurants.UpdateOne(ctx, bson.M{"id": review.RestaurantID}, ratingDelta(-review.Rating, -1, -1)); rerr != nil {
			s.logger.Error("failed to revert rating aggregate", "restaurant_id", review.RestaurantID, "error", rerr)
		}
		return domain.RatingSummary{}, fmt.Errorf("insert review: %w", err)
	}

	if _, err := s.restaurants.UpdateOne(ctx,
		bson.M{"id": review.RestaurantID},
		bson.M{"$inc": bson.M{"pending_reviews": -1}},
	); err != nil {
		// отзыв записан; сверка рейтинга будет ждать, пока пометку не снимут
		s.logger.Error("failed to clear pending review mark", "restaurant_id", review.RestaurantID, "error", err)
	}

	return domain.NewRatingSummary(agg.RatingSum, agg.TotalReviews), nil
}

func (s *ReviewStorage) ListReviewsByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.reviews.Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		s.logger.Error("failed to list reviews", "restaurant_id", restaurantID, "error", err)
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	reviews := []domain.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

// RecomputeRating пересчитывает агрегат по коллекции отзывов.
// Запись условна: фильтр по только что прочитанным (rating_sum, total_reviews)
// и отсутствию незавершённых отзывов. Параллельный AddReview меняет эти поля,
// и тогда попытка повторяется.
func (s *ReviewStorage) RecomputeRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error) {
	for attempt := range recomputeAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return domain.RatingSummary{}, ctx.Err()
			case <-time.After(recomputeBackoff):
			}
		}

		var current ratingDoc
		err := s.restaurants.FindOne(ctx, bson.M{"id": restaurantID}).Decode(&current)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.RatingSummary{}, domain.ErrRestaurantNotFound
			}
			return domain.RatingSummary{}, fmt.Errorf("read rating aggregate: %w", err)
		}
		if current.PendingReviews > 0 {
			continue
		}

		summary, err := s.aggregateRatings(ctx, restaurantID)
		if err != nil {
			return domain.RatingSummary{}, err
		}

		res, err := s.restaurants.UpdateOne(ctx, bson.M{
			"id":              restaurantID,
			"rating_sum":      current.RatingSum,
			"total_reviews":   current.TotalReviews,
			"pending_reviews": bson.M{"$in": bson.A{0, nil}},
		}, bson.M{"$set": bson.M{
			"rating_sum":     summary.RatingSum,
			"total_reviews":  summary.TotalReviews,
			"average_rating": summary.AverageRating,
		}})
		if err != nil {
			s.logger.Error("failed to store recomputed rating", "restaurant_id", restaurantID, "error", err)
			return domain.RatingSummary{}, fmt.Errorf("store recomputed rating: %w", err)
		}
		if res.MatchedCount == 1 {
			return summary, nil
		}
	}

	s.logger.Warn("rating recompute kept losing races", "restaurant_id", restaurantID)
	return domain.RatingSummary{}, fmt.Errorf("recompute rating for %s: too much contention", restaurantID)
}

func (s *ReviewStorage) aggregateRatings(ctx context.Context, restaurantID string) (domain.RatingSummary, error) {
	cursor, err := s.reviews.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "restaurant_id", Value: restaurantID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "rating_sum", Value: bson.D{{Key: "$sum", Value: "$rating"}}},
			{Key: "total_reviews", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("aggregate reviews: %w", err)
	}
	var groups []ratingDoc
	if err := cursor.All(ctx, &groups); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("decode rating aggregate: %w", err)
	}
	if len(groups) == 0 {
		return domain.RatingSummary{}, nil
	}
	return domain.NewRatingSummary(groups[0].RatingSum, groups[0].TotalReviews), nil
}
