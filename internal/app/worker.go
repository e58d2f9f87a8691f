package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/messaging/payloads"
)

// runWorker потребляет события о новых отзывах и сверяет агрегат рейтинга
func runWorker(ctx context.Context, a *App) error {
	if a.deps.ReviewConsumer == nil {
		return errors.New("worker mode requires RABBITMQ_URL")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := a.deps.ReviewConsumer.StartConsumingReviewEvents(workerCtx, reviewEventHandler(a)); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}
	a.logger.Info("worker started, waiting for review events")

	<-ctx.Done()
	a.logger.Info("worker stopping")
	return nil
}

// reviewEventHandler пересчитывает рейтинг ресторана из события.
// Удалённый ресторан не повод держать сообщение в очереди.
func reviewEventHandler(a *App) func(context.Context, payloads.ReviewCreatedPayload) error {
	return func(ctx context.Context, payload payloads.ReviewCreatedPayload) error {
		summary, err := a.deps.Restaurants.RecomputeRating(ctx, payload.RestaurantID)
		a.deps.Metrics.RatingRecomputed(err)
		if errors.Is(err, domain.ErrNotFound) {
			a.logger.Warn("review event for unknown restaurant",
				"review_id", payload.ReviewID,
				"restaurant_id", payload.RestaurantID,
			)
			return nil
		}
		if err != nil {
			return err
		}

		a.logger.Debug("review event processed",
			"review_id", payload.ReviewID,
			"restaurant_id", payload.RestaurantID,
			"average_rating", summary.AverageRating,
		)
		return nil
	}
}
