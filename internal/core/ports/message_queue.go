package ports

import (
	"context"

	"github.com/GoArmGo/TastyTrail/internal/messaging/payloads"
)

// ReviewEventPublisher публикует события о новых отзывах.
// Используется сервисом ресторанов после записи отзыва.
type ReviewEventPublisher interface {
	PublishReviewCreated(ctx context.Context, payload payloads.ReviewCreatedPayload) error
}

// ReviewEventConsumer потребляет события о новых отзывах (режим worker)
type ReviewEventConsumer interface {
	// StartConsumingReviewEvents начинает прослушивание очереди;
	// handler вызывается для каждого сообщения
	StartConsumingReviewEvents(ctx context.Context, handler func(context.Context, payloads.ReviewCreatedPayload) error) error
}
