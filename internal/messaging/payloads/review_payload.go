package payloads

import "time"

// EventReviewCreated — тип события о новом отзыве
const EventReviewCreated = "review.created"

// ReviewCreatedPayload публикуется в RabbitMQ после записи отзыва.
// Воркер по нему сверяет агрегат рейтинга ресторана.
type ReviewCreatedPayload struct {
	Event        string    `json:"event"`
	ReviewID     string    `json:"review_id"`
	RestaurantID string    `json:"restaurant_id"`
	UserID       string    `json:"user_id"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}
