package domain

import "time"

// Границы оценки отзыва
const (
	MinRating = 1
	MaxRating = 5
)

// Review — отзыв о ресторане. После создания не изменяется.
type Review struct {
	ID           string    `json:"id" bson:"id"`
	RestaurantID string    `json:"restaurant_id" bson:"restaurant_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Username     string    `json:"username" bson:"username"`
	Rating       int       `json:"rating" bson:"rating"`
	Comment      string    `json:"comment" bson:"comment"`
	Photos       []string  `json:"photos" bson:"photos"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// ValidRating проверяет, что оценка в диапазоне [MinRating, MaxRating].
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
