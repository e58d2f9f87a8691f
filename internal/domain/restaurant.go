package domain

import (
	"math"
	"time"
)

// Restaurant представляет ресторан.
// AverageRating и TotalReviews производные: RatingSum/TotalReviews по всем отзывам.
type Restaurant struct {
	ID            string    `json:"id" db:"id" bson:"id"`
	Name          string    `json:"name" db:"name" bson:"name"`
	Description   string    `json:"description" db:"description" bson:"description"`
	CuisineType   string    `json:"cuisine_type" db:"cuisine_type" bson:"cuisine_type"`
	Address       string    `json:"address" db:"address" bson:"address"`
	Latitude      float64   `json:"latitude" db:"latitude" bson:"latitude"`
	Longitude     float64   `json:"longitude" db:"longitude" bson:"longitude"`
	AddedBy       string    `json:"added_by" db:"added_by" bson:"added_by"`
	AverageRating float64   `json:"average_rating" db:"average_rating" bson:"average_rating"`
	TotalReviews  int       `json:"total_reviews" db:"total_reviews" bson:"total_reviews"`
	RatingSum     int       `json:"-" db:"rating_sum" bson:"rating_sum"`
	CreatedAt     time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

// RatingSummary — агрегат рейтинга ресторана
type RatingSummary struct {
	RatingSum     int     `json:"-"`
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
}

// NewRatingSummary строит агрегат по сумме и количеству; без отзывов среднее равно 0.
func NewRatingSummary(sum, count int) RatingSummary {
	s := RatingSummary{RatingSum: sum, TotalReviews: count}
	if count > 0 {
		s.AverageRating = float64(sum) / float64(count)
	}
	return s
}

// PlanarDistance — евклидово расстояние в градусах.
// Это приближение, а не геодезическое расстояние: годится только для малых радиусов.
func PlanarDistance(lat1, lng1, lat2, lng2 float64) float64 {
	return math.Hypot(math.Abs(lat1-lat2), math.Abs(lng1-lng2))
}

// Within сообщает, лежит ли ресторан не дальше radius от точки (граница включается).
func (r *Restaurant) Within(lat, lng, radius float64) bool {
	return PlanarDistance(r.Latitude, r.Longitude, lat, lng) <= radius
}
