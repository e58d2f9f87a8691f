package domain

import "time"

// Типы медиа у рецепта
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Recipe представляет рецепт пользователя.
// Инвариант: Likes == len(LikedBy), в LikedBy нет повторов.
type Recipe struct {
	ID           string    `json:"id" bson:"id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Username     string    `json:"username" bson:"username"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Ingredients  []string  `json:"ingredients" bson:"ingredients"`
	Instructions []string  `json:"instructions" bson:"instructions"`
	MediaType    string    `json:"media_type" bson:"media_type"`
	MediaData    string    `json:"media_data" bson:"media_data"`
	MediaURL     string    `json:"media_url,omitempty" bson:"media_url,omitempty"`
	Tags         []string  `json:"tags" bson:"tags"`
	Likes        int       `json:"likes" bson:"likes"`
	LikedBy      []string  `json:"liked_by" bson:"liked_by"`
	Comments     []Comment `json:"comments" bson:"comments"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Comment — комментарий к рецепту
type Comment struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Username  string    `json:"username" bson:"username"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// LikeResult — результат переключения лайка
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

// Normalize заменяет nil-срезы пустыми, чтобы в JSON уходили [] а не null.
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.LikedBy == nil {
		r.LikedBy = []string{}
	}
	if r.Comments == nil {
		r.Comments = []Comment{}
	}
}
