package domain

import (
	"time"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных и коллекции users в Mongo.
type User struct {
	ID             string    `json:"id" db:"id" bson:"id"`
	Username       string    `json:"username" db:"username" bson:"username"`
	Email          string    `json:"email" db:"email" bson:"email"`
	FullName       *string   `json:"full_name" db:"full_name" bson:"full_name,omitempty"`
	Avatar         *string   `json:"avatar" db:"avatar" bson:"avatar,omitempty"`
	HashedPassword string    `json:"-" db:"hashed_password" bson:"hashed_password"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

// AccessToken — ответ на регистрацию и вход
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenTypeBearer единственный поддерживаемый тип токена
const TokenTypeBearer = "bearer"
