package usecase

import (
	"context"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/domain"
)

// PasswordHasher — хранилище учётных данных (bcrypt)
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hashed string) bool
}

// TokenIssuer выпускает bearer-токены для subject (email)
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// RegisterInput — данные регистрации
type RegisterInput struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

// LoginInput — данные входа
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUseCase определяет интерфейс регистрации и входа
type AuthUseCase interface {
	// Register создаёт пользователя и сразу выдаёт токен.
	// Повторная регистрация с тем же email даёт domain.ErrEmailTaken.
	Register(ctx context.Context, in RegisterInput) (*domain.AccessToken, error)

	// Login проверяет пароль и выдаёт токен; неверная пара email/пароль — domain.ErrInvalidCredentials.
	Login(ctx context.Context, in LoginInput) (*domain.AccessToken, error)
}
