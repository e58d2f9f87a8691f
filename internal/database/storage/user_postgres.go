package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// код ошибки Postgres unique_violation
const uniqueViolation = "23505"

// UserStorage реализует интерфейс ports.UserStorage поверх sqlx
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя; занятый email отсекает уникальный индекс
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (id, username, email, full_name, avatar, hashed_password, created_at)
		VALUES (:id, :username, :email, :full_name, :avatar, :hashed_password, :created_at)
	`, user)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("user insert rejected: email already registered", "email", user.Email)
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to insert user", "email", user.Email, "error", err)
		return fmt.Errorf("insert user: %w", err)
	}

	s.logger.Debug("user inserted",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByEmail возвращает (nil, nil), если пользователя нет
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, email, full_name, avatar, hashed_password, created_at
		FROM users WHERE email = $1
	`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to select user by email", "email", email, "error", err)
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
