package auth

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/TastyTrail/internal/core/ports"
	"github.com/GoArmGo/TastyTrail/internal/domain"
)

// TokenVerifier проверяет токен и возвращает subject (email)
type TokenVerifier interface {
	Verify(token string) (string, bool)
}

// SessionResolver сопоставляет bearer-токен пользователю.
// Любая проблема с токеном или пользователем даёт анонимный результат (nil),
// решение об отказе принимает сам эндпоинт.
type SessionResolver struct {
	tokens TokenVerifier
	users  ports.UserStorage
	cache  ports.UserCache
	logger *slog.Logger
}

// NewSessionResolver создаёт резолвер. cache может быть nil.
func NewSessionResolver(tokens TokenVerifier, users ports.UserStorage, cache ports.UserCache, logger *slog.Logger) *SessionResolver {
	return &SessionResolver{
		tokens: tokens,
		users:  users,
		cache:  cache,
		logger: logger,
	}
}

// Resolve возвращает пользователя по токену или nil.
func (r *SessionResolver) Resolve(ctx context.Context, token string) *domain.User {
	if token == "" {
		return nil
	}
	email, ok := r.tokens.Verify(token)
	if !ok {
		r.logger.Debug("token rejected")
		return nil
	}

	if r.cache != nil {
		user, err := r.cache.GetUser(ctx, email)
		if err != nil {
			r.logger.Warn("user cache lookup failed", "email", email, "error", err)
		} else if user != nil {
			return user
		}
	}

	user, err := r.users.GetUserByEmail(ctx, email)
	if err != nil {
		r.logger.Error("failed to resolve session user", "email", email, "error", err)
		return nil
	}
	if user == nil {
		r.logger.Warn("token subject does not match any user", "email", email)
		return nil
	}

	if r.cache != nil {
		if err := r.cache.SetUser(ctx, user); err != nil {
			r.logger.Warn("failed to cache user", "email", email, "error", err)
		}
	}
	return user
}
