// Package redis — кеш пользователей для резолвера сессий.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/go-redis/redis/v8"
)

const defaultKeyPrefix = "tt:"

// UserCache реализует ports.UserCache поверх Redis.
// Хеш пароля в кеш не попадает: domain.User не сериализует его в JSON.
type UserCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger
}

// NewClient разбирает REDIS_URL и проверяет соединение
func NewClient(ctx context.Context, url string, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("некорректный REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.Error("failed to ping Redis", "addr", opts.Addr, "error", err)
		return nil, fmt.Errorf("redis недоступен: %w", err)
	}
	logger.Info("Redis connection established", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}

// NewUserCache создаёт кеш с заданным TTL записей
func NewUserCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *UserCache {
	return &UserCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
		logger:    logger,
	}
}

func (c *UserCache) userKey(email string) string {
	return c.keyPrefix + "user:" + email
}

// GetUser возвращает (nil, nil) при промахе
func (c *UserCache) GetUser(ctx context.Context, email string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.userKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get user: %w", err)
	}
	return decodeUser(raw)
}

func (c *UserCache) SetUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal cached user: %w", err)
	}
	if err := c.client.Set(ctx, c.userKey(user.Email), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set user: %w", err)
	}
	c.logger.Debug("user cached", "user_id", user.ID, "ttl", c.ttl)
	return nil
}

func decodeUser(raw []byte) (*domain.User, error) {
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("unmarshal cached user: %w", err)
	}
	return &user, nil
}
