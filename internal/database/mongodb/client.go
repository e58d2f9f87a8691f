// Package mongodb — документное хранилище (STORAGE_DRIVER=mongo).
// Документы используют строковый id приложения, _id Mongo не используется.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Имена коллекций
const (
	usersCollection       = "users"
	recipesCollection     = "recipes"
	restaurantsCollection = "restaurants"
	reviewsCollection     = "reviews"
)

const connectTimeout = 10 * time.Second

// Client держит подключение к MongoDB и выбранную базу
type Client struct {
	client *mongo.Client
	DB     *mongo.Database
	logger *slog.Logger
}

// NewClient подключается к MongoDB, проверяет связь и создаёт индексы
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URL))
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		return nil, fmt.Errorf("ошибка подключения к MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("failed to ping MongoDB", "error", err)
		return nil, fmt.Errorf("MongoDB недоступна: %w", err)
	}

	c := &Client{client: client, DB: client.Database(cfg.Mongo.Database), logger: logger}
	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("MongoDB connection established successfully",
		"database", cfg.Mongo.Database,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return c, nil
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		recipesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: 1}}},
		},
		restaurantsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := c.DB.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			c.logger.Error("failed to create indexes", "collection", name, "error", err)
			return fmt.Errorf("создание индексов %s: %w", name, err)
		}
	}
	return nil
}

// Close закрывает подключение
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := c.client.Disconnect(ctx); err != nil {
		c.logger.Error("failed to disconnect from MongoDB", "error", err)
		return err
	}
	c.logger.Info("MongoDB connection closed")
	return nil
}
