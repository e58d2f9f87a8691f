package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/GoArmGo/TastyTrail/internal/adapter/storage/minio"
	"github.com/GoArmGo/TastyTrail/internal/app"
	"github.com/GoArmGo/TastyTrail/internal/auth"
	"github.com/GoArmGo/TastyTrail/internal/cache/redis"
	"github.com/GoArmGo/TastyTrail/internal/config"
	"github.com/GoArmGo/TastyTrail/internal/core/ports"
	"github.com/GoArmGo/TastyTrail/internal/database/client"
	"github.com/GoArmGo/TastyTrail/internal/database/memory"
	"github.com/GoArmGo/TastyTrail/internal/database/mongodb"
	"github.com/GoArmGo/TastyTrail/internal/database/storage"
	"github.com/GoArmGo/TastyTrail/internal/logger"
	"github.com/GoArmGo/TastyTrail/internal/metrics"
	"github.com/GoArmGo/TastyTrail/internal/rabbitmq"
	"github.com/GoArmGo/TastyTrail/internal/usecase"
)

// storages — набор хранилищ выбранного драйвера
type storages struct {
	users       ports.UserStorage
	recipes     ports.RecipeStorage
	restaurants ports.RestaurantStorage
	reviews     ports.ReviewStorage
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []io.Closer
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}

	// 2. Хранилища
	st, closer, err := buildStorages(ctx, cfg, slogger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closer)

	// 3. Объектное хранилище для медиа (опционально)
	var files ports.FileStorage
	if cfg.MediaStorageEnabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			return fail(err)
		}
		files = minioClient
	}

	// 4. RabbitMQ (опционально)
	var (
		publisher ports.ReviewEventPublisher
		consumer  ports.ReviewEventConsumer
	)
	if cfg.EventsEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rabbitMQClient)
		publisher = rabbitMQClient
		consumer = rabbitMQClient
	}

	// 5. Кеш пользователей в Redis (опционально)
	var userCache ports.UserCache
	if cfg.UserCacheEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.Redis.URL, slogger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, redisClient)
		userCache = redis.NewUserCache(redisClient, cfg.Redis.UserCacheTTL, slogger)
	}

	// 6. Токены и пароли
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fail(fmt.Errorf("token service: %w", err))
	}
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	// 7. Бизнес-логика
	media := usecase.NewMediaIngestor(files, slogger)
	deps := app.Dependencies{
		Auth:           usecase.NewAuthUseCase(st.users, hasher, tokens, cfg.Auth.TokenTTL, slogger),
		Recipes:        usecase.NewRecipeUseCase(st.recipes, media, slogger),
		Restaurants:    usecase.NewRestaurantUseCase(st.restaurants, st.reviews, media, publisher, slogger),
		Sessions:       auth.NewSessionResolver(tokens, st.users, userCache, slogger),
		Metrics:        metrics.NewRegistry(),
		ReviewConsumer: consumer,
		Closers:        closers,
	}

	slogger.Info("dependencies initialized",
		"storage", cfg.StorageDriver,
		"media_storage", cfg.MediaStorageEnabled(),
		"events", cfg.EventsEnabled(),
		"user_cache", cfg.UserCacheEnabled(),
	)
	return app.NewApp(cfg, slogger, deps), nil
}

func buildStorages(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storages, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		dbClient, err := client.NewClient(cfg, logger)
		if err != nil {
			return storages{}, nil, err
		}
		return storages{
			users:       storage.NewUserStorage(dbClient.DB, logger),
			recipes:     storage.NewRecipeStorage(dbClient.DB, logger),
			restaurants: storage.NewRestaurantStorage(dbClient.DB, logger),
			reviews:     storage.NewReviewStorage(dbClient.DB, logger),
		}, dbClient, nil

	case config.StorageDriverMongo:
		mongoClient, err := mongodb.NewClient(ctx, cfg, logger)
		if err != nil {
			return storages{}, nil, err
		}
		return storages{
			users:       mongodb.NewUserStorage(mongoClient.DB, logger),
			recipes:     mongodb.NewRecipeStorage(mongoClient.DB, logger),
			restaurants: mongodb.NewRestaurantStorage(mongoClient.DB, logger),
			reviews:     mongodb.NewReviewStorage(mongoClient.DB, logger),
		}, mongoClient, nil

	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return storages{
			users:       store,
			recipes:     store,
			restaurants: store,
			reviews:     store,
		}, store, nil

	default:
		return storages{}, nil, errors.New("unknown storage driver: " + cfg.StorageDriver)
	}
}
