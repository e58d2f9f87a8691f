package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Поддерживаемые драйверы хранилища
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
	StorageDriverMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`

	// Список origin через запятую; "*" разрешает любой origin, но без credentials
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// postgres | mongo | memory
	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://internal/database/migrations"`

	Mongo struct {
		URL      string `env:"MONGO_URL"`
		Database string `env:"MONGO_DB" envDefault:"tasty_trail"`
	}

	// Секрет подписи токенов берётся только из окружения
	Auth struct {
		JWTSecret  string        `env:"JWT_SECRET,required"`
		TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"30m"`
		BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
	}

	// Настройки для MinIO. Пустой endpoint отключает загрузку медиа в объектное хранилище.
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"tasty-trail-media"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioPublicURL       string `env:"MINIO_PUBLIC_URL"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"review_events"`
	}

	Redis struct {
		URL          string        `env:"REDIS_URL"`
		UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет зависимости между полями, которые не выразить тегами env.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when STORAGE_DRIVER=%s", StorageDriverPostgres)
		}
	case StorageDriverMongo:
		if c.Mongo.URL == "" {
			return fmt.Errorf("MONGO_URL must be set when STORAGE_DRIVER=%s", StorageDriverMongo)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (use postgres, mongo or memory)", c.StorageDriver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	if c.MediaStorageEnabled() && (c.MinioAccessKeyID == "" || c.MinioSecretAccessKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY_ID and MINIO_SECRET_ACCESS_KEY must be set when MINIO_ENDPOINT is set")
	}
	return nil
}

// CORSAllowCredentials сообщает, можно ли отдавать Access-Control-Allow-Credentials:
// только для явного списка origin, без "*".
func (c *Config) CORSAllowCredentials() bool {
	if len(c.CORSAllowedOrigins) == 0 {
		return false
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin == "*" {
			return false
		}
	}
	return true
}

// MediaStorageEnabled сообщает, настроено ли объектное хранилище для медиафайлов.
func (c *Config) MediaStorageEnabled() bool {
	return c.MinioEndpoint != ""
}

// EventsEnabled сообщает, настроен ли RabbitMQ для событий об отзывах.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}

// UserCacheEnabled сообщает, настроен ли Redis для кеша пользователей.
func (c *Config) UserCacheEnabled() bool {
	return c.Redis.URL != ""
}
