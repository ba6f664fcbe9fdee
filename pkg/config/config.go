package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database           DatabaseConfig
	Redis              RedisConfig
	JWT                JWTConfig
	CORS               CORSConfig
	Log                LogConfig
	UsersCache         UsersCacheConfig
	Directory          DirectoryConfig
	RegistrationEvents RegistrationEventsConfig
	RabbitMQ           RabbitMQConfig
	Migrations         MigrationsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UsersCacheConfig controls the Redis-backed cache for user list pages.
type UsersCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// DirectoryConfig configures the directory client used by yupictl.
type DirectoryConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	PageSize       int
	SearchDebounce time.Duration
}

// RegistrationEventsConfig toggles publishing of registration review events.
type RegistrationEventsConfig struct {
	Enabled    bool
	Queue      string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// RabbitMQConfig holds broker connection settings.
type RabbitMQConfig struct {
	URL             string
	PrefetchCount   int
	QueueDurable    bool
	QueueAutoDelete bool
}

// MigrationsConfig points at the SQL migration sources.
type MigrationsConfig struct {
	Path string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.UsersCache = UsersCacheConfig{
		Enabled: v.GetBool("USERS_CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("USERS_CACHE_TTL"), time.Minute),
	}

	pageSize := v.GetInt("DIRECTORY_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 10
	}
	cfg.Directory = DirectoryConfig{
		BaseURL:        strings.TrimRight(v.GetString("DIRECTORY_BASE_URL"), "/"),
		Token:          v.GetString("DIRECTORY_TOKEN"),
		Timeout:        parseDuration(v.GetString("DIRECTORY_TIMEOUT"), 10*time.Second),
		PageSize:       pageSize,
		SearchDebounce: parseDuration(v.GetString("DIRECTORY_SEARCH_DEBOUNCE"), 300*time.Millisecond),
	}

	cfg.RegistrationEvents = RegistrationEventsConfig{
		Enabled:    v.GetBool("REGISTRATION_EVENTS_ENABLED"),
		Queue:      v.GetString("REGISTRATION_EVENTS_QUEUE"),
		Workers:    v.GetInt("REGISTRATION_EVENTS_WORKERS"),
		MaxRetries: v.GetInt("REGISTRATION_EVENTS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("REGISTRATION_EVENTS_RETRY_DELAY"), 2*time.Second),
	}

	cfg.RabbitMQ = RabbitMQConfig{
		URL:             v.GetString("RABBITMQ_URL"),
		PrefetchCount:   v.GetInt("RABBITMQ_PREFETCH"),
		QueueDurable:    v.GetBool("RABBITMQ_QUEUE_DURABLE"),
		QueueAutoDelete: v.GetBool("RABBITMQ_QUEUE_AUTO_DELETE"),
	}

	cfg.Migrations = MigrationsConfig{Path: v.GetString("MIGRATIONS_PATH")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "yupiflow")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "yupiflow-admin")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("USERS_CACHE_ENABLED", false)
	v.SetDefault("USERS_CACHE_TTL", "1m")

	v.SetDefault("DIRECTORY_BASE_URL", "http://localhost:8080/api/v1")
	v.SetDefault("DIRECTORY_TOKEN", "")
	v.SetDefault("DIRECTORY_TIMEOUT", "10s")
	v.SetDefault("DIRECTORY_PAGE_SIZE", 10)
	v.SetDefault("DIRECTORY_SEARCH_DEBOUNCE", "300ms")

	v.SetDefault("REGISTRATION_EVENTS_ENABLED", false)
	v.SetDefault("REGISTRATION_EVENTS_QUEUE", "registrations.reviewed")
	v.SetDefault("REGISTRATION_EVENTS_WORKERS", 1)
	v.SetDefault("REGISTRATION_EVENTS_MAX_RETRIES", 3)
	v.SetDefault("REGISTRATION_EVENTS_RETRY_DELAY", "2s")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_PREFETCH", 10)
	v.SetDefault("RABBITMQ_QUEUE_DURABLE", true)
	v.SetDefault("RABBITMQ_QUEUE_AUTO_DELETE", false)

	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
