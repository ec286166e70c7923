// Package config loads service settings from BOOKING_-prefixed environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/trattoria-luca/service-booking/internal/platform/database"
)

// EnvPrefix is prepended to every key except the Telegram credentials.
const EnvPrefix = "BOOKING"

// RedisConfig holds draft-session storage settings.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	DraftTTL  time.Duration
	LockTTL   time.Duration
	NoticeTTL time.Duration
}

// KafkaConfig holds event stream settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
	Topic       string
}

// TelegramConfig holds operator alert settings. Missing credentials are
// reported when an alert is sent, not at startup.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	Timezone    string
	Location    *time.Location
	CatalogPath string
	DBConfig    database.PostgresConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Telegram    TelegramConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("TIMEZONE", "Asia/Singapore")
	v.SetDefault("CATALOG_PATH", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "booking_db")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_DRAFT_TTL", "24h")
	v.SetDefault("REDIS_LOCK_TTL", "30s")
	v.SetDefault("REDIS_NOTICE_TTL", "24h")

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "trattoria-")
	v.SetDefault("KAFKA_TOPIC", "booking.events")

	v.SetDefault("TELEGRAM_API_URL", "https://api.telegram.org")
}

// Load reads configuration from the environment.
func Load() (*ServiceConfig, error) {
	return LoadWithPath(".env")
}

// LoadWithPath reads configuration from the environment, layered over the
// given .env file when it exists.
func LoadWithPath(path string) (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
		}
	}

	// The Telegram credentials keep their unprefixed names.
	_ = v.BindEnv("TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")

	setDefaults(v)

	cfg := &ServiceConfig{
		Port:        servicePort(v.GetString("SERVICE_PORT")),
		AppEnv:      v.GetString("APP_ENV"),
		Timezone:    v.GetString("TIMEZONE"),
		CatalogPath: v.GetString("CATALOG_PATH"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("REDIS_ADDR"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			DraftTTL:  v.GetDuration("REDIS_DRAFT_TTL"),
			LockTTL:   v.GetDuration("REDIS_LOCK_TTL"),
			NoticeTTL: v.GetDuration("REDIS_NOTICE_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
			Topic:       v.GetString("KAFKA_TOPIC"),
		},
		Telegram: TelegramConfig{
			BotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID:   v.GetString("TELEGRAM_CHAT_ID"),
			BaseURL:  v.GetString("TELEGRAM_API_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings and resolves the timezone.
func (c *ServiceConfig) Validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc

	if c.DBConfig.Host == "" || c.DBConfig.DBName == "" {
		return errors.New("database host and name are required")
	}
	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}
	if c.Redis.DraftTTL <= 0 || c.Redis.LockTTL <= 0 || c.Redis.NoticeTTL <= 0 {
		return errors.New("redis TTLs must be positive")
	}
	if len(c.Kafka.Brokers) == 0 {
		return errors.New("at least one kafka broker is required")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func servicePort(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
