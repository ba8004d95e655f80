package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Payout    PayoutConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Migration MigrationConfig
}

type AppConfig struct {
	Port         string
	Env          string
	CORSOrigin   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// PayoutConfig holds the defaults used when deriving and exporting payouts.
type PayoutConfig struct {
	DefaultCommissionPercentage float64
	ExportLocation              *time.Location
}

type KafkaConfig struct {
	Brokers            []string
	NotificationsTopic string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type CacheConfig struct {
	ProviderPoolTTL time.Duration
}

type MigrationConfig struct {
	SourceURL  string
	RunOnStart bool
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Container deployments pass everything through the environment.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	exportLocation, err := time.LoadLocation(viper.GetString("PAYOUT_EXPORT_TIMEZONE"))
	if err != nil {
		exportLocation = time.UTC
	}

	config := &Config{
		App: AppConfig{
			Port:         viper.GetString("APP_PORT"),
			Env:          viper.GetString("APP_ENV"),
			CORSOrigin:   viper.GetString("APP_CORS_ORIGIN"),
			ReadTimeout:  viper.GetDuration("APP_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("APP_WRITE_TIMEOUT"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Payout: PayoutConfig{
			DefaultCommissionPercentage: viper.GetFloat64("PAYOUT_DEFAULT_COMMISSION"),
			ExportLocation:              exportLocation,
		},
		Kafka: KafkaConfig{
			Brokers:            splitList(viper.GetString("KAFKA_BROKERS")),
			NotificationsTopic: viper.GetString("KAFKA_TOPIC_NOTIFICATIONS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
		Cache: CacheConfig{
			ProviderPoolTTL: viper.GetDuration("CACHE_PROVIDER_POOL_TTL"),
		},
		Migration: MigrationConfig{
			SourceURL:  viper.GetString("MIGRATIONS_SOURCE"),
			RunOnStart: viper.GetBool("MIGRATIONS_RUN_ON_START"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_CORS_ORIGIN", "*")
	viper.SetDefault("APP_READ_TIMEOUT", "15s")
	viper.SetDefault("APP_WRITE_TIMEOUT", "30s")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("PAYOUT_DEFAULT_COMMISSION", 15)
	viper.SetDefault("PAYOUT_EXPORT_TIMEZONE", "UTC")
	viper.SetDefault("KAFKA_TOPIC_NOTIFICATIONS", "longa.booking-events")
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("CACHE_PROVIDER_POOL_TTL", "1m")
	viper.SetDefault("MIGRATIONS_SOURCE", "file://migrations")
	viper.SetDefault("MIGRATIONS_RUN_ON_START", true)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
