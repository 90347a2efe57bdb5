package app

import (
	"errors"
	"time"

	"github.com/md-rashed-zaman/courtreserve/libs/config"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"reservation-service"`
	Port        string `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"60m"`
	HoldMinutes    int           `envconfig:"RESERVATION_HOLD_MINUTES" default:"15"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`

	RedisAddr          string `envconfig:"REDIS_ADDR"`
	RedisPassword      string `envconfig:"REDIS_PASSWORD"`
	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`

	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort string `envconfig:"SMTP_PORT" default:"25"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"reservas@reservatenis.com"`

	SMSWebhookURL   string `envconfig:"SMS_WEBHOOK_URL"`
	SMSWebhookToken string `envconfig:"SMS_WEBHOOK_TOKEN"`

	OutboxPollEvery     time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	OutboxBatchSize     int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	OutboxMaxAttempts   int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"10"`
	NotifyInterval      time.Duration `envconfig:"NOTIFY_INTERVAL" default:"5s"`
	NotifyBatchSize     int           `envconfig:"NOTIFY_BATCH_SIZE" default:"20"`
	ExpiryInterval      time.Duration `envconfig:"EXPIRY_INTERVAL" default:"30s"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	ShutdownGracePeriod time.Duration `envconfig:"SHUTDOWN_GRACE_PERIOD" default:"10s"`
}

// Hold is how long a pending reservation holds its slot; zero disables expiry.
func (c Config) Hold() time.Duration {
	return time.Duration(c.HoldMinutes) * time.Minute
}

func LoadConfig(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	if err := config.LoadDotEnv(dotenv...); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := config.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.HoldMinutes < 0 {
		return Config{}, errors.New("RESERVATION_HOLD_MINUTES must not be negative")
	}
	if cfg.RateLimitPerMinute <= 0 {
		return Config{}, errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return cfg, nil
}
