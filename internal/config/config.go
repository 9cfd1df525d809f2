package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"3000"`
	DBDSN   string `envconfig:"DB_DSN" default:"pawmart.db"`
	LogFile string `envconfig:"LOG_FILE"`

	// Auth
	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"12"`

	MaxPageSize int `envconfig:"MAX_PAGE_SIZE" default:"100"`

	// Rate limiting
	RateLimitMax     int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	AuthRateLimitMax int           `envconfig:"AUTH_RATE_LIMIT_MAX" default:"5"`
	RateLimitWindow  time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
	RedisAddr        string        `envconfig:"REDIS_ADDR"`

	// Notifications
	RabbitURL    string `envconfig:"RABBIT_URL"`
	MailExchange string `envconfig:"MAIL_EXCHANGE" default:"pawmart.mail"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@pawmart.local"`

	SeedDemo    bool   `envconfig:"SEED_DEMO" default:"false"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.CORSOrigins = strings.TrimSpace(cfg.CORSOrigins)

	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TOKEN_TTL=%s RATE=%d/%d per %s REDIS=%t RABBIT=%t",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TokenTTL, cfg.RateLimitMax, cfg.AuthRateLimitMax,
		cfg.RateLimitWindow, cfg.RedisAddr != "", cfg.RabbitURL != "")
	return cfg, nil
}
