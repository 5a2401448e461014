package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Bridge transports
const (
	BridgeLocal = "local"
	BridgeRedis = "redis"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Remote API
	APIURL     string        `mapstructure:"HOTEL_API_URL"`
	APITimeout time.Duration `mapstructure:"HOTEL_API_TIMEOUT"`

	// Persisted store
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	StoreDir     string `mapstructure:"STORE_DIR"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	DBDSN        string `mapstructure:"DB_DSN"`

	// Cross-tab bridge
	Bridge        string `mapstructure:"BRIDGE"`
	BridgeChannel string `mapstructure:"BRIDGE_CHANNEL"`

	SyncInterval time.Duration `mapstructure:"SYNC_INTERVAL"`
	PaymentDelay time.Duration `mapstructure:"PAYMENT_DELAY"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	// Notifications, both optional
	TelegramToken       string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramAdminChatID int64  `mapstructure:"TELEGRAM_ADMIN_CHAT_ID"`
	SMTPHost            string `mapstructure:"SMTP_HOST"`
	SMTPPort            int    `mapstructure:"SMTP_PORT"`
	SMTPUsername        string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword        string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom            string `mapstructure:"SMTP_FROM"`
	AdminEmail          string `mapstructure:"ADMIN_EMAIL"`

	// Demo backend
	HTTPAddr    string   `mapstructure:"HTTP_ADDR"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}
	return FromEnv()
}

// FromEnv reads the process environment, applies defaults and checks
// the settings that depend on each other.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:   getenv("ENV", "development"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		APIURL:        getenv("HOTEL_API_URL", "http://localhost:8080/api"),
		StoreBackend:  strings.ToLower(getenv("STORE_BACKEND", StoreFile)),
		StoreDir:      getenv("STORE_DIR", "./data"),
		RedisURL:      os.Getenv("REDIS_URL"),
		DBDSN:         os.Getenv("DB_DSN"),
		Bridge:        strings.ToLower(getenv("BRIDGE", BridgeLocal)),
		BridgeChannel: getenv("BRIDGE_CHANNEL", "hotel-data-update"),
		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:      getenv("SMTP_FROM", "noreply@zenstay.com"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),
	}

	var err error
	if cfg.APITimeout, err = durationEnv("HOTEL_API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SyncInterval, err = durationEnv("SYNC_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PaymentDelay, err = durationEnv("PAYMENT_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = intEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	chatID, err := intEnv("TELEGRAM_ADMIN_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}
	cfg.TelegramAdminChatID = int64(chatID)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("parse LOG_LEVEL: %w", err)
		}
	}

	switch c.StoreBackend {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for STORE_BACKEND=redis")
		}
	case StorePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.Bridge {
	case BridgeLocal:
	case BridgeRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for BRIDGE=redis")
		}
	default:
		return fmt.Errorf("unknown BRIDGE %q", c.Bridge)
	}

	if c.TelegramToken != "" && c.TelegramAdminChatID == 0 {
		return fmt.Errorf("TELEGRAM_ADMIN_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsProduction selects the production logger.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MailEnabled reports whether guest emails can be sent.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// TelegramEnabled reports whether the admin bot runs.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
