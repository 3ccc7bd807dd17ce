package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Telegram  TelegramConfig
	Stock     StockConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
	// Transactions toggles multi-document transactions for the
	// record/void flows. Requires a replica set (Atlas qualifies);
	// when false the writes fall back to sequential updates.
	Transactions bool
}

// AuthConfig carries token signing material and the optional bootstrap
// administrator seeded when the user collection is empty.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	BootstrapUser string
	BootstrapPass string
}

// TelegramConfig contains bot credentials. An empty token disables the
// bot entirely; the rest of the system keeps working.
type TelegramConfig struct {
	Token   string
	ChatID  string
	BaseURL string
}

// StockConfig holds inventory alerting options.
type StockConfig struct {
	LowStockThreshold int
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig configures the optional daily-summary export. Both fields
// empty means the export is off.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes
		// from the environment directly.
		_ = godotenv.Load()
	}

	ttl, err := time.ParseDuration(getenvWithDefault("JWT_TTL", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	threshold, err := strconv.Atoi(getenvWithDefault("LOW_STOCK_THRESHOLD", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOW_STOCK_THRESHOLD: %w", err)
	}

	transactions, err := strconv.ParseBool(getenvWithDefault("MONGODB_TRANSACTIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONGODB_TRANSACTIONS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: []string{getenvWithDefault("UI_ORIGIN", "*")},
		},
		MongoDB: MongoDBConfig{
			URI:          os.Getenv("MONGODB_URI"),
			DBName:       getenvWithDefault("MONGODB_DB_NAME", "miscelanea"),
			Transactions: transactions,
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      ttl,
			BootstrapUser: os.Getenv("ADMIN_BOOTSTRAP_USER"),
			BootstrapPass: os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),
		},
		Telegram: TelegramConfig{
			Token:   os.Getenv("TELEGRAM_TOKEN"),
			ChatID:  os.Getenv("TELEGRAM_CHAT_ID"),
			BaseURL: getenvWithDefault("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		},
		Stock: StockConfig{
			LowStockThreshold: threshold,
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Bogota"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}

	if c.Telegram.Token != "" && c.Telegram.ChatID == "" {
		return errors.New("TELEGRAM_CHAT_ID must be provided when TELEGRAM_TOKEN is set")
	}

	if c.Stock.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	// Sheets export is all-or-nothing.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_EXPORT_ID must be set together")
	}

	return nil
}

// SheetsEnabled reports whether the daily export is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

// TelegramEnabled reports whether the bot is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
