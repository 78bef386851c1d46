package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverSheets = "sheets"
	StoreDriverMemory = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Sheets    SheetsConfig
	Register  RegisterConfig
	Session   SessionConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
	WhatsApp  WhatsAppConfig
	LogLevel  string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig selects the visitor record backend. The staff pair seeds the
// memory driver, which has no credentials tab.
type StoreConfig struct {
	Driver            string
	StaffUsername     string
	StaffPasswordHash string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath  string
	SpreadsheetID    string
	VisitorSheet     string
	CredentialsSheet string
}

// RegisterConfig holds the front desk settings shared by the check-in and check-out flows.
type RegisterConfig struct {
	Timezone    string
	PaymentKey  string
	PhoneRegion string
}

// SessionConfig controls operator session persistence.
type SessionConfig struct {
	TTL       time.Duration
	RedisAddr string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
}

// MongoDBConfig holds settings for the daily summary archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used to
// deliver the closing summary.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether every field needed to send messages is present.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.ManagerID != ""
}

// Location resolves the configured operator timezone.
func (r RegisterConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", r.Timezone, err)
	}
	return loc, nil
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
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	ttl, err := time.ParseDuration(getenvWithDefault("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Driver:            strings.ToLower(getenvWithDefault("STORE_DRIVER", StoreDriverSheets)),
			StaffUsername:     os.Getenv("STAFF_USERNAME"),
			StaffPasswordHash: os.Getenv("STAFF_PASSWORD_HASH"),
		},
		Sheets: SheetsConfig{
			CredentialsPath:  os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:    os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			VisitorSheet:     os.Getenv("VISITOR_SHEET"),
			CredentialsSheet: getenvWithDefault("CREDENTIALS_SHEET", "Credentials"),
		},
		Register: RegisterConfig{
			Timezone:    getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
			PaymentKey:  getenvWithDefault("PAYMENT_KEY", "39410752000166"),
			PhoneRegion: getenvWithDefault("PHONE_REGION", "BR"),
		},
		Session: SessionConfig{
			TTL:       ttl,
			RedisAddr: os.Getenv("REDIS_ADDR"),
		},
		Reporting: ReportingConfig{
			CronSchedule: os.Getenv("REPORT_CRON_SCHEDULE"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "portaria"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
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

	switch c.Store.Driver {
	case StoreDriverSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
		if c.Sheets.CredentialsSheet == "" {
			return errors.New("CREDENTIALS_SHEET must not be empty")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER %q is not supported", c.Store.Driver)
	}

	if c.Register.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := c.Register.Location(); err != nil {
		return err
	}

	if c.Register.PaymentKey == "" {
		return errors.New("PAYMENT_KEY must not be empty")
	}

	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if c.Reporting.CronSchedule != "" && c.MongoDB.URI == "" && !c.WhatsApp.Enabled() {
		return errors.New("REPORT_CRON_SCHEDULE requires MONGODB_URI or the WHATSAPP_* settings")
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
