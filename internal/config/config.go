package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DATA_SOURCE.
const (
	SourceWorkbook     = "workbook"
	SourceGoogleSheets = "gsheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Auth      AuthConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
	MongoDB   MongoDBConfig
	LogLevel  string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DataConfig describes where shipment rows come from and how long the
// derived dataset stays cached.
type DataConfig struct {
	Source       string
	WorkbookPath string
	SheetPortA   string
	PortAName    string
	SheetPortB   string
	PortBName    string
	CacheTTL     time.Duration
}

// AuthConfig holds the shared dashboard password and the session signing key.
type AuthConfig struct {
	Password      string
	SessionSecret string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ReportingConfig holds scheduler-related settings. An empty schedule
// disables the matching job.
type ReportingConfig struct {
	RefreshSchedule string
	DigestSchedule  string
	Timezone        string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used to
// push the season digest.
type WhatsAppConfig struct {
	AccessToken     string
	PhoneNumberID   string
	BaseURL         string
	APIVersion      string
	DigestRecipient string
}

// Enabled reports whether enough credentials are present to send messages.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.DigestRecipient != ""
}

// MongoDBConfig holds settings for the optional snapshot archive.
type MongoDBConfig struct {
	URI    string
	DBName string
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
		// Missing .env files are fine when the environment is set directly.
		_ = godotenv.Load()
	}

	ttl, err := time.ParseDuration(getenvWithDefault("CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Data: DataConfig{
			Source:       getenvWithDefault("DATA_SOURCE", SourceWorkbook),
			WorkbookPath: getenvWithDefault("WORKBOOK_PATH", "DB - Cocoa CIV - Shipping 20212022.xlsx"),
			SheetPortA:   getenvWithDefault("SHEET_PORT_A", "DB ABJ"),
			PortAName:    getenvWithDefault("PORT_A_NAME", "ABIDJAN"),
			SheetPortB:   getenvWithDefault("SHEET_PORT_B", "DB SP"),
			PortBName:    getenvWithDefault("PORT_B_NAME", "SAN PEDRO"),
			CacheTTL:     ttl,
		},
		Auth: AuthConfig{
			Password:      os.Getenv("DASHBOARD_PASSWORD"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			RefreshSchedule: os.Getenv("REFRESH_CRON_SCHEDULE"),
			DigestSchedule:  getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:        getenvWithDefault("TIMEZONE", "Africa/Abidjan"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:     os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:   os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:         getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:      getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			DigestRecipient: os.Getenv("WHATSAPP_DIGEST_RECIPIENT"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "cacao"),
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

	if c.Auth.Password == "" {
		return errors.New("DASHBOARD_PASSWORD must be provided")
	}

	if c.Data.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}

	switch {
	case c.Data.SheetPortA == "" || c.Data.SheetPortB == "":
		return errors.New("SHEET_PORT_A and SHEET_PORT_B must not be empty")
	case c.Data.PortAName == "" || c.Data.PortBName == "":
		return errors.New("PORT_A_NAME and PORT_B_NAME must not be empty")
	}

	switch c.Data.Source {
	case SourceWorkbook:
		if c.Data.WorkbookPath == "" {
			return errors.New("WORKBOOK_PATH must be provided")
		}
	case SourceGoogleSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	default:
		return fmt.Errorf("unsupported DATA_SOURCE %q", c.Data.Source)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
