package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	HTTPAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Telegram; the bot is disabled when empty.
	BotToken string

	// Lookup tables
	RulesPath  string // YAML override, built-in tables when empty
	RulesWatch bool

	RecomputeSchedule string // cron spec, seconds first

	// Google Sheets
	GoogleCredentialsPath string
	GoogleSpreadsheetID   string // publishing disabled when empty

	LogLevel    string
	LogDev      bool
	DefaultLang string
}

// Load reads the configuration from environment variables, falling back to a
// .env file in the working directory.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is not an error;
// real environment variables always win over the file.
func LoadFile(path string) (*Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		env = make(map[string]string)
	}

	getEnv := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		if value, ok := env[key]; ok && value != "" {
			return value
		}
		return defaultValue
	}
	getBool := func(key string, defaultValue bool) bool {
		v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
		if err != nil {
			return defaultValue
		}
		return v
	}

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "postgres"),

		BotToken: getEnv("BOT_TOKEN", ""),

		RulesPath:  getEnv("RULES_PATH", ""),
		RulesWatch: getBool("RULES_WATCH", true),

		RecomputeSchedule: getEnv("RECOMPUTE_SCHEDULE", "0 0 3 * * *"),

		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", "google-credentials.json"),
		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogDev:      getBool("LOG_DEV", false),
		DefaultLang: strings.ToLower(getEnv("DEFAULT_LANG", "es")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("HTTP_ADDR is empty"))
	}
	if _, err := strconv.Atoi(c.DBPort); err != nil {
		errs = append(errs, fmt.Errorf("DB_PORT %q is not a number", c.DBPort))
	}
	return errors.Join(errs...)
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
