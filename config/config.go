// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// MaxGeminiKeys is the number of numbered GEMINI_API_KEY_n variables read.
const MaxGeminiKeys = 4

type Config struct {
	// Database
	Driver      string `validate:"oneof=postgres pgx sqlite3"`
	DatabaseURL string
	DBHost      string
	DBPort      string `validate:"omitempty,numeric"`
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	DBPath      string `validate:"required_if=Driver sqlite3"`
	Table       string `validate:"required"`

	ExportPrefix string `validate:"required"`
	WorkerCount  int    `validate:"min=1,max=64"`
	LogLevel     string `validate:"oneof=debug info warn warning error"`

	// Natural-language queries
	GeminiKeys  []string
	GeminiModel string `validate:"required"`
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds and validates a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Driver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "hirehub"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		DBPath:       getEnv("DB_PATH", "hirehub.db"),
		Table:        getEnv("HIREHUB_TABLE", "hirehubdata_cleaned"),
		ExportPrefix: getEnv("EXPORT_PREFIX", "hirehub_export"),
		WorkerCount:  getEnvInt("WORKER_COUNT", 4),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		GeminiKeys:   geminiKeys(),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DSN is the data source name handed to sql.Open for the configured driver.
func (c *Config) DSN() string {
	if c.Driver == "sqlite3" {
		return c.DBPath
	}
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, quoteDSNValue(c.DBPassword), c.DBName, c.DBSSLMode)
}

// Redacted describes the target without credentials, for logs.
func (c *Config) Redacted() string {
	if c.Driver == "sqlite3" {
		return c.DBPath
	}
	if c.DatabaseURL != "" {
		if u, err := url.Parse(c.DatabaseURL); err == nil {
			return u.Redacted()
		}
		return "(database url)"
	}
	return fmt.Sprintf("%s@%s:%s/%s", c.DBUser, c.DBHost, c.DBPort, c.DBName)
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// geminiKeys collects GEMINI_API_KEY followed by GEMINI_API_KEY_1..n,
// skipping blanks and duplicates.
func geminiKeys() []string {
	var keys []string
	seen := map[string]bool{}
	add := func(k string) {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		keys = append(keys, k)
	}
	add(os.Getenv("GEMINI_API_KEY"))
	for i := 1; i <= MaxGeminiKeys; i++ {
		add(os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i)))
	}
	return keys
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}
