package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Upload     UploadConfig
	Attendance AttendanceConfig
	Cron       CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Migrate  bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	FrontendURL        string
	StorageDriver      string
	PersistenceTimeout time.Duration
	SeedFile           string
}

type UploadConfig struct {
	BasePath string
	BaseURL  string
}

type AttendanceConfig struct {
	MinDuration time.Duration
}

type CronConfig struct {
	ArchiveInterval time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}
	var err error

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMigrate, err := strconv.ParseBool(getEnv("DB_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "besti"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		Migrate:  dbMigrate,
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	persistenceTimeout, err := getEnvDuration("PERSISTENCE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		FrontendURL:        getEnv("APP_FRONTEND_URL", "http://localhost:3000"),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		PersistenceTimeout: persistenceTimeout,
		SeedFile:           getEnv("SEED_FILE", ""),
	}

	accessExpiration, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	config.Upload = UploadConfig{
		BasePath: getEnv("UPLOAD_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("UPLOAD_BASE_URL", fmt.Sprintf("http://localhost:%d/uploads", appPort)),
	}

	minDuration, err := getEnvDuration("ATTENDANCE_MIN_DURATION", 120*time.Minute)
	if err != nil {
		return nil, err
	}
	config.Attendance = AttendanceConfig{MinDuration: minDuration}

	archiveInterval, err := getEnvDuration("CRON_ARCHIVE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{ArchiveInterval: archiveInterval}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.StorageDriver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.App.PersistenceTimeout <= 0 {
		return fmt.Errorf("PERSISTENCE_TIMEOUT must be positive")
	}
	if c.Attendance.MinDuration < 0 {
		return fmt.Errorf("ATTENDANCE_MIN_DURATION must not be negative")
	}
	if c.Cron.ArchiveInterval <= 0 {
		return fmt.Errorf("CRON_ARCHIVE_INTERVAL must be positive")
	}
	return nil
}

// Location returns the configured timezone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
