package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinPBKDF2Iterations is the floor for the password KDF. Configs below it
// fail validation rather than silently weakening stored hashes.
const MinPBKDF2Iterations = 100_000

type Config struct {
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type DatabaseConfig struct {
	// Path to the SQLite file. The parent directory is created on open.
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

type SecurityConfig struct {
	PBKDF2Iterations int `mapstructure:"pbkdf2_iterations"`
	SaltLength       int `mapstructure:"salt_length"`
	KeyLength        int `mapstructure:"key_length"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfigFromEnv builds a Config from environment variables, used in
// kiosk deployments where no config file ships with the binary.
func LoadConfigFromEnv() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        getEnv("DATABASE_PATH", "data/photoid_studio.db"),
			BusyTimeout: time.Duration(getEnvAsInt("DATABASE_BUSY_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
		Security: SecurityConfig{
			PBKDF2Iterations: getEnvAsInt("SECURITY_PBKDF2_ITERATIONS", MinPBKDF2Iterations),
			SaltLength:       getEnvAsInt("SECURITY_SALT_LENGTH", 32),
			KeyLength:        getEnvAsInt("SECURITY_KEY_LENGTH", 32),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func (c *Config) Validate() error {
	var errs []string

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Path == "" {
		return errors.New("path is required")
	}
	if c.BusyTimeout < 0 {
		return errors.New("busy_timeout cannot be negative")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if c.PBKDF2Iterations < MinPBKDF2Iterations {
		return fmt.Errorf("pbkdf2_iterations must be at least %d", MinPBKDF2Iterations)
	}
	if c.SaltLength < 16 {
		return errors.New("salt_length must be at least 16 bytes")
	}
	if c.KeyLength < 32 {
		return errors.New("key_length must be at least 32 bytes")
	}
	return nil
}
