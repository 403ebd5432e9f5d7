// Package config resolves CVP connection settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when neither flags nor environment provide a value.
const (
	DefaultPort      = 443
	DefaultProto     = "https"
	DefaultLogLevel  = "info"
	DefaultTimezone  = "Europe/Paris"
	DefaultCountry   = "France"
	DefaultBackupDir = "configlets_backup"
)

// Config holds the resolved settings for one invocation. CLI flags are merged
// on top by the command layer before Validate is called.
type Config struct {
	Host      string
	Port      int
	Proto     string
	User      string
	Pass      string
	LogLevel  string
	Timezone  string
	Country   string
	VerifyTLS bool
	BackupDir string
}

// Load reads a .env file from the working directory when present, then
// resolves every setting from the environment with defaults for missing
// values.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	port, err := getenvInt("CVP_PORT", DefaultPort)
	if err != nil {
		return nil, err
	}
	verify, err := getenvBool("CERT_VALIDATION", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Host:      os.Getenv("CVP_HOST"),
		Port:      port,
		Proto:     getenv("CVP_PROTO", DefaultProto),
		User:      os.Getenv("CVP_USER"),
		Pass:      os.Getenv("CVP_PASS"),
		LogLevel:  getenv("LOG_LEVEL", DefaultLogLevel),
		Timezone:  getenv("CVP_TZ", DefaultTimezone),
		Country:   getenv("TZ_COUNTRY", DefaultCountry),
		VerifyTLS: verify,
		BackupDir: getenv("CVP_BACKUP", DefaultBackupDir),
	}, nil
}

// Validate checks that the settings are sufficient to open a session.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing CVP host: set CVP_HOST or use --cvp")
	}
	if c.User == "" {
		return fmt.Errorf("missing CVP username: set CVP_USER or use --username")
	}
	if c.Pass == "" {
		return fmt.Errorf("missing CVP password: set CVP_PASS or use --password")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid CVP port %d", c.Port)
	}
	if c.Proto != "http" && c.Proto != "https" {
		return fmt.Errorf("invalid CVP protocol %q: must be http or https", c.Proto)
	}
	return nil
}

// Endpoint returns the base URL of the configured server.
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s://%s:%d", c.Proto, c.Host, c.Port)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
