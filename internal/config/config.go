// Package config loads client settings from the environment. A Config is
// read once at startup and treated as immutable.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the client settings.
type Config struct {
	// ServerURL is the root of the blog-listing service.
	ServerURL string
	// DBPath is the SQLite file holding the durable session slot.
	DBPath string

	HTTPTimeout time.Duration

	LogLevel string
	// LogFile is where logs go; empty means stderr.
	LogFile string
}

// Load reads the configuration from environment variables, applying
// defaults for anything unset or unparseable.
func Load() *Config {
	return &Config{
		ServerURL:   strings.TrimRight(getEnvString("BLOGLIST_URL", "http://localhost:3003"), "/"),
		DBPath:      getEnvString("BLOGLIST_DB", defaultDBPath()),
		HTTPTimeout: getEnvDuration("BLOGLIST_HTTP_TIMEOUT", 10*time.Second),
		LogLevel:    getEnvString("BLOGLIST_LOG_LEVEL", "warn"),
		LogFile:     getEnvString("BLOGLIST_LOG_FILE", ""),
	}
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bloglist", "client.db")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
