package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvS2APIKey = "S2_API_KEY"
	EnvLogLevel = "PAPERNET_LOG_LEVEL"
)

// LoadEnv loads .env files from the repository root and the working
// directory. Variables already set in the process environment win, and
// missing files are ignored.
func LoadEnv(root string) {
	paths := []string{EnvFile}
	if root != "" {
		paths = append([]string{filepath.Join(root, EnvFile)}, paths...)
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// ApplyEnv overrides file settings with environment variables.
func (c *Config) ApplyEnv() {
	c.S2.APIKey = GetConfigValue(EnvS2APIKey, c.S2.APIKey)
	c.Log.Level = GetConfigValue(EnvLogLevel, c.Log.Level)
}

// GetConfigValue returns the environment value for key when set, otherwise fallback.
func GetConfigValue(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
