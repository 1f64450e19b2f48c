package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// DefaultConfigFile is the config file looked up in the working directory.
	DefaultConfigFile = "bibtidy.yml"
	// ConfigEnvVar overrides the config file location.
	ConfigEnvVar = "BIBTIDY_CONFIG"
	// EnvFile is loaded from the working directory before reading ConfigEnvVar.
	EnvFile = ".env"
)

// ResolvePath returns the config file to load. An explicit path wins, then
// BIBTIDY_CONFIG (a .env file in the working directory may set it), then
// bibtidy.yml in the working directory.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return ExpandPath(explicit)
	}

	// Missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load(EnvFile)

	if p := os.Getenv(ConfigEnvVar); p != "" {
		return ExpandPath(p)
	}
	return DefaultConfigFile
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
