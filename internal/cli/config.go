package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration. The API is unauthenticated; the CLI
// remembers which user you are by persisting the user id from the last
// login or register.
type Config struct {
	ServerURL string
	UserID    string
	UserFile  string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("LOBBYCTL_SERVER", "http://localhost:8080"),
		UserID:    os.Getenv("LOBBYCTL_USER"),
		UserFile:  getEnvOrDefault("LOBBYCTL_USER_FILE", defaultUserFile()),
		Output:    "text",
	}
}

// LoadUser loads the saved user id from file if not already set
func (c *Config) LoadUser() error {
	if c.UserID != "" {
		return nil
	}

	data, err := os.ReadFile(c.UserFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No saved identity is fine
		}
		return err
	}

	c.UserID = strings.TrimSpace(string(data))
	return nil
}

// SaveUser saves the user id to the user file
func (c *Config) SaveUser(userID string) error {
	c.UserID = userID

	dir := filepath.Dir(c.UserFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.UserFile, []byte(userID), 0600)
}

// ClearUser removes the saved identity
func (c *Config) ClearUser() error {
	c.UserID = ""
	if err := os.Remove(c.UserFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultUserFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lobbyctl/user"
	}
	return filepath.Join(home, ".lobbyctl", "user")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
