package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Key       string
	KeyFile   string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("WORDRUSH_SERVER", "http://localhost:8080"),
		Key:       os.Getenv("WORDRUSH_KEY"),
		KeyFile:   getEnvOrDefault("WORDRUSH_KEY_FILE", defaultKeyFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// HostKey returns the host key for a match: the --key flag if set, otherwise
// the key saved when the match was created
func (c *Config) HostKey(matchID string) (string, error) {
	if c.Key != "" {
		return c.Key, nil
	}

	keys, err := c.loadKeys()
	if err != nil {
		return "", err
	}
	key, ok := keys[matchID]
	if !ok {
		return "", fmt.Errorf("no host key for match %s: pass --key or create the match from this machine", matchID)
	}
	return key, nil
}

// SaveKey stores a match's host key in the key file
func (c *Config) SaveKey(matchID, key string) error {
	keys, err := c.loadKeys()
	if err != nil {
		return err
	}
	keys[matchID] = key

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.KeyFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.KeyFile, data, 0600)
}

// ForgetKey removes a match's host key from the key file
func (c *Config) ForgetKey(matchID string) error {
	keys, err := c.loadKeys()
	if err != nil {
		return err
	}
	if _, ok := keys[matchID]; !ok {
		return nil
	}
	delete(keys, matchID)

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.KeyFile, data, 0600)
}

func (c *Config) loadKeys() (map[string]string, error) {
	keys := make(map[string]string)

	data, err := os.ReadFile(c.KeyFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return keys, nil // No key file is fine
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("invalid key file %s: %w", c.KeyFile, err)
	}
	return keys, nil
}

func defaultKeyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wordrush/keys.json"
	}
	return filepath.Join(home, ".wordrush", "keys.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
