// Package config handles the configuration directory, the persisted
// settings file, the session file, and environment credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

const (
	// AppName is the application directory name.
	AppName = "todoai"

	// SettingsFile is the persisted settings filename.
	SettingsFile = "config.json"

	// SessionFile stores the signed-in user between invocations.
	SessionFile = "session.json"
)

// Config holds configuration paths and per-invocation flags.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todoai or $HOME/.config/todoai.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SessionPath returns the path to the session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// MissingCredentialError reports a required environment variable that
// is not set.
type MissingCredentialError struct {
	Var string
}

func (e *MissingCredentialError) Error() string {
	return e.Var + " must be set"
}

// ErrSessionInvalid marks a session file that is unreadable or
// incomplete. Logging in again rewrites it.
var ErrSessionInvalid = errors.New("invalid session")

// Session identifies the signed-in user. There is no token: the remote
// store authenticates with a static service credential and every call
// re-supplies the user ID.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// HasSession checks if a session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// LoadSession reads the stored session. Every failure wraps
// ErrSessionInvalid so callers can treat it as "log in again".
func (c *Config) LoadSession() (Session, error) {
	data, err := os.ReadFile(c.SessionPath())
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	var s Session
	if err := sonic.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	if s.UserID == "" {
		return Session{}, fmt.Errorf("%w: missing user id", ErrSessionInvalid)
	}
	return s, nil
}

// SaveSession writes the session file with mode 0600.
func (c *Config) SaveSession(s Session) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := sonic.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(c.SessionPath(), data, 0600)
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}

// Credentials is the static service-level credential for the remote
// store plus the optional completion-service key.
type Credentials struct {
	BaseURL string
	APIKey  string
	// GroqKey is the completion-service key. Empty disables the
	// primary ingestion path; the offline fallback still works.
	GroqKey string
}

// CredentialsFromEnv reads credentials from the environment.
// TODOAI_URL and TODOAI_KEY are required; startup is the only place a
// missing value is fatal.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		BaseURL: os.Getenv("TODOAI_URL"),
		APIKey:  os.Getenv("TODOAI_KEY"),
		GroqKey: os.Getenv("GROQ_API_KEY"),
	}
	if creds.BaseURL == "" {
		return Credentials{}, &MissingCredentialError{Var: "TODOAI_URL"}
	}
	if creds.APIKey == "" {
		return Credentials{}, &MissingCredentialError{Var: "TODOAI_KEY"}
	}
	return creds, nil
}
