// Package config loads the escala YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wfm-tools/escala-go/pkg/escala"
	"github.com/wfm-tools/escala-go/pkg/escala/session"
)

// Source kinds.
const (
	SourceXLSX   = "xlsx"
	SourceExport = "export"
	SourceSheets = "sheets"
)

// Config is the whole configuration file.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Server ServerConfig `yaml:"server"`
	// Users maps identities to credentials and roles.
	Users    session.Credentials `yaml:"users"`
	Schedule escala.Options      `yaml:"schedule"`
}

// SourceConfig selects where the workbook is read from.
type SourceConfig struct {
	// Kind is xlsx, export or sheets.
	Kind string `yaml:"kind"`
	// Path is the local workbook for kind xlsx.
	Path string `yaml:"path"`
	// Spreadsheet is a Google Sheets URL or id for kinds export and sheets.
	Spreadsheet string `yaml:"spreadsheet"`
	// CredentialsFile is a service account key for kind sheets.
	CredentialsFile string        `yaml:"credentials_file"`
	Timeout         time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP dashboard.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// CSRFKey is a 32-byte key protecting form posts; empty disables CSRF.
	CSRFKey string `yaml:"csrf_key"`
	// SessionKey signs session cookies, at least 32 bytes. When empty a
	// random key is generated and sessions do not survive a restart.
	SessionKey string `yaml:"session_key"`
	// SecureCookies marks cookies Secure (HTTPS deployments).
	SecureCookies bool `yaml:"secure_cookies"`
	// TokenDays is the lifetime of the persistent session cookie.
	TokenDays int    `yaml:"token_days"`
	Title     string `yaml:"title"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Kind:    SourceXLSX,
			Path:    "escala.xlsx",
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			TokenDays: session.DefaultTokenDays,
			Title:     "Escala WFM",
		},
		Users:    session.Credentials{},
		Schedule: escala.DefaultOptions(),
	}
}

// Load reads path over the defaults. Environment variables override secrets:
// ESCALA_CSRF_KEY, ESCALA_SESSION_KEY and GOOGLE_APPLICATION_CREDENTIALS.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if key := os.Getenv("ESCALA_CSRF_KEY"); key != "" {
		cfg.Server.CSRFKey = key
	}
	if key := os.Getenv("ESCALA_SESSION_KEY"); key != "" {
		cfg.Server.SessionKey = key
	}
	if cred := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); cred != "" && cfg.Source.CredentialsFile == "" {
		cfg.Source.CredentialsFile = cred
	}
	cfg.Users = cfg.Users.Normalize()
	return cfg, cfg.Validate()
}

// Validate checks the fields the server cannot run without.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceXLSX:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for kind %q", c.Source.Kind)
		}
	case SourceExport, SourceSheets:
		if c.Source.Spreadsheet == "" {
			return fmt.Errorf("source.spreadsheet is required for kind %q", c.Source.Kind)
		}
	default:
		return fmt.Errorf("invalid source kind: %q (must be xlsx, export or sheets)", c.Source.Kind)
	}
	if c.Server.CSRFKey != "" && len(c.Server.CSRFKey) != 32 {
		return fmt.Errorf("server.csrf_key must be 32 bytes, got %d", len(c.Server.CSRFKey))
	}
	if c.Server.SessionKey != "" && len(c.Server.SessionKey) < 32 {
		return fmt.Errorf("server.session_key must be at least 32 bytes, got %d", len(c.Server.SessionKey))
	}
	if c.Schedule.CacheTTL < 0 {
		return fmt.Errorf("schedule.cache_ttl must not be negative")
	}
	return nil
}
