// Package registry owns the durable set of connection configurations:
// an ordered JSON collection on disk, passwords encrypted by the vault,
// decrypted once at load time into memory.
package registry

import (
	"time"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/vault"
)

// Config is one registered connection. The in-memory form carries the
// plaintext password; it is never written to disk or returned to callers
// in that form.
type Config struct {
	ID            string
	Name          string
	Engine        database.Engine
	Host          string
	Port          int
	Database      string
	Username      string
	Password      string // plaintext, in memory only
	Options       map[string]string
	IsActive      bool
	LastConnected time.Time
	Version       string // discovered engine version/edition
}

// ConnectConfig converts the registered config into the driver-level form.
func (c *Config) ConnectConfig() *database.ConnectConfig {
	return &database.ConnectConfig{
		Engine:   c.Engine,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		User:     c.Username,
		Password: c.Password,
		Options:  c.Options,
	}
}

// Redacted is the external view of a Config. The password field only ever
// holds the redaction marker (or nothing, when no password is stored).
type Redacted struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Engine        database.Engine   `json:"engine"`
	Host          string            `json:"host"`
	Port          int               `json:"port"`
	Database      string            `json:"database"`
	Username      string            `json:"username,omitempty"`
	Password      string            `json:"password,omitempty"`
	Options       map[string]string `json:"options,omitempty"`
	IsActive      bool              `json:"isActive"`
	LastConnected *time.Time        `json:"lastConnected,omitempty"`
	Version       string            `json:"version,omitempty"`
}

// Redact produces the external view of c.
func (c *Config) Redact() Redacted {
	r := Redacted{
		ID:       c.ID,
		Name:     c.Name,
		Engine:   c.Engine,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.Username,
		Options:  c.Options,
		IsActive: c.IsActive,
		Version:  c.Version,
	}
	if c.Password != "" {
		r.Password = vault.RedactionMarker
	}
	if !c.LastConnected.IsZero() {
		t := c.LastConnected
		r.LastConnected = &t
	}
	return r
}

// record is the on-disk shape of one connection. Password holds vault
// ciphertext, or an empty string when no password is stored.
type record struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Engine    database.Engine   `json:"engine"`
	Host      string            `json:"host"`
	Port      int               `json:"port,omitempty"`
	Database  string            `json:"database"`
	Username  string            `json:"username,omitempty"`
	Password  string            `json:"password,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	LastUsed  *time.Time        `json:"lastUsed,omitempty"`
	Version   string            `json:"version,omitempty"`
}
