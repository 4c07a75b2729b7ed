// Package config loads the backend's YAML configuration file and applies
// defaults, so a missing file still yields a runnable local setup.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dbcove/dbcove/internal/errs"
	"github.com/dbcove/dbcove/internal/filestore"
	"go.yaml.in/yaml/v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "90s" or "5m" as well as plain nanosecond integers.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return errs.Wrap(errs.ErrKindInvalidConfig, "invalid duration", err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(v)
	case int64:
		*d = Duration(v)
	default:
		return errs.Newf(errs.ErrKindInvalidConfig, "invalid duration value %v", raw)
	}
	return nil
}

// Server holds the HTTP listener settings.
type Server struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// Storage holds where the connection list and the master key live.
type Storage struct {
	// Dir is the state directory. The connection list is stored as
	// connections.json and the master key as vault.key inside it.
	Dir string `yaml:"dir"`
}

// Health holds the background liveness sweep settings.
type Health struct {
	// Interval between sweeps. Zero disables the sweep.
	Interval Duration `yaml:"interval"`

	// Timeout bounds each individual liveness probe.
	Timeout Duration `yaml:"timeout"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full backend configuration.
type Config struct {
	Server  Server            `yaml:"server"`
	Storage Storage           `yaml:"storage"`
	Health  Health            `yaml:"health"`
	Log     Log               `yaml:"log"`
	Export  *filestore.Config `yaml:"export"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: Server{
			Host:            "127.0.0.1",
			Port:            8080,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Storage: Storage{
			Dir: ".dbcove",
		},
		Health: Health{
			Interval: Duration(time.Minute),
			Timeout:  Duration(5 * time.Second),
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at path over Default(). A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "failed to parse config file", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errs.Newf(errs.ErrKindInvalidConfig, "invalid server port %d", c.Server.Port)
	}
	if c.Storage.Dir == "" {
		return errs.New(errs.ErrKindInvalidConfig, "storage dir must not be empty")
	}
	if c.Export != nil && c.Export.Endpoint == "" {
		return errs.New(errs.ErrKindInvalidConfig, "export endpoint must not be empty")
	}
	return nil
}

// RegistryPath is the on-disk location of the connection list.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Storage.Dir, "connections.json")
}

// KeyPath is the on-disk location of the vault master key.
func (c *Config) KeyPath() string {
	return filepath.Join(c.Storage.Dir, "vault.key")
}
