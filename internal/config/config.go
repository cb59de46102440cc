// Package config generates the starter configuration consumed by the
// aries service. The launcher only ever checks this file's presence;
// parsing and validating its contents is aries's own business.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the starter configuration written by `ariesctl init`.
// It is persisted as TOML at <base dir>/etc/config.toml, the path the
// entrypoint probes before handing the process over to aries.
type Config struct {
	// BaseDir is the mega installation root. Relative paths used by
	// aries resolve against it.
	BaseDir string `toml:"base_dir"`

	Log      LogConfig      `toml:"log"`
	Database DatabaseConfig `toml:"database"`
	Service  ServiceConfig  `toml:"service"`
	Ztm      ZtmConfig      `toml:"ztm"`
}

// LogConfig controls where aries writes its logs.
type LogConfig struct {
	// Path is the directory for log files.
	Path string `toml:"log_path"`

	// Level is the minimum level written: "trace", "debug", "info",
	// "warn", or "error".
	Level string `toml:"level"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	// Type is the database backend: "sqlite" or "postgres".
	Type string `toml:"db_type"`

	// Path is the SQLite database file, used when Type is "sqlite".
	Path string `toml:"db_path"`

	// URL is the connection string for server backends, used when Type
	// is "postgres".
	URL string `toml:"db_url,omitempty"`
}

// ServiceConfig holds the listen addresses of the aries servers.
type ServiceConfig struct {
	// Host is the address the servers bind to.
	Host string `toml:"host"`

	// HTTPPort is the Git-over-HTTP API port.
	HTTPPort int `toml:"http_port"`

	// SSHPort is the Git-over-SSH port.
	SSHPort int `toml:"ssh_port"`
}

// ZtmConfig configures the ztm relay agent.
type ZtmConfig struct {
	// AgentPort is the local ztm agent port.
	AgentPort int `toml:"agent_port"`

	// BootstrapNode is the ztm hub address used to join the network.
	BootstrapNode string `toml:"bootstrap_node,omitempty"`
}

// Default returns a starter Config with every path derived from the
// given base directory.
func Default(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		Log: LogConfig{
			Path:  filepath.Join(baseDir, "logs"),
			Level: "info",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: filepath.Join(baseDir, "mega.db"),
		},
		Service: ServiceConfig{
			Host:     "127.0.0.1",
			HTTPPort: 8000,
			SSHPort:  2222,
		},
		Ztm: ZtmConfig{
			AgentPort: 7777,
		},
	}
}

// Save encodes the config as TOML and writes it to the given path,
// creating parent directories as needed. The write goes through a temp
// file and rename so the entrypoint's existence probe never sees a
// half-written file. Mode is 0644: the starter config carries no
// secrets.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	tmpPath = "" // Prevent deferred removal.

	return nil
}
