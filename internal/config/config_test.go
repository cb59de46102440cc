package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default("/opt/mega")

	if cfg.BaseDir != "/opt/mega" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/opt/mega")
	}
	if want := "/opt/mega/logs"; cfg.Log.Path != want {
		t.Errorf("Log.Path = %q, want %q", cfg.Log.Path, want)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", cfg.Database.Type, "sqlite")
	}
	if want := "/opt/mega/mega.db"; cfg.Database.Path != want {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, want)
	}
	if cfg.Service.Host != "127.0.0.1" {
		t.Errorf("Service.Host = %q, want %q", cfg.Service.Host, "127.0.0.1")
	}
	if cfg.Service.HTTPPort != 8000 {
		t.Errorf("Service.HTTPPort = %d, want %d", cfg.Service.HTTPPort, 8000)
	}
	if cfg.Ztm.AgentPort != 7777 {
		t.Errorf("Ztm.AgentPort = %d, want %d", cfg.Ztm.AgentPort, 7777)
	}
}

func TestDefault_derivesFromBaseDir(t *testing.T) {
	t.Parallel()

	cfg := Default("/srv/mega")

	if want := "/srv/mega/logs"; cfg.Log.Path != want {
		t.Errorf("Log.Path = %q, want %q", cfg.Log.Path, want)
	}
	if want := "/srv/mega/mega.db"; cfg.Database.Path != want {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, want)
	}
}

func TestSave_roundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "etc", "config.toml")

	cfg := Default("/opt/mega")
	cfg.Service.HTTPPort = 9000
	cfg.Ztm.BootstrapNode = "hub.example.com:8888"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("file mode = %o, want %o", info.Mode().Perm(), 0644)
	}

	var got Config
	if _, err := toml.DecodeFile(path, &got); err != nil {
		t.Fatalf("DecodeFile() error: %v", err)
	}

	if got.BaseDir != cfg.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, cfg.BaseDir)
	}
	if got.Service.HTTPPort != 9000 {
		t.Errorf("Service.HTTPPort = %d, want %d", got.Service.HTTPPort, 9000)
	}
	if got.Ztm.BootstrapNode != "hub.example.com:8888" {
		t.Errorf("Ztm.BootstrapNode = %q, want %q", got.Ztm.BootstrapNode, "hub.example.com:8888")
	}
	if got.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", got.Log.Level, "info")
	}
}

func TestSave_overwritesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("stale = true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := Save(path, Default("/opt/mega")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	var got Config
	if _, err := toml.DecodeFile(path, &got); err != nil {
		t.Fatalf("DecodeFile() error: %v", err)
	}
	if got.BaseDir != "/opt/mega" {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, "/opt/mega")
	}

	// The rename replaces the file wholesale, including its mode.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("file mode = %o, want %o", info.Mode().Perm(), 0644)
	}
}

func TestSave_leavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := Save(path, Default("/opt/mega")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.toml" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only config.toml", names)
	}
}
