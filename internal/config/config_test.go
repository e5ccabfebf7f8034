package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"StackSnap/internal/paths"
)

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	paths.ConfigHomeOverride = tempDir
	paths.StateHomeOverride = tempDir
	defer func() {
		paths.ConfigHomeOverride = ""
		paths.StateHomeOverride = ""
	}()

	conf := AppConfig{
		Portainer: PortainerConfig{
			URL:    "https://portainer.example.com:9443",
			APIKey: "ptr_testkey",
		},
		Backup: BackupConfig{
			Dir:       "/backups/stacks",
			KeepCount: 3,
			Volume:    "portainer_data",
		},
	}

	if err := SaveAppConfig(conf); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded := LoadAppConfig()
	if loaded.Portainer.URL != "https://portainer.example.com:9443" {
		t.Errorf("expected URL to round-trip, got %q", loaded.Portainer.URL)
	}
	if loaded.Portainer.APIKey != "ptr_testkey" {
		t.Errorf("expected APIKey to round-trip, got %q", loaded.Portainer.APIKey)
	}
	if loaded.Backup.KeepCount != 3 {
		t.Errorf("expected KeepCount 3, got %d", loaded.Backup.KeepCount)
	}
	if loaded.BackupDir != "/backups/stacks" {
		t.Errorf("expected BackupDir runtime field, got %q", loaded.BackupDir)
	}
}

func TestLoadWritesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	paths.ConfigHomeOverride = tempDir
	paths.StateHomeOverride = tempDir
	defer func() {
		paths.ConfigHomeOverride = ""
		paths.StateHomeOverride = ""
	}()

	conf := LoadAppConfig()
	if conf.Backup.KeepCount <= 0 {
		t.Errorf("expected positive default keep count, got %d", conf.Backup.KeepCount)
	}

	if _, err := os.Stat(filepath.Join(tempDir, "stacksnap.toml")); err != nil {
		t.Errorf("expected defaults to be written on first load: %v", err)
	}
}

func TestExpandVariables(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandVariables("${HOME}/stack-backups")
	if !strings.HasPrefix(got, home) {
		t.Errorf("expected expansion under %q, got %q", home, got)
	}
	if strings.Contains(got, "${") {
		t.Errorf("expected all variables expanded, got %q", got)
	}
}
