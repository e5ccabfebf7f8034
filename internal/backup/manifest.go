package backup

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"StackSnap/internal/constants"
)

// ManifestEntry records one stack's outcome in a backup run.
type ManifestEntry struct {
	Stack     string `yaml:"stack"`
	Id        int    `yaml:"id"`
	Type      string `yaml:"type"`
	Compose   string `yaml:"compose,omitempty"`
	Env       string `yaml:"env,omitempty"`
	Metadata  string `yaml:"metadata,omitempty"`
	Checksum  string `yaml:"checksum,omitempty"`
	SizeBytes int64  `yaml:"size_bytes"`
	Error     string `yaml:"error,omitempty"`
}

// Manifest summarizes a backup run. It is written to the backup
// directory root after every run so the latest state is inspectable
// without walking stack directories.
type Manifest struct {
	Timestamp time.Time       `yaml:"timestamp"`
	Source    string          `yaml:"source"`
	Stacks    []ManifestEntry `yaml:"stacks"`
	Succeeded int             `yaml:"succeeded"`
	Failed    int             `yaml:"failed"`
	Removed   int             `yaml:"removed_by_rotation"`
}

// Write saves the manifest to backupDir.
func (m *Manifest) Write(backupDir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(backupDir, constants.ManifestFileName), data, 0o644)
}

// ReadManifest loads the manifest of the most recent run, if any.
func ReadManifest(backupDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(backupDir, constants.ManifestFileName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
