package config

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"

	"StackSnap/internal/constants"
	"StackSnap/internal/paths"
)

// AppConfig holds the application configuration settings.
type AppConfig struct {
	Portainer PortainerConfig `toml:"portainer"`
	Backup    BackupConfig    `toml:"backup"`
	Git       GitConfig       `toml:"git"`
	Hooks     HooksConfig     `toml:"hooks"`

	// Runtime-only helper fields, not saved to TOML
	BackupDir string `toml:"-"`
}

// PortainerConfig holds Portainer API connection settings.
type PortainerConfig struct {
	URL           string `toml:"url"`
	APIKey        string `toml:"api_key"`
	TLSSkipVerify bool   `toml:"tls_skip_verify"`
}

// BackupConfig holds backup destination and behavior settings.
type BackupConfig struct {
	Dir         string `toml:"dir"`
	KeepCount   int    `toml:"keep_count"`
	BackupEnvs  bool   `toml:"backup_envs"`
	Simple      bool   `toml:"simple"`
	Volume      string `toml:"volume"`
	HelperImage string `toml:"helper_image"`
}

// GitConfig holds backup directory git snapshot settings.
type GitConfig struct {
	Commit bool `toml:"commit"`
}

// HooksConfig holds commands run after a backup completes.
type HooksConfig struct {
	OnSuccess string `toml:"on_success"`
	OnFailure string `toml:"on_failure"`
}

// ExpandVariables expands environment variables in config values.
// It supports:
// - ${XDG_CONFIG_HOME} -> xdg.ConfigHome
// - ${XDG_DATA_HOME}   -> xdg.DataHome
// - ${XDG_STATE_HOME}  -> xdg.StateHome
// - ${XDG_CACHE_HOME}  -> xdg.CacheHome
// - ${HOME}            -> os.UserHomeDir()
// - ${USER}            -> Current username
func ExpandVariables(val string) string {
	mapper := func(varName string) string {
		switch varName {
		case "XDG_CONFIG_HOME":
			return xdg.ConfigHome
		case "XDG_DATA_HOME":
			return xdg.DataHome
		case "XDG_STATE_HOME":
			return xdg.StateHome
		case "XDG_CACHE_HOME":
			return xdg.CacheHome
		case "HOME":
			home, err := os.UserHomeDir()
			if err != nil {
				return ""
			}
			return home
		case "USER":
			u, err := user.Current()
			if err != nil {
				return os.Getenv("USERNAME")
			}
			return u.Username
		}
		return ""
	}
	return os.Expand(val, mapper)
}

func defaults() AppConfig {
	return AppConfig{
		Portainer: PortainerConfig{
			URL: "http://localhost:9000",
		},
		Backup: BackupConfig{
			Dir:         "${HOME}/stack-backups",
			KeepCount:   constants.DefaultKeepCount,
			BackupEnvs:  false,
			Simple:      false,
			Volume:      constants.DefaultVolumeName,
			HelperImage: constants.DefaultHelperImage,
		},
	}
}

// LoadAppConfig reads the configuration file and returns the configuration.
// When no config file exists yet, defaults are written out so the user has
// a file to edit.
func LoadAppConfig() AppConfig {
	conf := defaults()

	path := paths.GetConfigFilePath()
	data, err := os.ReadFile(path)
	if err == nil {
		// A file that fails to parse is left untouched; defaults apply
		// for this run only.
		_ = toml.Unmarshal(data, &conf)
		conf.BackupDir = ExpandVariables(conf.Backup.Dir)
		return conf
	}

	conf.BackupDir = ExpandVariables(conf.Backup.Dir)
	_ = SaveAppConfig(conf)
	return conf
}

// SaveAppConfig writes the configuration to stacksnap.toml.
func SaveAppConfig(conf AppConfig) error {
	path := paths.GetConfigFilePath()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(conf)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
