package constants

import "time"

// File name suffixes for the files that make up one backup run of a stack.
const (
	ComposeFileSuffix  = ".yml"
	EnvFileSuffix      = ".env"
	MetadataFileSuffix = ".stack.json"
	InvalidFileSuffix  = ".invalid"
)

// TimestampLayout is the token embedded in every backup file name.
// Rotation groups files by this token, so it must not contain '_'.
const TimestampLayout = "20060102-150405"

// Portainer data volume layout.
const (
	PortainerDBFileName  = "portainer.db"
	ComposeDirName       = "compose"
	ComposeFileName      = "docker-compose.yml"
	ComposeFileNameAlt   = "docker-compose.yaml"
	DefaultHelperImage   = "alpine:3.20"
	DefaultVolumeName    = "portainer_data"
	HelperContainerLabel = "io.stacksnap.helper"
)

// Backup destination layout.
const (
	LockFileName     = ".stacksnap.lock"
	ManifestFileName = "backup-manifest.yaml"
	AppConfigName    = "stacksnap.toml"
	AppLogFileName   = "stacksnap.log"
)

// Retry budgets for API requests and backup file writes.
const (
	APIRetryAttempts  = 3
	APIRetryDelay     = 5 * time.Second
	CopyRetryAttempts = 3
	CopyRetryDelay    = 2 * time.Second
)

// DefaultKeepCount is the number of backup runs kept per stack by rotation.
const DefaultKeepCount = 7

// MinPortainerVersion is the oldest Portainer server the API discovery
// path is known to work against.
const MinPortainerVersion = "2.0.0"
