package cmd

import (
	"sync"

	"github.com/spf13/pflag"
)

var initFlagsOnce sync.Once

// InitFlags defines the pflags used for argument validation and help.
// pflag panics on redefinition, so registration runs once no matter
// how often Parse is called.
func InitFlags() {
	initFlagsOnce.Do(registerFlags)
}

func registerFlags() {
	// Modifiers
	pflag.Bool("verbose", false, "Verbose output")
	pflag.BoolP("debug", "x", false, "Debug output")
	pflag.BoolP("yes", "y", false, "Assume yes")
	pflag.BoolP("help", "h", false, "Show help")

	// Backup options
	pflag.StringP("backup-dir", "d", "", "Backup destination directory")
	pflag.StringP("volume", "v", "", "Read stacks from the Portainer data volume")
	pflag.StringP("url", "u", "", "Portainer URL")
	pflag.StringP("api-key", "k", "", "Portainer API key")
	pflag.StringP("keep-count", "c", "", "Number of backup runs to keep per stack")
	pflag.BoolP("backup-envs", "e", false, "Write stack environment variables to .env files")
	pflag.BoolP("simple", "s", false, "Compose files only, no env or metadata")
	pflag.BoolP("dry-run", "n", false, "Log actions without writing anything")
	pflag.Bool("show-changes", false, "Show a line diff against the previous backup")
	pflag.Bool("git-commit", false, "Commit the backup directory to git after the run")

	// Commands
	pflag.Bool("report", false, "Show a table of existing backups")
	pflag.Bool("report-compact", false, "Show one line per stack for existing backups")
	pflag.Bool("prune", false, "Apply rotation to the backup directory and exit")
	pflag.String("update", "", "Update the application (can specify version or channel)")
	pflag.BoolP("version", "V", false, "Show version")
}
