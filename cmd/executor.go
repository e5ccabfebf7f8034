package cmd

import (
	"StackSnap/internal/backup"
	"StackSnap/internal/config"
	"StackSnap/internal/constants"
	"StackSnap/internal/docker"
	"StackSnap/internal/logger"
	"StackSnap/internal/report"
	"StackSnap/internal/update"
	"StackSnap/internal/version"
	"context"
	"fmt"
	"strconv"
)

// CmdState holds the state of flags for a single command group.
type CmdState struct {
	BackupDir   string
	URL         string
	APIKey      string
	KeepCount   int
	VolumeMode  bool
	Volume      string
	BackupEnvs  bool
	Simple      bool
	DryRun      bool
	ShowChanges bool
	GitCommit   bool
	Yes         bool
}

// newCmdState seeds flag state from the loaded configuration so that
// command line flags only override what they name.
func newCmdState(conf config.AppConfig) CmdState {
	return CmdState{
		BackupDir:  conf.BackupDir,
		URL:        conf.Portainer.URL,
		APIKey:     conf.Portainer.APIKey,
		KeepCount:  conf.Backup.KeepCount,
		Volume:     conf.Backup.Volume,
		BackupEnvs: conf.Backup.BackupEnvs,
		Simple:     conf.Backup.Simple,
		GitCommit:  conf.Git.Commit,
	}
}

// applyFlags walks a group's flag list, consuming values for the flags
// that carry one. Returns an error for values that fail to parse.
func applyFlags(state *CmdState, flags []string) error {
	i := 0
	for i < len(flags) {
		flag := flags[i]
		value := ""
		if valueModifiers[flag] || optValueModifiers[flag] {
			value = flags[i+1]
			i += 2
		} else {
			i++
		}

		switch flag {
		case "--verbose":
			logger.SetLevel(logger.LevelInfo)
		case "-x", "--debug":
			logger.SetLevel(logger.LevelDebug)
		case "-y", "--yes":
			state.Yes = true
		case "-d", "--backup-dir":
			state.BackupDir = config.ExpandVariables(value)
		case "-u", "--url":
			state.URL = value
		case "-k", "--api-key":
			state.APIKey = value
		case "-c", "--keep-count":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return fmt.Errorf("invalid keep count '{{_UserCommand_}}%s{{|-|}}': must be a positive number", value)
			}
			state.KeepCount = n
		case "-v", "--volume":
			state.VolumeMode = true
			if value != "" {
				state.Volume = value
			}
		case "-e", "--backup-envs":
			state.BackupEnvs = true
		case "-s", "--simple":
			state.Simple = true
		case "-n", "--dry-run":
			state.DryRun = true
		case "--show-changes":
			state.ShowChanges = true
		case "--git-commit":
			state.GitCommit = true
		}
	}
	return nil
}

// Execute runs the logic for a sequence of command groups.
// It handles flag application, command switching, and state resetting.
func Execute(ctx context.Context, groups []CommandGroup) int {
	conf := config.LoadAppConfig()

	exitCode := 0
	ranCommand := false

	for _, group := range groups {
		state := newCmdState(conf)

		if err := applyFlags(&state, group.Flags); err != nil {
			logger.Error(ctx, err.Error())
			return 1
		}

		// Logging
		cmdStr := version.CommandName
		for _, part := range group.FullSlice() {
			if part == "" {
				continue
			}
			cmdStr += " " + part
		}
		logger.Notice(ctx, fmt.Sprintf("%s command: '{{_UserCommand_}}%s{{|-|}}'", version.ApplicationName, cmdStr))
		logger.Debug(ctx, fmt.Sprintf("Execution Args -> State: %+v, Command: %v", state, group.CommandSlice()))

		switch group.Command {
		case "-h", "--help":
			handleHelp(&group)
			ranCommand = true
		case "-V", "--version":
			handleVersion(ctx)
			ranCommand = true
		case "--update":
			if !handleUpdate(ctx, &group, &state) {
				exitCode = 1
			}
			ranCommand = true
		case "--report":
			if !handleReport(ctx, &state, false) {
				exitCode = 1
			}
			ranCommand = true
		case "--report-compact":
			if !handleReport(ctx, &state, true) {
				exitCode = 1
			}
			ranCommand = true
		case "--prune":
			if !handlePrune(ctx, &state) {
				exitCode = 1
			}
			ranCommand = true
		case "":
			// Trailing flags with no command run the default backup
			runBackup(ctx, conf, &state)
			ranCommand = true
		}

		// Reset log level after each command group
		logger.SetLevel(logger.LevelNotice)
	}

	// Bare invocation backs up everything with the configured settings
	if !ranCommand {
		state := newCmdState(conf)
		runBackup(ctx, conf, &state)
	}

	return exitCode
}

func handleHelp(group *CommandGroup) {
	target := ""
	if len(group.Args) > 0 {
		target = group.Args[0]
	}
	PrintHelp(target)
}

func handleVersion(ctx context.Context) {
	logger.Display(ctx, fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", version.ApplicationName, version.Version))
	logger.Display(ctx, fmt.Sprintf("Commit {{_Version_}}%s{{|-|}}, built {{_Version_}}%s{{|-|}}", version.Commit, version.BuildDate))
}

func handleUpdate(ctx context.Context, group *CommandGroup, state *CmdState) bool {
	requested := ""
	if len(group.Args) > 0 {
		requested = group.Args[0]
	}
	if err := update.SelfUpdate(ctx, false, state.Yes, requested); err != nil {
		logger.Error(ctx, "Update failed: %v", err)
		return false
	}
	return true
}

func handleReport(ctx context.Context, state *CmdState, compact bool) bool {
	var err error
	if compact {
		err = report.PrintCompact(ctx, state.BackupDir)
	} else {
		err = report.Print(ctx, state.BackupDir, true)
	}
	if err != nil {
		logger.Error(ctx, "Report failed: %v", err)
		return false
	}
	return true
}

func handlePrune(ctx context.Context, state *CmdState) bool {
	removed, err := backup.Prune(ctx, state.BackupDir, state.KeepCount, state.DryRun)
	if err != nil {
		logger.Error(ctx, "Prune failed: %v", err)
		return false
	}
	if state.DryRun {
		logger.Notice(ctx, "Would remove {{_File_}}%d{{|-|}} files from {{_Folder_}}%s{{|-|}}", removed, state.BackupDir)
	} else {
		logger.Notice(ctx, "Removed {{_File_}}%d{{|-|}} files from {{_Folder_}}%s{{|-|}}", removed, state.BackupDir)
	}
	return true
}

// newSource picks a discovery source from the flag state. The API is
// used when a key is available unless volume mode was asked for; a
// missing key falls back to reading the data volume directly.
func newSource(ctx context.Context, conf config.AppConfig, state *CmdState) (backup.Source, error) {
	if state.VolumeMode {
		return backup.NewVolumeSource(ctx, docker.NewService(conf.Backup.HelperImage), state.Volume)
	}
	if state.APIKey == "" {
		logger.Notice(ctx, "No API key configured, reading volume {{_Volume_}}%s{{|-|}} directly", valueOr(state.Volume, constants.DefaultVolumeName))
		return backup.NewVolumeSource(ctx, docker.NewService(conf.Backup.HelperImage), state.Volume)
	}
	return backup.NewAPISource(ctx, state.URL, state.APIKey, conf.Portainer.TLSSkipVerify)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func runBackup(ctx context.Context, conf config.AppConfig, state *CmdState) {
	source, err := newSource(ctx, conf, state)
	if err != nil {
		logger.FatalNoTrace(ctx, "Cannot set up stack discovery: %v", err)
	}

	opts := backup.Options{
		BackupDir:   state.BackupDir,
		Source:      source,
		KeepCount:   state.KeepCount,
		BackupEnvs:  state.BackupEnvs,
		Simple:      state.Simple,
		DryRun:      state.DryRun,
		ShowChanges: state.ShowChanges,
		GitCommit:   state.GitCommit,
		Hooks:       conf.Hooks,
	}

	if _, err := backup.Run(ctx, opts); err != nil {
		logger.Fatal(ctx, "Backup failed: %v", err)
	}
}
