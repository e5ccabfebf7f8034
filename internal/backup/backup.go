package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/go-units"
	"github.com/gofrs/flock"

	"StackSnap/internal/config"
	"StackSnap/internal/constants"
	"StackSnap/internal/envutil"
	"StackSnap/internal/logger"
	"StackSnap/internal/portainer"
	"StackSnap/internal/strutil"
)

// Options configures a backup run.
type Options struct {
	BackupDir   string
	Source      Source
	KeepCount   int
	BackupEnvs  bool
	Simple      bool
	DryRun      bool
	ShowChanges bool
	GitCommit   bool
	Hooks       config.HooksConfig
}

// RunResult summarizes a completed backup run.
type RunResult struct {
	Total     int
	Succeeded int
	Failed    int
	Removed   int
	Bytes     int64
	Duration  time.Duration
}

// Run performs a full backup: discovery, per-stack extraction with
// verified writes, rotation, manifest, optional git snapshot and
// post-run hooks. Per-stack failures are logged and skipped; only
// validation and discovery failures abort the run.
func Run(ctx context.Context, opts Options) (*RunResult, error) {
	start := time.Now()

	if opts.BackupDir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if opts.KeepCount <= 0 {
		opts.KeepCount = constants.DefaultKeepCount
	}

	if !opts.DryRun {
		if err := os.MkdirAll(opts.BackupDir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create backup directory: %w", err)
		}
	}

	// One run at a time per destination
	lock := flock.New(filepath.Join(opts.BackupDir, constants.LockFileName))
	if !opts.DryRun {
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire run lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("another backup is already running against %s", opts.BackupDir)
		}
		defer func() { _ = lock.Unlock() }()
	}

	logger.Notice(ctx, "Backing up stacks from %s to {{_Folder_}}%s{{|-|}}", opts.Source.Name(), opts.BackupDir)
	if opts.DryRun {
		logger.Notice(ctx, "Dry run: nothing will be written")
	}

	stacks, err := opts.Source.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("stack discovery failed: %w", err)
	}
	if len(stacks) == 0 {
		logger.Warn(ctx, "No stacks found")
	}

	timestamp := start.Format(constants.TimestampLayout)
	manifest := &Manifest{
		Timestamp: start,
		Source:    opts.Source.Name(),
	}
	result := &RunResult{Total: len(stacks)}

	for _, stack := range stacks {
		entry, err := backupStack(ctx, opts, stack, timestamp)
		if err != nil {
			logger.Error(ctx, "Skipping {{_Stack_}}%s{{|-|}}: %v", stack.Name, err)
			result.Failed++
			manifest.Stacks = append(manifest.Stacks, ManifestEntry{
				Stack: stack.Name,
				Id:    stack.Id,
				Type:  stack.TypeName(),
				Error: err.Error(),
			})
			continue
		}
		result.Succeeded++
		result.Bytes += entry.SizeBytes
		manifest.Stacks = append(manifest.Stacks, *entry)

		stackDir := filepath.Join(opts.BackupDir, strutil.SanitizeName(stack.Name))
		removed, err := rotate(ctx, stackDir, opts.KeepCount, opts.DryRun)
		if err != nil {
			logger.Warn(ctx, "Rotation failed for {{_Stack_}}%s{{|-|}}: %v", stack.Name, err)
		}
		result.Removed += removed
	}

	manifest.Succeeded = result.Succeeded
	manifest.Failed = result.Failed
	manifest.Removed = result.Removed

	if !opts.DryRun {
		if err := manifest.Write(opts.BackupDir); err != nil {
			logger.Warn(ctx, "Cannot write run manifest: %v", err)
		}
	}

	if opts.GitCommit && !opts.DryRun {
		message := fmt.Sprintf("Backup %s: %d of %d stacks", timestamp, result.Succeeded, result.Total)
		if _, err := CommitBackupDir(ctx, opts.BackupDir, message); err != nil {
			logger.Warn(ctx, "Git snapshot failed: %v", err)
		}
	}

	result.Duration = time.Since(start)

	logger.Notice(ctx, "Backed up %d of %d stacks (%s) in %s",
		result.Succeeded, result.Total,
		units.HumanSize(float64(result.Bytes)),
		result.Duration.Round(time.Millisecond))
	if result.Failed > 0 {
		logger.Warn(ctx, "%d stacks failed, see errors above", result.Failed)
	}
	if result.Removed > 0 {
		logger.Info(ctx, "Rotation removed %d old backup files", result.Removed)
	}

	runHooks(ctx, opts.Hooks, result.Failed == 0)

	return result, nil
}

// backupStack extracts and writes one stack's files for this run.
func backupStack(ctx context.Context, opts Options, stack portainer.Stack, timestamp string) (*ManifestEntry, error) {
	if stack.Type == portainer.StackTypeKubernetes {
		return nil, fmt.Errorf("kubernetes stacks are not supported")
	}

	name := strutil.SanitizeName(stack.Name)
	stackDir := filepath.Join(opts.BackupDir, name)
	base := fmt.Sprintf("%s_%s", name, timestamp)

	content, err := opts.Source.ComposeFile(ctx, stack)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("compose content is empty")
	}

	entry := &ManifestEntry{
		Stack:    stack.Name,
		Id:       stack.Id,
		Type:     stack.TypeName(),
		Checksum: checksum(content),
	}

	composeName := base + constants.ComposeFileSuffix
	if !opts.Simple {
		if err := validateCompose(ctx, content); err != nil {
			// The broken file is kept for inspection, but the stack
			// counts as failed.
			invalidName := composeName + constants.InvalidFileSuffix
			invalidPath := filepath.Join(stackDir, invalidName)
			if opts.DryRun {
				logger.Notice(ctx, "Would write {{_File_}}%s{{|-|}}", invalidPath)
			} else if werr := writeVerified(ctx, invalidPath, content); werr != nil {
				logger.Warn(ctx, "Cannot keep invalid compose file {{_File_}}%s{{|-|}}: %v", invalidPath, werr)
			} else {
				logger.Info(ctx, "Wrote {{_File_}}%s{{|-|}}", invalidPath)
			}
			return nil, fmt.Errorf("compose validation failed, file kept as %s: %w", invalidName, err)
		}
	}

	if opts.ShowChanges {
		prevName, prev := previousCompose(stackDir)
		if prevName != "" {
			logChanges(ctx, stack.Name, prevName, prev, content)
		}
	}

	composePath := filepath.Join(stackDir, composeName)
	if opts.DryRun {
		logger.Notice(ctx, "Would write {{_File_}}%s{{|-|}} (%s)", composePath, units.HumanSize(float64(len(content))))
	} else {
		if err := writeVerified(ctx, composePath, content); err != nil {
			return nil, err
		}
		logger.Info(ctx, "Wrote {{_File_}}%s{{|-|}}", composePath)
	}
	entry.Compose = composeName
	entry.SizeBytes += int64(len(content))

	if opts.Simple {
		return entry, nil
	}

	if opts.BackupEnvs && len(stack.Env) > 0 {
		pairs := make([][2]string, 0, len(stack.Env))
		for _, env := range stack.Env {
			pairs = append(pairs, [2]string{env.Name, env.Value})
		}
		envContent := []byte(envutil.FormatLines(pairs))

		envPath := filepath.Join(stackDir, base+constants.EnvFileSuffix)
		if opts.DryRun {
			logger.Notice(ctx, "Would write {{_File_}}%s{{|-|}}", envPath)
		} else {
			if err := writeVerified(ctx, envPath, envContent); err != nil {
				return nil, err
			}
			logger.Info(ctx, "Wrote {{_File_}}%s{{|-|}}", envPath)
		}
		entry.Env = base + constants.EnvFileSuffix
		entry.SizeBytes += int64(len(envContent))
	}

	metadata, err := stack.Metadata()
	if err != nil {
		return nil, fmt.Errorf("cannot render stack metadata: %w", err)
	}
	metaPath := filepath.Join(stackDir, base+constants.MetadataFileSuffix)
	if opts.DryRun {
		logger.Notice(ctx, "Would write {{_File_}}%s{{|-|}}", metaPath)
	} else {
		if err := writeVerified(ctx, metaPath, metadata); err != nil {
			return nil, err
		}
		logger.Info(ctx, "Wrote {{_File_}}%s{{|-|}}", metaPath)
	}
	entry.Metadata = base + constants.MetadataFileSuffix
	entry.SizeBytes += int64(len(metadata))

	return entry, nil
}
