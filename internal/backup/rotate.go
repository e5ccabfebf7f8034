package backup

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"StackSnap/internal/constants"
	"StackSnap/internal/logger"
)

// backupSuffixes are the file endings produced per backup run, longest
// first so trimming finds .stack.json before .json-like leftovers.
var backupSuffixes = []string{
	constants.MetadataFileSuffix,
	constants.ComposeFileSuffix + constants.InvalidFileSuffix,
	constants.ComposeFileSuffix,
	constants.EnvFileSuffix,
}

// groupKey returns the rotation group for a backup file name: the
// token after the final underscore with the backup suffix stripped.
// Returns "" for names that do not look like backup files.
func groupKey(name string) string {
	base := name
	matched := false
	for _, suffix := range backupSuffixes {
		if strings.HasSuffix(base, suffix) {
			base = strings.TrimSuffix(base, suffix)
			matched = true
			break
		}
	}
	if !matched {
		return ""
	}

	idx := strings.LastIndex(base, "_")
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return base[idx+1:]
}

// rotate keeps the newest keepCount timestamp groups in a stack's
// backup directory and removes the files of all older groups. Files
// that do not parse as backups are left alone. Returns the number of
// files removed.
func rotate(ctx context.Context, stackDir string, keepCount int, dryRun bool) (int, error) {
	if keepCount <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(stackDir)
	if err != nil {
		return 0, err
	}

	groups := make(map[string][]string)
	foreign := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := groupKey(entry.Name())
		if key == "" {
			foreign++
			continue
		}
		groups[key] = append(groups[key], entry.Name())
	}
	if foreign > 0 {
		logger.Warn(ctx, "Leaving %d unrecognized file(s) in {{_Folder_}}%s{{|-|}} alone", foreign, stackDir)
	}

	if len(groups) <= keepCount {
		return 0, nil
	}

	// Timestamps sort lexically newest-last in their layout
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	removed := 0
	for _, key := range keys[:len(keys)-keepCount] {
		for _, name := range groups[key] {
			path := filepath.Join(stackDir, name)
			if dryRun {
				logger.Notice(ctx, "Would remove {{_File_}}%s{{|-|}}", path)
				removed++
				continue
			}
			if err := os.Remove(path); err != nil {
				logger.Warn(ctx, "Failed to remove {{_File_}}%s{{|-|}}: %v", path, err)
				continue
			}
			logger.Info(ctx, "Removed old backup {{_File_}}%s{{|-|}}", path)
			removed++
		}
	}

	return removed, nil
}

// Prune applies rotation to every stack directory under backupDir.
func Prune(ctx context.Context, backupDir string, keepCount int, dryRun bool) (int, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := rotate(ctx, filepath.Join(backupDir, entry.Name()), keepCount, dryRun)
		if err != nil {
			logger.Warn(ctx, "Cannot rotate {{_Folder_}}%s{{|-|}}: %v", entry.Name(), err)
			continue
		}
		total += n
	}
	return total, nil
}
