package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/docker/go-units"

	"StackSnap/internal/backup"
	"StackSnap/internal/console"
	"StackSnap/internal/constants"
	"StackSnap/internal/logger"
	"StackSnap/internal/strutil"
)

// stackSummary aggregates the backups present for one stack directory.
type stackSummary struct {
	Name      string
	Runs      int
	Files     int
	SizeBytes int64
	Latest    string
}

// collect walks the backup destination and summarizes each stack
// directory by its timestamp groups.
func collect(backupDir string) ([]stackSummary, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return nil, fmt.Errorf("cannot read backup directory: %w", err)
	}

	var summaries []stackSummary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		stackDir := filepath.Join(backupDir, entry.Name())
		files, err := os.ReadDir(stackDir)
		if err != nil {
			continue
		}

		summary := stackSummary{Name: entry.Name()}
		groups := make(map[string]bool)

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			key := timestampOf(file.Name())
			if key == "" {
				continue
			}
			groups[key] = true
			summary.Files++
			if info, err := file.Info(); err == nil {
				summary.SizeBytes += info.Size()
			}
			if key > summary.Latest {
				summary.Latest = key
			}
		}

		if summary.Files == 0 {
			continue
		}
		summary.Runs = len(groups)
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// timestampOf extracts the timestamp token from a backup file name,
// returning "" for files that are not backups.
func timestampOf(name string) string {
	for _, suffix := range []string{
		constants.MetadataFileSuffix,
		constants.ComposeFileSuffix + constants.InvalidFileSuffix,
		constants.ComposeFileSuffix,
		constants.EnvFileSuffix,
	} {
		if strings.HasSuffix(name, suffix) {
			base := strings.TrimSuffix(name, suffix)
			if idx := strings.LastIndex(base, "_"); idx >= 0 && idx < len(base)-1 {
				return base[idx+1:]
			}
			return ""
		}
	}
	return ""
}

// formatLatest renders a timestamp token for display.
func formatLatest(token string) string {
	t, err := time.ParseInLocation(constants.TimestampLayout, token, time.Local)
	if err != nil {
		return token
	}
	return t.Format("2006-01-02 15:04:05")
}

// Print renders a table of all stacks in the backup destination with
// their run counts, sizes and latest backup times.
func Print(ctx context.Context, backupDir string, useLineChars bool) error {
	summaries, err := collect(backupDir)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		logger.Notice(ctx, "No backups found in {{_Folder_}}%s{{|-|}}", backupDir)
		return nil
	}

	manifest, manifestErr := backup.ReadManifest(backupDir)
	verified := verifiedByStack(manifest)

	headers := []string{
		"{{_Stack_}}Stack{{|-|}}",
		"Runs",
		"Files",
		"Size",
		"Latest",
		"Verified",
	}

	var data []string
	var totalSize int64
	for _, s := range summaries {
		data = append(data,
			"{{_Stack_}}"+s.Name+"{{|-|}}",
			fmt.Sprint(s.Runs),
			fmt.Sprint(s.Files),
			units.HumanSize(float64(s.SizeBytes)),
			formatLatest(s.Latest),
			verifiedMarker(verified, s.Name),
		)
		totalSize += s.SizeBytes
	}

	console.PrintTable(headers, data, useLineChars)
	logger.Display(ctx, "%d stacks, %s total", len(summaries), units.HumanSize(float64(totalSize)))

	if manifestErr == nil {
		logger.Display(ctx, "Last run: %s from %s (%d succeeded, %d failed)",
			manifest.Timestamp.Format("2006-01-02 15:04:05"),
			manifest.Source, manifest.Succeeded, manifest.Failed)
	}

	return nil
}

// verifiedByStack maps sanitized stack names to whether their entry in
// the last run's manifest carries a checksummed write and no error.
// Stacks absent from the manifest stay absent from the map.
func verifiedByStack(m *backup.Manifest) map[string]bool {
	out := make(map[string]bool)
	if m == nil {
		return out
	}
	for _, e := range m.Stacks {
		out[strutil.SanitizeName(e.Stack)] = e.Error == "" && e.Checksum != ""
	}
	return out
}

// verifiedMarker renders the Verified cell: yes/no from the manifest,
// "-" for stacks the last run never saw.
func verifiedMarker(verified map[string]bool, name string) string {
	v, ok := verified[name]
	if !ok {
		return "-"
	}
	if v {
		return "{{_Yes_}}yes{{|-|}}"
	}
	return "{{_No_}}no{{|-|}}"
}

// PrintCompact renders one line per stack for script consumption.
func PrintCompact(ctx context.Context, backupDir string) error {
	summaries, err := collect(backupDir)
	if err != nil {
		return err
	}

	for _, s := range summaries {
		logger.Display(ctx, "%s %d %d %d %s", s.Name, s.Runs, s.Files, s.SizeBytes, s.Latest)
	}
	return nil
}
