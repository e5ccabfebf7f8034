package backup

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"StackSnap/internal/constants"
	"StackSnap/internal/logger"
)

// previousCompose returns the newest existing compose backup for a
// stack directory, or "" when none exists yet.
func previousCompose(stackDir string) (string, []byte) {
	entries, err := os.ReadDir(stackDir)
	if err != nil {
		return "", nil
	}

	var composeFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), constants.ComposeFileSuffix) {
			composeFiles = append(composeFiles, entry.Name())
		}
	}
	if len(composeFiles) == 0 {
		return "", nil
	}

	// Timestamped names sort lexically oldest-first
	sort.Strings(composeFiles)
	newest := composeFiles[len(composeFiles)-1]
	content, err := os.ReadFile(filepath.Join(stackDir, newest))
	if err != nil {
		return "", nil
	}
	return newest, content
}

// logChanges diffs new compose content against the previous backup and
// logs added and removed lines. Returns true when the content differs.
func logChanges(ctx context.Context, stackName, prevName string, prev, next []byte) bool {
	if string(prev) == string(next) {
		logger.Info(ctx, "{{_Stack_}}%s{{|-|}}: no changes since {{_File_}}%s{{|-|}}", stackName, prevName)
		return false
	}

	dmp := diffmatchpatch.New()
	prevLines, nextLines, lines := dmp.DiffLinesToChars(string(prev), string(next))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(prevLines, nextLines, false), lines)

	logger.Notice(ctx, "{{_Stack_}}%s{{|-|}}: changed since {{_File_}}%s{{|-|}}", stackName, prevName)
	for _, diff := range diffs {
		for _, line := range strings.Split(strings.TrimRight(diff.Text, "\n"), "\n") {
			switch diff.Type {
			case diffmatchpatch.DiffInsert:
				logger.Notice(ctx, "{{_Yes_}}+ %s{{|-|}}", line)
			case diffmatchpatch.DiffDelete:
				logger.Notice(ctx, "{{_No_}}- %s{{|-|}}", line)
			}
		}
	}
	return true
}
