package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"StackSnap/internal/logger"
	"StackSnap/internal/version"
)

// CommitBackupDir snapshots the backup directory into a git repository,
// initializing one on first use. Returns the short commit hash, or ""
// when the tree was already clean.
func CommitBackupDir(ctx context.Context, backupDir string, message string) (string, error) {
	repo, err := git.PlainOpen(backupDir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		logger.Info(ctx, "Initializing git repository in {{_Folder_}}%s{{|-|}}", backupDir)
		repo, err = git.PlainInit(backupDir, false)
	}
	if err != nil {
		return "", fmt.Errorf("cannot open git repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}

	if err := wt.AddGlob("."); err != nil {
		return "", fmt.Errorf("git add failed: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return "", err
	}
	if status.IsClean() {
		logger.Info(ctx, "Backup directory unchanged, nothing to commit")
		return "", nil
	}

	commit, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  version.ApplicationName,
			Email: "noreply@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("git commit failed: %w", err)
	}

	short := commit.String()
	if len(short) > 7 {
		short = short[:7]
	}
	logger.Notice(ctx, "Committed backup snapshot {{_Version_}}%s{{|-|}}", short)
	return short, nil
}
