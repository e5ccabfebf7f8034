package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"StackSnap/internal/constants"
	"StackSnap/internal/logger"
)

// checksum returns the hex sha256 of data.
func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeVerified writes content to path and confirms the bytes on disk
// match by size and sha256. Mismatches and write errors are retried up
// to the copy retry budget with a delay between attempts.
func writeVerified(ctx context.Context, path string, content []byte) error {
	var lastErr error

	for attempt := 1; attempt <= constants.CopyRetryAttempts; attempt++ {
		if attempt > 1 {
			logger.Info(ctx, "Retrying write of {{_File_}}%s{{|-|}} (attempt %d of %d)", path, attempt, constants.CopyRetryAttempts)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(constants.CopyRetryDelay):
			}
		}

		lastErr = writeVerifiedOnce(path, content)
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("write of %s failed after %d attempts: %w", path, constants.CopyRetryAttempts, lastErr)
}

func writeVerifiedOnce(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// Write to a temp name first so a torn write never replaces a
	// previous good backup.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}

	wrote, err := os.ReadFile(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if len(wrote) != len(content) {
		_ = os.Remove(tmp)
		return fmt.Errorf("size mismatch: wrote %d bytes, expected %d", len(wrote), len(content))
	}
	if checksum(wrote) != checksum(content) {
		_ = os.Remove(tmp)
		return fmt.Errorf("checksum mismatch after write")
	}

	return os.Rename(tmp, path)
}
