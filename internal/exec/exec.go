package exec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"StackSnap/internal/logger"
)

// RunAndLog executes a command, captures its combined output, and logs each
// line at the requested notice type.
//
// Parameters:
//   - runningNoticeType: Notice type for the "Running: ..." message. Empty string to skip.
//   - outputNoticeType: Notice type for output lines. May carry a prefix like
//     "docker:info" which tags each line. Empty string streams output directly.
//   - errorNoticeType: Notice type for error logging. Empty string to skip.
//   - errorMessage: Message to log on error.
func RunAndLog(ctx context.Context, runningNoticeType, outputNoticeType, errorNoticeType, errorMessage, command string, args ...string) error {
	cmdText := command
	if len(args) > 0 {
		cmdText = fmt.Sprintf("%s %s", command, strings.Join(args, " "))
	}

	if runningNoticeType != "" {
		logByType(ctx, runningNoticeType, "Running: {{_RunningCommand_}}%s{{|-|}}", cmdText)
	}

	cmd := exec.CommandContext(ctx, command, args...)
	var outputBuf bytes.Buffer

	if outputNoticeType != "" {
		cmd.Stdout = &outputBuf
		cmd.Stderr = &outputBuf
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()

	if outputNoticeType != "" && outputBuf.Len() > 0 {
		prefix := ""
		noticeType := outputNoticeType
		if strings.Contains(outputNoticeType, ":") {
			parts := strings.SplitN(outputNoticeType, ":", 2)
			prefix = parts[0] + ":"
			noticeType = parts[1]
		}

		scanner := bufio.NewScanner(&outputBuf)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if prefix != "" {
				logByType(ctx, noticeType, "{{_RunningCommand_}}%s{{|-|}} %s", prefix, line)
			} else {
				logByType(ctx, noticeType, line)
			}
		}
	}

	if err != nil {
		if errorNoticeType != "" && errorMessage != "" {
			logByType(ctx, errorNoticeType, errorMessage)
			logByType(ctx, errorNoticeType, "Failing command: {{_FailingCommand_}}%s{{|-|}}", cmdText)
		}
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}

// RunShellAndLog runs a shell command line through "sh -c", logging like
// RunAndLog. Used for user-configured hook commands.
func RunShellAndLog(ctx context.Context, outputNoticeType, errorNoticeType, errorMessage, commandLine string) error {
	return RunAndLog(ctx, "info", outputNoticeType, errorNoticeType, errorMessage, "sh", "-c", commandLine)
}

func logByType(ctx context.Context, noticeType string, format string, args ...any) {
	switch strings.ToLower(noticeType) {
	case "notice":
		logger.Notice(ctx, format, args...)
	case "info":
		logger.Info(ctx, format, args...)
	case "warn", "warning":
		logger.Warn(ctx, format, args...)
	case "error":
		logger.Error(ctx, format, args...)
	case "debug":
		logger.Debug(ctx, format, args...)
	default:
		logger.Notice(ctx, format, args...)
	}
}
