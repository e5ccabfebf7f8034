package backup

import (
	"context"

	"StackSnap/internal/config"
	"StackSnap/internal/exec"
	"StackSnap/internal/logger"
)

// runHooks executes the configured post-run hook for the outcome.
// Hook failures are logged but never change the run result.
func runHooks(ctx context.Context, hooks config.HooksConfig, succeeded bool) {
	hook := hooks.OnSuccess
	label := "on_success"
	if !succeeded {
		hook = hooks.OnFailure
		label = "on_failure"
	}
	if hook == "" {
		return
	}

	logger.Info(ctx, "Running {{_Var_}}%s{{|-|}} hook", label)
	if err := exec.RunShellAndLog(ctx, "hook:info", "warn", "Hook command failed", hook); err != nil {
		logger.Warn(ctx, "The %s hook exited with an error: %v", label, err)
	}
}
