package update

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"

	"StackSnap/internal/console"
	"StackSnap/internal/logger"
	"StackSnap/internal/version"
)

// RepoSlug is the GitHub repository releases are published to.
const RepoSlug = "stacksnap/stacksnap"

var (
	// UpdateAvailable is true when a newer release was detected.
	UpdateAvailable bool
	// LatestVersion is the tag name of the latest release.
	LatestVersion string
)

// SelfUpdate replaces the running binary with the latest GitHub
// release, or a specific version when requestedVersion starts with "v".
func SelfUpdate(ctx context.Context, force bool, yes bool, requestedVersion string) error {
	repo := selfupdate.ParseSlug(RepoSlug)

	currentChannel := GetCurrentChannel()
	if requestedVersion == "" {
		requestedVersion = currentChannel
	}

	updater, err := getUpdater(requestedVersion)
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	var (
		latest *selfupdate.Release
		found  bool
	)
	if strings.HasPrefix(requestedVersion, "v") {
		latest, found, err = updater.DetectVersion(ctx, repo, requestedVersion)
	} else {
		latest, found, err = updater.DetectLatest(ctx, repo)
	}
	if err != nil {
		return fmt.Errorf("failed to detect latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no version found for target %s", requestedVersion)
	}

	remoteVersion := latest.Version()
	currentVersion := version.Version

	if !strings.HasPrefix(requestedVersion, "v") {
		remoteChannel := GetChannelFromVersion(remoteVersion)
		if !strings.EqualFold(remoteChannel, currentChannel) && !strings.EqualFold(requestedVersion, remoteChannel) {
			logger.Warn(ctx, "{{_ApplicationName_}}%s{{|-|}} is on channel '%s', but the latest release is on channel '%s'. Ignoring.", version.ApplicationName, currentChannel, remoteChannel)
			return nil
		}
	}

	question := ""
	initiationNotice := ""
	noNotice := fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} will not be updated.", version.ApplicationName)

	noticePrinter := func(ctx context.Context, msg string, args ...any) {
		logger.Notice(ctx, msg, args...)
	}

	if currentVersion == remoteVersion {
		if force {
			question = fmt.Sprintf("Would you like to forcefully re-apply {{_ApplicationName_}}%s{{|-|}} update '{{_Version_}}%s{{|-|}}'?", version.ApplicationName, currentVersion)
			initiationNotice = fmt.Sprintf("Forcefully re-applying {{_ApplicationName_}}%s{{|-|}} update '{{_Version_}}%s{{|-|}}'", version.ApplicationName, remoteVersion)
		} else {
			logger.Notice(ctx, "{{_ApplicationName_}}%s{{|-|}} is already up to date.", version.ApplicationName)
			logger.Notice(ctx, "Current version is '{{_Version_}}%s{{|-|}}'", currentVersion)
			return nil
		}
	} else {
		question = fmt.Sprintf("Would you like to update {{_ApplicationName_}}%s{{|-|}} from '{{_Version_}}%s{{|-|}}' to '{{_Version_}}%s{{|-|}}' now?", version.ApplicationName, currentVersion, remoteVersion)
		initiationNotice = fmt.Sprintf("Updating {{_ApplicationName_}}%s{{|-|}} from '{{_Version_}}%s{{|-|}}' to '{{_Version_}}%s{{|-|}}'", version.ApplicationName, currentVersion, remoteVersion)
	}

	if !console.QuestionPrompt(ctx, noticePrinter, question, "Y", yes) {
		logger.Notice(ctx, noNotice)
		return nil
	}

	logger.Notice(ctx, initiationNotice)
	if strings.HasPrefix(requestedVersion, "v") {
		err = selfupdate.UpdateTo(ctx, version.Version, requestedVersion, RepoSlug)
	} else {
		_, err = updater.UpdateSelf(ctx, version.Version, repo)
	}

	if err != nil {
		if strings.Contains(err.Error(), "permission denied") || strings.Contains(err.Error(), "Access is denied") {
			logger.Warn(ctx, "Permission denied. Attempting to run with sudo...")
			exe, _ := os.Executable()
			args := os.Args[1:]
			cmd := exec.Command("sudo", append([]string{exe}, args...)...)
			cmd.Stdin = os.Stdin
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if runErr := cmd.Run(); runErr != nil {
				return fmt.Errorf("failed to update with sudo: %w", runErr)
			}
			return nil
		}
		return fmt.Errorf("failed to update application: %w", err)
	}

	logger.Notice(ctx, "Updated {{_ApplicationName_}}%s{{|-|}} to '{{_Version_}}%s{{|-|}}'", version.ApplicationName, remoteVersion)

	return nil
}

// CheckUpdates performs a startup update check and notifies the user
// when a newer release exists.
func CheckUpdates(ctx context.Context) {
	UpdateAvailable, LatestVersion = checkAppUpdate(ctx)

	if UpdateAvailable {
		msg := []string{
			GetVersionDisplay(),
			fmt.Sprintf("An update to {{_ApplicationName_}}%s{{|-|}} is available.", version.ApplicationName),
			fmt.Sprintf("Run '{{_UserCommand_}}%s --update{{|-|}}' to update to version '{{_Version_}}%s{{|-|}}'.", version.CommandName, LatestVersion),
		}
		logger.Warn(ctx, msg)
	} else {
		logger.Info(ctx, GetVersionDisplay())
	}
}

// GetVersionDisplay returns the formatted application version line.
func GetVersionDisplay() string {
	return fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", version.ApplicationName, version.Version)
}

func checkAppUpdate(ctx context.Context) (bool, string) {
	repo := selfupdate.ParseSlug(RepoSlug)

	channel := GetCurrentChannel()
	updater, err := getUpdater(channel)
	if err != nil {
		return false, ""
	}

	latest, found, err := updater.DetectLatest(ctx, repo)
	if err != nil || !found {
		return false, ""
	}

	remoteVersion := latest.Version()
	if !strings.EqualFold(GetChannelFromVersion(remoteVersion), channel) {
		return false, ""
	}

	latestVer, err := semver.NewVersion(remoteVersion)
	if err != nil {
		return false, ""
	}
	currentVer, err := semver.NewVersion(version.Version)
	if err != nil {
		return false, ""
	}

	if latestVer.GreaterThan(currentVer) {
		return true, latest.Version()
	}
	return false, version.Version
}

// getUpdater returns a configured updater; prereleases are only
// considered off the stable channel.
func getUpdater(channel string) (*selfupdate.Updater, error) {
	cfg := selfupdate.Config{
		Prerelease: !strings.EqualFold(channel, "stable"),
	}
	return selfupdate.NewUpdater(cfg)
}

// GetCurrentChannel returns the update channel for the running binary.
func GetCurrentChannel() string {
	return GetChannelFromVersion(version.Version)
}

// GetChannelFromVersion extracts the channel suffix from a version
// string; versions without a suffix are on the stable channel.
func GetChannelFromVersion(v string) string {
	parts := strings.SplitN(v, "-", 2)
	if len(parts) > 1 {
		return parts[1]
	}
	return "stable"
}
