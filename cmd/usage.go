package cmd

import (
	"StackSnap/internal/console"
	"StackSnap/internal/constants"
	"StackSnap/internal/version"
	"fmt"
	"strings"
)

// PrintHelp prints usage information.
// If target is empty, prints global usage.
// If target is specified, prints usage for that specific flag/command.
func PrintHelp(target string) {
	fmt.Println(console.Parse(GetUsage(target)))
}

// GetUsage returns usage information as a string.
// If target is empty, returns global usage.
// If target is specified, returns usage for that specific flag/command.
func GetUsage(target string) string {
	var sb strings.Builder
	printStr := func(s string) {
		sb.WriteString(s + "\n")
	}

	appName := version.ApplicationName
	appCmd := version.CommandName

	if target == "" {
		printStr(fmt.Sprintf("Usage: {{_UsageCommand_}}%s{{|-|}} [{{_UsageCommand_}}<Flags>{{|-|}}] [{{_UsageCommand_}}<Command>{{|-|}}]", appCmd))
		printStr("")
		printStr(fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", appName, version.Version))
		printStr(fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} backs up Portainer stack definitions to a local directory.", appName))
		printStr("Run without any options to back up every stack using the configured settings.")
		printStr("")
		printStr("Stacks are discovered through the Portainer API when a URL and API key are")
		printStr("configured, or read directly from the Portainer data volume with '{{_UsageCommand_}}--volume{{|-|}}'.")
		printStr("Each run writes '{{_UsageFile_}}<stack>_<timestamp>.yml{{|-|}}' plus optional env and metadata")
		printStr("files, then removes runs older than the configured keep count.")
		printStr("")
		printStr("Flags:")
		printStr("")
	}

	showAll := target == ""

	match := func(opts ...string) bool {
		if showAll {
			return true
		}
		for _, o := range opts {
			if o == target {
				return true
			}
		}
		return false
	}

	// Flags
	if match("-d", "--backup-dir") {
		printStr("{{_UsageCommand_}}-d --backup-dir{{|-|}} {{_UsageFile_}}<dir>{{|-|}}")
		printStr("	Write backups under the specified directory instead of the configured one.")
	}
	if match("-v", "--volume") {
		printStr("{{_UsageCommand_}}-v --volume{{|-|}} [{{_UsageVar_}}<name>{{|-|}}]")
		printStr("	Discover stacks from the Portainer data volume instead of the API.")
		printStr(fmt.Sprintf("	Defaults to the '{{_UsageVar_}}%s{{|-|}}' volume if no name is given.", constants.DefaultVolumeName))
	}
	if match("-u", "--url") {
		printStr("{{_UsageCommand_}}-u --url{{|-|}} {{_UsageURL_}}<url>{{|-|}}")
		printStr("	Portainer URL for API discovery.")
	}
	if match("-k", "--api-key") {
		printStr("{{_UsageCommand_}}-k --api-key{{|-|}} {{_UsageVar_}}<key>{{|-|}}")
		printStr("	Portainer API key for API discovery.")
	}
	if match("-c", "--keep-count") {
		printStr("{{_UsageCommand_}}-c --keep-count{{|-|}} {{_UsageVar_}}<n>{{|-|}}")
		printStr("	Keep the newest {{_UsageVar_}}<n>{{|-|}} backup runs per stack when rotating.")
	}
	if match("-e", "--backup-envs") {
		printStr("{{_UsageCommand_}}-e --backup-envs{{|-|}}")
		printStr("	Also write stack environment variables to a '{{_UsageFile_}}.env{{|-|}}' file per run.")
	}
	if match("-s", "--simple") {
		printStr("{{_UsageCommand_}}-s --simple{{|-|}}")
		printStr("	Back up compose files only, skipping env and metadata files.")
	}
	if match("-n", "--dry-run") {
		printStr("{{_UsageCommand_}}-n --dry-run{{|-|}}")
		printStr("	Log what would be written or removed without touching the backup directory.")
	}
	if match("--show-changes") {
		printStr("{{_UsageCommand_}}--show-changes{{|-|}}")
		printStr("	Show a line diff between each stack and its previous backup.")
	}
	if match("--git-commit") {
		printStr("{{_UsageCommand_}}--git-commit{{|-|}}")
		printStr("	Commit the backup directory to a git repository after the run.")
	}
	if match("--verbose") {
		printStr("{{_UsageCommand_}}--verbose{{|-|}}")
		printStr("	Verbose")
	}
	if match("-x", "--debug") {
		printStr("{{_UsageCommand_}}-x --debug{{|-|}}")
		printStr("	Debug")
	}
	if match("-y", "--yes") {
		printStr("{{_UsageCommand_}}-y --yes{{|-|}}")
		printStr("	Assume Yes for all prompts")
	}

	if showAll {
		printStr("")
		printStr("Commands:")
		printStr("")
	}

	// Commands
	if match("--report") {
		printStr("{{_UsageCommand_}}--report{{|-|}}")
		printStr("	Show a table of existing backups per stack.")
	}
	if match("--report-compact") {
		printStr("{{_UsageCommand_}}--report-compact{{|-|}}")
		printStr("	Show one line per stack, suitable for scripting.")
	}
	if match("--prune") {
		printStr("{{_UsageCommand_}}--prune{{|-|}}")
		printStr("	Apply rotation to the backup directory without taking a new backup.")
	}
	if match("--update") {
		printStr("{{_UsageCommand_}}--update{{|-|}}")
		printStr(fmt.Sprintf("	Update {{_ApplicationName_}}%s{{|-|}} using GitHub Releases.", appName))
		printStr("{{_UsageCommand_}}--update{{|-|}} {{_UsageVar_}}<VersionOrChannel>{{|-|}}")
		printStr("	Update to a specific version like 'v1.2.0' or a channel like 'beta'.")
	}
	if match("-h", "--help") {
		printStr("{{_UsageCommand_}}-h --help{{|-|}}")
		printStr("	Show this usage information")
		printStr("{{_UsageCommand_}}-h --help{{|-|}} {{_UsageOption_}}<option>{{|-|}}")
		printStr("	Show the usage of the specified option")
	}
	if match("-V", "--version") {
		printStr("{{_UsageCommand_}}-V --version{{|-|}}")
		printStr("	Display version information")
	}

	return strings.TrimRight(sb.String(), "\n")
}
