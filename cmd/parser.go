package cmd

import (
	"StackSnap/internal/version"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ParseError wraps argument parsing errors to provide rich caret-style output
type ParseError struct {
	Args           []string // The full argument list passed to Parse
	Index          int      // The index where the error occurred
	Message        string   // The specific error message
	FailingCommand string   // The command being processed (e.g. "--update")
}

func (e *ParseError) Error() string {
	indent := "   "

	// Build command line string
	var cmdLineParts []string

	cmdLineParts = append(cmdLineParts, fmt.Sprintf("{{_UserCommand_}}%s{{|-|}}", version.CommandName))

	for i := 0; i <= e.Index && i < len(e.Args); i++ {
		str := e.Args[i]
		if i == e.Index {
			// Highlight failing option
			str = fmt.Sprintf("{{_UserCommandError_}}%s{{|-|}}", str)
		} else {
			str = fmt.Sprintf("{{_UserCommand_}}%s{{|-|}}", str)
		}
		cmdLineParts = append(cmdLineParts, str)
	}

	cmdLineStr := "'" + strings.Join(cmdLineParts, " ") + "'"
	caretOffset := len(indent) + 1 + len(version.CommandName) + 1
	for i := 0; i < e.Index && i < len(e.Args); i++ {
		caretOffset += len(e.Args[i]) + 1
	}
	pointerLine := strings.Repeat(" ", caretOffset) + "{{_UserCommandErrorMarker_}}^{{|-|}}"

	// Message might contain %c (command) or %o (option)
	failingOpt := ""
	if e.Index < len(e.Args) {
		failingOpt = e.Args[e.Index]
	}

	formattedCmd := fmt.Sprintf("'{{_UserCommand_}}%s{{|-|}}'", e.FailingCommand)
	formattedOpt := fmt.Sprintf("'{{_UserCommand_}}%s{{|-|}}'", failingOpt)

	replacer := strings.NewReplacer(
		"%c", formattedCmd,
		"%o", formattedOpt,
	)
	formattedMsg := replacer.Replace(e.Message)

	out := fmt.Sprintf("Error in command line:\n\n%s%s\n%s\n\n%s%s\n", indent, cmdLineStr, pointerLine, indent, formattedMsg)

	if e.FailingCommand != "" {
		out += fmt.Sprintf("\n%sUsage is:\n", indent)
		usageStr := GetUsage(e.FailingCommand)
		lines := strings.Split(usageStr, "\n")
		for _, line := range lines {
			out += fmt.Sprintf("%s%s\n", indent, line)
		}
	} else {
		out += fmt.Sprintf("\n%sRun '{{_UserCommand_}}%s --help{{|-|}}' for usage.\n", indent, version.CommandName)
	}

	return out
}

// CommandGroup represents a parsed group of flags and a command with its arguments
type CommandGroup struct {
	Flags   []string
	Command string
	Args    []string
}

// FullSlice returns the reconstructed slice of strings for the group
func (cg CommandGroup) FullSlice() []string {
	var s []string
	s = append(s, cg.Flags...)
	if cg.Command != "" {
		s = append(s, cg.Command)
	}
	s = append(s, cg.Args...)
	return s
}

// CommandSlice returns the command and its arguments as a slice
func (cg CommandGroup) CommandSlice() []string {
	var s []string
	if cg.Command != "" {
		s = append(s, cg.Command)
	}
	s = append(s, cg.Args...)
	return s
}

// Flatten converts a slice of CommandGroups into a single slice of strings
func Flatten(groups []CommandGroup) []string {
	var s []string
	for _, g := range groups {
		s = append(s, g.FullSlice()...)
	}
	return s
}

// Modifier flags accumulate on the current group until a command terminates
// it. A group with no command at the end of the line is the implicit backup
// run. Value modifiers are stored in Flags as flag followed by its value.
var (
	// modifiers that take no value
	boolModifiers = map[string]bool{
		"--verbose": true,
		"-x": true, "--debug": true,
		"-y": true, "--yes": true,
		"-e": true, "--backup-envs": true,
		"-s": true, "--simple": true,
		"-n": true, "--dry-run": true,
		"--show-changes": true,
		"--git-commit":   true,
	}

	// modifiers that require one value
	valueModifiers = map[string]bool{
		"-d": true, "--backup-dir": true,
		"-u": true, "--url": true,
		"-k": true, "--api-key": true,
		"-c": true, "--keep-count": true,
	}

	// modifiers whose value is optional
	optValueModifiers = map[string]bool{
		"-v": true, "--volume": true,
	}
)

// Parse parses the raw command line arguments into groups of command operations.
func Parse(args []string) ([]CommandGroup, error) {
	// Initialize flags to make sure help text is available
	InitFlags()

	// Pre-process args to expand combined short flags (e.g. -ns -> -n -s)
	var expandedArgs []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") && len(arg) > 2 {
			chars := arg[1:]
			for _, c := range chars {
				expandedArgs = append(expandedArgs, fmt.Sprintf("-%c", c))
			}
		} else {
			expandedArgs = append(expandedArgs, arg)
		}
	}

	var groups []CommandGroup
	var currentGroup CommandGroup
	var lastCommand string

	i := 0
	for i < len(expandedArgs) {
		arg := expandedArgs[i]

		if !strings.HasPrefix(arg, "-") {
			return nil, &ParseError{Args: expandedArgs, Index: i, Message: fmt.Sprintf("invalid option '%s'", arg), FailingCommand: lastCommand}
		}

		// Split --flag=value forms
		flagName := arg
		flagValue := ""
		hasValue := false
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName = parts[0]
			flagValue = parts[1]
			hasValue = true
		}

		if boolModifiers[flagName] {
			if hasValue {
				return nil, &ParseError{Args: expandedArgs, Index: i, FailingCommand: flagName, Message: "Option %c does not take a value."}
			}
			currentGroup.Flags = append(currentGroup.Flags, flagName)
			lastCommand = flagName
			i++
			continue
		}

		if valueModifiers[flagName] || optValueModifiers[flagName] {
			i++
			if !hasValue {
				if i < len(expandedArgs) && !strings.HasPrefix(expandedArgs[i], "-") {
					flagValue = expandedArgs[i]
					hasValue = true
					i++
				} else if valueModifiers[flagName] {
					return nil, &ParseError{Args: expandedArgs, Index: i - 1, FailingCommand: flagName, Message: "Option %c requires an argument."}
				}
			}
			currentGroup.Flags = append(currentGroup.Flags, flagName, flagValue)
			lastCommand = flagName
			continue
		}

		// Not a modifier: it's a command

		// Validate that the command is a known flag
		cmdName := strings.TrimLeft(flagName, "-")
		var validFlag *pflag.Flag
		if strings.HasPrefix(flagName, "--") {
			validFlag = pflag.Lookup(cmdName)
		} else if len(cmdName) == 1 {
			validFlag = pflag.CommandLine.ShorthandLookup(cmdName)
		}

		if validFlag == nil {
			return nil, &ParseError{Args: expandedArgs, Index: i, Message: "Invalid option %o"}
		}

		currentGroup.Command = flagName
		lastCommand = flagName
		cmd := flagName
		if hasValue {
			currentGroup.Args = append(currentGroup.Args, flagValue)
		}
		i++

		switch cmd {
		// Commands that accept an OPTIONAL argument
		case "--update":
			if !hasValue && i < len(expandedArgs) && !strings.HasPrefix(expandedArgs[i], "-") {
				currentGroup.Args = append(currentGroup.Args, expandedArgs[i])
				i++
			}

		case "-h", "--help":
			// Help allows an optional flag/command argument
			if i < len(expandedArgs) && strings.HasPrefix(expandedArgs[i], "-") {
				currentGroup.Args = append(currentGroup.Args, expandedArgs[i])
				i++
			}

		// Commands that take NO arguments
		case "-V", "--version",
			"--report", "--report-compact",
			"--prune":
			// Do nothing

		default:
			// Known flag that is not a command in this switch consumes
			// nothing. Stray arguments are caught as invalid options on
			// the next loop iteration.
		}

		// Command group finished
		groups = append(groups, currentGroup)
		currentGroup = CommandGroup{}
	}

	// Trailing modifiers without a command form the implicit backup group
	if len(currentGroup.Flags) > 0 {
		groups = append(groups, currentGroup)
	}

	return groups, nil
}
