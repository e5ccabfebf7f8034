package console

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

var (
	// semanticMap stores semantic tag -> style format mappings (e.g., "version" -> "[cyan]")
	semanticMap map[string]string

	// ansiMap stores color/modifier names -> ANSI code mappings
	ansiMap map[string]string

	// semanticRegex matches {{_content_}} format for semantic tags
	semanticRegex = regexp.MustCompile(`\{\{_([A-Za-z0-9_]+)_\}\}`)

	// directRegex matches {{|content|}} format for direct style codes
	directRegex = regexp.MustCompile(`\{\{\|([A-Za-z0-9_:\-#]+)\|\}\}`)

	// csiRegex matches ANSI CSI escape sequences
	csiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

	isTTYGlobal bool
)

func init() {
	// Check TTY once
	stat, _ := os.Stdout.Stat()
	isTTYGlobal = (stat.Mode() & os.ModeCharDevice) != 0
}

// ensureMaps ensures color maps are built if they were missed by init
func ensureMaps() {
	if len(ansiMap) == 0 {
		BuildColorMap()
	}
}

// BuildColorMap initializes the ANSI code mappings and semantic tag definitions.
// Semantic tags preserved across rebuilds come from the Colors struct fields.
func BuildColorMap() {
	ansiMap = make(map[string]string)
	if semanticMap == nil {
		semanticMap = make(map[string]string)
	}

	// Standard ANSI color/modifier mappings
	ansiMap["-"] = CodeReset
	ansiMap["reset"] = CodeReset

	// Foreground colors
	ansiMap["black"] = CodeBlack
	ansiMap["red"] = CodeRed
	ansiMap["green"] = CodeGreen
	ansiMap["yellow"] = CodeYellow
	ansiMap["blue"] = CodeBlue
	ansiMap["magenta"] = CodeMagenta
	ansiMap["cyan"] = CodeCyan
	ansiMap["white"] = CodeWhite

	// Foreground colors (Bright)
	ansiMap["bright-black"] = CodeBrightBlack
	ansiMap["bright-red"] = CodeBrightRed
	ansiMap["bright-green"] = CodeBrightGreen
	ansiMap["bright-yellow"] = CodeBrightYellow
	ansiMap["bright-blue"] = CodeBrightBlue
	ansiMap["bright-magenta"] = CodeBrightMagenta
	ansiMap["bright-cyan"] = CodeBrightCyan
	ansiMap["bright-white"] = CodeBrightWhite

	// Background colors (with "bg" suffix for fg:bg parsing)
	ansiMap["blackbg"] = CodeBlackBg
	ansiMap["redbg"] = CodeRedBg
	ansiMap["greenbg"] = CodeGreenBg
	ansiMap["yellowbg"] = CodeYellowBg
	ansiMap["bluebg"] = CodeBlueBg
	ansiMap["magentabg"] = CodeMagentaBg
	ansiMap["cyanbg"] = CodeCyanBg
	ansiMap["whitebg"] = CodeWhiteBg

	// Background colors (Bright)
	ansiMap["bright-blackbg"] = CodeBrightBlackBg
	ansiMap["bright-redbg"] = CodeBrightRedBg
	ansiMap["bright-greenbg"] = CodeBrightGreenBg
	ansiMap["bright-yellowbg"] = CodeBrightYellowBg
	ansiMap["bright-bluebg"] = CodeBrightBlueBg
	ansiMap["bright-magentabg"] = CodeBrightMagentaBg
	ansiMap["bright-cyanbg"] = CodeBrightCyanBg
	ansiMap["bright-whitebg"] = CodeBrightWhiteBg

	// Flag character mappings (upper = on, lower = off)
	ansiMap["B"] = CodeBold
	ansiMap["b"] = CodeBoldOff
	ansiMap["D"] = CodeDim
	ansiMap["d"] = CodeDimOff
	ansiMap["I"] = CodeItalic
	ansiMap["i"] = CodeItalicOff
	ansiMap["U"] = CodeUnderline
	ansiMap["u"] = CodeUnderlineOff
	ansiMap["L"] = CodeBlink
	ansiMap["l"] = CodeBlinkOff
	ansiMap["R"] = CodeReverse
	ansiMap["r"] = CodeReverseOff
	ansiMap["S"] = CodeStrikethrough
	ansiMap["s"] = CodeStrikethroughOff

	// Build semantic map from Colors struct
	val := reflect.ValueOf(Colors)
	typ := val.Type()

	// Whitelist of base codes that are NOT semantic
	baseKeys := map[string]bool{
		"reset": true, "bold": true, "dim": true, "underline": true, "blink": true, "reverse": true,
		"black": true, "red": true, "green": true, "yellow": true, "blue": true, "magenta": true, "cyan": true, "white": true,
		"blackbg": true, "redbg": true, "greenbg": true, "yellowbg": true, "bluebg": true, "magentabg": true, "cyanbg": true, "whitebg": true,
	}

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		key := strings.ToLower(field.Name)
		if !baseKeys[key] {
			// Store the style-format value (e.g., "[cyan::B]")
			semanticMap[key] = val.Field(i).String()
		}
	}
}

// RegisterSemanticTag registers a semantic tag with its style-format value
func RegisterSemanticTag(name, styleValue string) {
	ensureMaps()
	semanticMap[strings.ToLower(name)] = styleValue
}

// ToANSI converts semantic and direct tags to ANSI escape sequences
// - {{_Tag_}} : Semantic lookup -> ANSI
// - {{|code|}} : Direct fg:bg:flags style -> ANSI
func ToANSI(text string) string {
	ensureMaps()
	if !isTTYGlobal {
		// Not a TTY, strip all codes
		return Strip(text)
	}

	// 1. Process semantic tags {{_Tag_}}
	text = semanticRegex.ReplaceAllStringFunc(text, func(match string) string {
		content := match[3 : len(match)-3] // Strip "{{_" and "_}}"
		content = strings.ToLower(content)

		// Check semantic map, then resolve style tag to ANSI
		if styleTag, ok := semanticMap[content]; ok {
			return styleTagToANSI(styleTag)
		}

		// Unknown semantic tag - strip it
		return ""
	})

	// 2. Process direct tags {{|code|}} -> ANSI
	text = directRegex.ReplaceAllStringFunc(text, func(match string) string {
		content := match[3 : len(match)-3] // Strip "{{|" and "|}}"
		return parseStyleCodeToANSI(content)
	})

	return text
}

// Strip removes all semantic and direct tags from text, leaving plain text
func Strip(text string) string {
	text = semanticRegex.ReplaceAllString(text, "")
	text = directRegex.ReplaceAllString(text, "")
	return StripANSI(text)
}

// StripANSI removes raw ANSI escape sequences from text
func StripANSI(text string) string {
	return csiRegex.ReplaceAllString(text, "")
}

// styleTagToANSI converts a style-format tag like "[cyan::B]" to ANSI codes
func styleTagToANSI(styleTag string) string {
	if len(styleTag) < 2 || styleTag[0] != '[' || styleTag[len(styleTag)-1] != ']' {
		return ""
	}
	return parseStyleCodeToANSI(styleTag[1 : len(styleTag)-1])
}

// parseStyleCodeToANSI parses fg:bg:flags format and returns ANSI codes
func parseStyleCodeToANSI(content string) string {
	if content == "-" {
		return CodeReset
	}

	// Split by colons: fg:bg:flags
	parts := strings.Split(content, ":")
	var codes strings.Builder

	// Part 0: Foreground color
	if len(parts) > 0 && parts[0] != "" && parts[0] != "-" {
		colorName := strings.ToLower(parts[0])
		if strings.HasPrefix(colorName, "#") {
			codes.WriteString(hexToANSI(colorName, false))
		} else if code, ok := ansiMap[colorName]; ok {
			codes.WriteString(code)
		}
	}

	// Part 1: Background color
	if len(parts) > 1 && parts[1] != "" && parts[1] != "-" {
		colorName := strings.ToLower(parts[1])
		if strings.HasPrefix(colorName, "#") {
			codes.WriteString(hexToANSI(colorName, true))
		} else if code, ok := ansiMap[colorName+"bg"]; ok {
			codes.WriteString(code)
		}
	}

	// Part 2: Flags (each character is a flag: B=bold, U=underline, etc.)
	if len(parts) > 2 && parts[2] != "" {
		for _, flag := range parts[2] {
			if code, ok := ansiMap[string(flag)]; ok {
				codes.WriteString(code)
			}
		}
	}

	return codes.String()
}

// wrapSequence ensures a color sequence part is wrapped in CSI delimiters
func wrapSequence(seq string) string {
	if seq == "" {
		return ""
	}
	if strings.HasPrefix(seq, "\x1b[") {
		return seq
	}
	return "\033[" + seq + "m"
}

// Parse is a convenience alias for ToANSI
func Parse(text string) string {
	return ToANSI(text)
}

// Sprintf formats according to a format specifier and returns the string with ANSI codes
func Sprintf(format string, a ...any) string {
	return ToANSI(fmt.Sprintf(format, a...))
}

// Println prints a line with ANSI color codes parsed
func Println(a ...any) {
	fmt.Println(ToANSI(fmt.Sprint(a...)))
}
