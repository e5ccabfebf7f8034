package console

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// preferredProfile stores the detected or forced color profile
var preferredProfile termenv.Profile

func init() {
	preferredProfile = detectProfile()
}

// GetPreferredProfile returns the detected or forced color profile
func GetPreferredProfile() termenv.Profile {
	return preferredProfile
}

// SetPreferredProfile explicitly sets the color profile (useful for testing)
func SetPreferredProfile(p termenv.Profile) {
	preferredProfile = p
}

func detectProfile() termenv.Profile {
	// 1. Check COLORTERM for explicit overrides
	colorTerm := strings.ToLower(os.Getenv("COLORTERM"))
	switch colorTerm {
	case "truecolor", "24bit":
		return termenv.TrueColor
	case "8bit", "256color":
		return termenv.ANSI256
	case "4bit", "16color", "8color", "3bit":
		return termenv.ANSI
	case "1bit", "2color", "mono", "false", "0":
		return termenv.Ascii
	}

	// 2. Check TERM for well-known color-capable terms
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "direct") {
		return termenv.TrueColor
	}
	if strings.Contains(term, "256color") {
		return termenv.ANSI256
	}
	if strings.Contains(term, "16color") {
		return termenv.ANSI
	}
	if term == "dumb" {
		return termenv.Ascii
	}

	// 3. Fallback to automatic detection
	return termenv.ColorProfile()
}

// hexToANSI converts a "#rrggbb" color to an ANSI sequence for the detected
// profile. Terminals with limited color support get the nearest approximation.
func hexToANSI(hex string, background bool) string {
	c := preferredProfile.Color(hex)
	if c == nil {
		return ""
	}
	return wrapSequence(c.Sequence(background))
}
