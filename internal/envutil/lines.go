package envutil

import (
	"strings"
)

// FormatLines renders name/value pairs as env file content, one
// NAME=value per line, ending with a trailing newline. Values are
// written verbatim; quoting is left to the source.
func FormatLines(pairs [][2]string) string {
	var b strings.Builder
	for _, p := range pairs {
		if strings.TrimSpace(p[0]) == "" {
			continue
		}
		b.WriteString(p[0])
		b.WriteString("=")
		b.WriteString(p[1])
		b.WriteString("\n")
	}
	return b.String()
}
