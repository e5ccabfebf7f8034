package envutil

import (
	"testing"
)

func TestFormatLines(t *testing.T) {
	pairs := [][2]string{
		{"PUID", "1000"},
		{"", "dropped"},
		{"TZ", "Etc/UTC"},
	}

	got := FormatLines(pairs)
	want := "PUID=1000\nTZ=Etc/UTC\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatLinesEmpty(t *testing.T) {
	if got := FormatLines(nil); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
