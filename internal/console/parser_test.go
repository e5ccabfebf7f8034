package console

import (
	"testing"

	"StackSnap/internal/testutils"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello World"},
		{"{{_Stack_}}plex{{|-|}}", "plex"},
		{"{{|cyan::B|}}bold cyan{{|-|}}", "bold cyan"},
		{"{{_Unknown_}}text", "text"},
		{"\033[31mred\033[0m", "red"},
		{"", ""},
	}

	var cases []testutils.TestCase
	for _, tt := range tests {
		actual := Strip(tt.input)
		cases = append(cases, testutils.TestCase{
			Input:    tt.input,
			Expected: tt.expected,
			Actual:   actual,
			Pass:     actual == tt.expected,
		})
	}

	testutils.PrintTestTable(t, cases)
}

func TestParseStyleCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-", CodeReset},
		{"red", CodeRed},
		{"cyan::B", CodeCyan + CodeBold},
		{"white:red", CodeWhite + CodeRedBg},
		{":green", CodeGreenBg},
		{"::U", CodeUnderline},
		{"::b", CodeBoldOff},
		{"bright-cyan", CodeBrightCyan},
		{"nosuchcolor", ""},
	}

	var cases []testutils.TestCase
	for _, tt := range tests {
		actual := parseStyleCodeToANSI(tt.input)
		cases = append(cases, testutils.TestCase{
			Input:    tt.input,
			Expected: tt.expected,
			Actual:   actual,
			Pass:     actual == tt.expected,
		})
	}

	testutils.PrintTestTable(t, cases)
}

func TestRegisterSemanticTag(t *testing.T) {
	RegisterSemanticTag("TestTag", "[green]")
	defer BuildColorMap()

	if _, ok := semanticMap["testtag"]; !ok {
		t.Error("expected testtag to be registered")
	}
	if semanticMap["testtag"] != "[green]" {
		t.Errorf("expected [green], got %q", semanticMap["testtag"])
	}
}

func TestSemanticMapBuilt(t *testing.T) {
	ensureMaps()

	for _, tag := range []string{"stack", "endpoint", "file", "volume", "version"} {
		if _, ok := semanticMap[tag]; !ok {
			t.Errorf("expected semantic tag %q to be defined", tag)
		}
	}
}
