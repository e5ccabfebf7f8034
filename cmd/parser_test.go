package cmd

import (
	"fmt"
	"strings"
	"testing"

	"StackSnap/internal/testutils"
)

func groupString(g CommandGroup) string {
	return fmt.Sprintf("flags=%v cmd=%q args=%v", g.Flags, g.Command, g.Args)
}

func TestParseGroups(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{}, nil},
		{[]string{"-n", "-s"}, []string{`flags=[-n -s] cmd="" args=[]`}},
		{[]string{"-ns"}, []string{`flags=[-n -s] cmd="" args=[]`}},
		{[]string{"--report"}, []string{`flags=[] cmd="--report" args=[]`}},
		{[]string{"-d", "/tmp/b", "--prune"}, []string{`flags=[-d /tmp/b] cmd="--prune" args=[]`}},
		{[]string{"--backup-dir=/tmp/b"}, []string{`flags=[--backup-dir /tmp/b] cmd="" args=[]`}},
		{[]string{"-v"}, []string{`flags=[-v ] cmd="" args=[]`}},
		{[]string{"-v", "portainer_data"}, []string{`flags=[-v portainer_data] cmd="" args=[]`}},
		{[]string{"--update", "v1.2.0"}, []string{`flags=[] cmd="--update" args=[v1.2.0]`}},
		{[]string{"-h", "--report"}, []string{`flags=[] cmd="-h" args=[--report]`}},
		{[]string{"--report", "--report-compact"}, []string{
			`flags=[] cmd="--report" args=[]`,
			`flags=[] cmd="--report-compact" args=[]`,
		}},
	}

	var results []testutils.TestCase
	for _, tc := range tests {
		groups, err := Parse(tc.args)
		if err != nil {
			t.Errorf("Parse(%v) returned error: %v", tc.args, err)
			continue
		}
		var got []string
		for _, g := range groups {
			got = append(got, groupString(g))
		}
		results = append(results, testutils.TestCase{
			Input:    fmt.Sprintf("%v", tc.args),
			Expected: strings.Join(tc.want, " | "),
			Actual:   strings.Join(got, " | "),
			Pass:     strings.Join(got, " | ") == strings.Join(tc.want, " | "),
		})
	}
	testutils.PrintTestTable(t, results)
}

func TestParseErrors(t *testing.T) {
	tests := [][]string{
		{"--bogus"},
		{"stray"},
		{"--keep-count"},
		{"--backup-dir"},
		{"--dry-run=yes"},
		{"--report", "extra"},
	}

	var results []testutils.TestCase
	for _, args := range tests {
		_, err := Parse(args)
		results = append(results, testutils.TestCase{
			Input:    fmt.Sprintf("%v", args),
			Expected: "error",
			Actual:   fmt.Sprintf("err=%v", err != nil),
			Pass:     err != nil,
		})
	}
	testutils.PrintTestTable(t, results)
}

func TestParseRepeatedCalls(t *testing.T) {
	// Parse registers its pflag set on every call; registration must
	// be idempotent or the second call panics.
	for i := 0; i < 3; i++ {
		if _, err := Parse([]string{"--report"}); err != nil {
			t.Fatalf("Parse call %d returned error: %v", i+1, err)
		}
	}
}

func TestParseErrorRendering(t *testing.T) {
	_, err := Parse([]string{"-n", "--bogus"})
	if err == nil {
		t.Fatal("expected a parse error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Error in command line") {
		t.Errorf("missing header in: %s", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Errorf("missing caret pointer in: %s", msg)
	}
}
