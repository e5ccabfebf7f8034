package testutils

import (
	"fmt"
	"os"
	"testing"
	"text/tabwriter"
)

// TestCase represents a single unit test scenario.
type TestCase struct {
	Name     string
	Input    string
	Expected string
	Actual   string
	Pass     bool
}

// PrintTestTable prints a formatted comparison table for a batch of cases
// and fails the test if any case has Pass=false.
func PrintTestTable(t *testing.T, cases []TestCase) {
	t.Helper()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)

	const (
		reset = "\033[0m"
		red   = "\033[31m"
		green = "\033[32m"
	)

	fmt.Fprintf(w, "Input\tExpected Value\tReturned Value\t\n")

	anyFailed := false

	for _, tc := range cases {
		inputColor := reset
		expectedColor := reset
		actualColor := green
		leftPtr := " "
		rightPtr := " "

		if !tc.Pass {
			anyFailed = true
			inputColor = red
			expectedColor = red
			actualColor = red
			leftPtr = red + ">" + reset
			rightPtr = red + "<" + reset
		}

		fmt.Fprintf(w, "%s %s%s%s\t%s%s%s\t%s%s%s\t%s\n",
			leftPtr,
			inputColor, tc.Input, reset,
			expectedColor, tc.Expected, reset,
			actualColor, tc.Actual, reset,
			rightPtr,
		)
	}

	w.Flush()
	fmt.Println()

	if anyFailed {
		t.Fail()
	}
}
