package logger

import (
	"context"
	"strings"
	"testing"
)

func TestFatalNoTracePanicsFatalError(t *testing.T) {
	defer func() {
		if _, ok := recover().(FatalError); !ok {
			t.Fatal("expected a FatalError panic")
		}
	}()
	FatalNoTrace(context.Background(), "this run cannot continue")
}

func TestFatalPanicsFatalError(t *testing.T) {
	defer func() {
		if _, ok := recover().(FatalError); !ok {
			t.Fatal("expected a FatalError panic")
		}
	}()
	Fatal(context.Background(), "this run cannot continue")
}

func TestGetSystemInfo(t *testing.T) {
	info := strings.Join(getSystemInfo(), "\n")
	for _, want := range []string{"ARCH:", "OS:", "SCRIPTNAME:"} {
		if !strings.Contains(info, want) {
			t.Errorf("system info is missing %q:\n%s", want, info)
		}
	}
}

func TestResolveMsg(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"plain", "plain"},
		{[]string{"a", "b"}, "a\nb"},
		{[]any{"a", "b"}, "a\nb"},
	}
	for _, tc := range tests {
		if got := resolveMsg(tc.in); got != tc.want {
			t.Errorf("resolveMsg(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
