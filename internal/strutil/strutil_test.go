package strutil

import "testing"

func TestRepeat(t *testing.T) {
	if got := Repeat("ab", 3); got != "ababab" {
		t.Errorf("Repeat(\"ab\", 3) = %q", got)
	}
	if got := Repeat("x", -1); got != "" {
		t.Errorf("Repeat with negative count = %q, want empty", got)
	}
	if got := Repeat("x", 0); got != "" {
		t.Errorf("Repeat with zero count = %q, want empty", got)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"wordpress", "wordpress"},
		{"my stack", "my-stack"},
		{"web/app", "web-app"},
		{"A_B.C-1", "A_B.C-1"},
		{"bad:*?chars", "bad-chars"},
		{"  spaced  ", "spaced"},
		{"---", "unnamed"},
		{"", "unnamed"},
		{"../../etc", "etc"},
	}
	for _, tc := range cases {
		if got := SanitizeName(tc.in); got != tc.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
