package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"StackSnap/internal/testutils"
)

func TestGroupKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plex_20240101-120000.yml", "20240101-120000"},
		{"plex_20240101-120000.env", "20240101-120000"},
		{"plex_20240101-120000.stack.json", "20240101-120000"},
		{"plex_20240101-120000.yml.invalid", "20240101-120000"},
		{"my_stack_20240101-120000.yml", "20240101-120000"},
		{"README.md", ""},
		{"noseparator.yml", ""},
	}

	var cases []testutils.TestCase
	for _, tt := range tests {
		actual := groupKey(tt.input)
		cases = append(cases, testutils.TestCase{
			Input:    tt.input,
			Expected: tt.expected,
			Actual:   actual,
			Pass:     actual == tt.expected,
		})
	}

	testutils.PrintTestTable(t, cases)
}

func writeStackFiles(t *testing.T, dir string, timestamps []string) {
	t.Helper()
	for _, ts := range timestamps {
		for _, suffix := range []string{".yml", ".env", ".stack.json"} {
			path := filepath.Join(dir, "plex_"+ts+suffix)
			if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestRotateKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	timestamps := []string{
		"20240101-120000",
		"20240102-120000",
		"20240103-120000",
		"20240104-120000",
	}
	writeStackFiles(t, dir, timestamps)

	removed, err := rotate(context.Background(), dir, 2, false)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if removed != 6 {
		t.Errorf("expected 6 files removed, got %d", removed)
	}

	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		key := groupKey(entry.Name())
		if key == "20240101-120000" || key == "20240102-120000" {
			t.Errorf("expected old group %s to be removed: %s", key, entry.Name())
		}
	}
	if len(entries) != 6 {
		t.Errorf("expected 6 files to remain, got %d", len(entries))
	}
}

func TestRotateUnderLimit(t *testing.T) {
	dir := t.TempDir()
	writeStackFiles(t, dir, []string{"20240101-120000"})

	removed, err := rotate(context.Background(), dir, 7, false)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("expected no removals under the limit, got %d", removed)
	}
}

func TestRotateDryRun(t *testing.T) {
	dir := t.TempDir()
	writeStackFiles(t, dir, []string{"20240101-120000", "20240102-120000"})

	removed, err := rotate(context.Background(), dir, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("expected 3 files counted in dry run, got %d", removed)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 6 {
		t.Errorf("expected dry run to leave all 6 files, got %d", len(entries))
	}
}

func TestRotateLeavesForeignFiles(t *testing.T) {
	dir := t.TempDir()
	writeStackFiles(t, dir, []string{"20240101-120000", "20240102-120000"})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := rotate(context.Background(), dir, 1, false); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Errorf("expected foreign file to survive rotation: %v", err)
	}
}
