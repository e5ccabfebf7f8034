package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"StackSnap/internal/portainer"
)

// fakeSource serves canned stacks and compose content.
type fakeSource struct {
	stacks  []portainer.Stack
	compose map[int][]byte
	fail    map[int]bool
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Discover(ctx context.Context) ([]portainer.Stack, error) {
	return f.stacks, nil
}

func (f *fakeSource) ComposeFile(ctx context.Context, stack portainer.Stack) ([]byte, error) {
	if f.fail[stack.Id] {
		return nil, fmt.Errorf("simulated extraction failure")
	}
	return f.compose[stack.Id], nil
}

func testSource() *fakeSource {
	return &fakeSource{
		stacks: []portainer.Stack{
			{Id: 1, Name: "plex", Type: portainer.StackTypeCompose, EndpointId: 1,
				Env: []portainer.EnvPair{{Name: "TZ", Value: "Etc/UTC"}}},
			{Id: 2, Name: "my stack", Type: portainer.StackTypeCompose, EndpointId: 1},
		},
		compose: map[int][]byte{
			1: []byte("services:\n  plex:\n    image: plexinc/pms-docker\n"),
			2: []byte("services:\n  app:\n    image: nginx\n"),
		},
		fail: map[int]bool{},
	}
}

func TestRunWritesBackupFiles(t *testing.T) {
	dir := t.TempDir()

	result, err := Run(context.Background(), Options{
		BackupDir:  dir,
		Source:     testSource(),
		KeepCount:  7,
		BackupEnvs: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Succeeded != 2 || result.Failed != 0 {
		t.Fatalf("expected 2 successes, got %+v", result)
	}

	// Sanitized stack dir for "my stack"
	for _, stackDir := range []string{"plex", "my-stack"} {
		entries, err := os.ReadDir(filepath.Join(dir, stackDir))
		if err != nil {
			t.Fatalf("expected stack dir %s: %v", stackDir, err)
		}
		var hasCompose, hasMeta bool
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), ".yml") {
				hasCompose = true
			}
			if strings.HasSuffix(entry.Name(), ".stack.json") {
				hasMeta = true
			}
		}
		if !hasCompose || !hasMeta {
			t.Errorf("%s: expected compose and metadata files, got %v", stackDir, entries)
		}
	}

	// Env file only for the stack that has env pairs
	plexEntries, _ := os.ReadDir(filepath.Join(dir, "plex"))
	hasEnv := false
	for _, entry := range plexEntries {
		if strings.HasSuffix(entry.Name(), ".env") {
			hasEnv = true
			content, _ := os.ReadFile(filepath.Join(dir, "plex", entry.Name()))
			if string(content) != "TZ=Etc/UTC\n" {
				t.Errorf("unexpected env content: %q", content)
			}
		}
	}
	if !hasEnv {
		t.Error("expected plex env file")
	}

	// Manifest at the destination root
	manifest, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("expected run manifest: %v", err)
	}
	if manifest.Succeeded != 2 || len(manifest.Stacks) != 2 {
		t.Errorf("unexpected manifest: %+v", manifest)
	}
}

func TestRunSimpleMode(t *testing.T) {
	dir := t.TempDir()

	_, err := Run(context.Background(), Options{
		BackupDir:  dir,
		Source:     testSource(),
		Simple:     true,
		BackupEnvs: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "plex"))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".env") || strings.HasSuffix(entry.Name(), ".stack.json") {
			t.Errorf("simple mode should only write compose files, found %s", entry.Name())
		}
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	src := testSource()
	src.fail[1] = true

	result, err := Run(context.Background(), Options{
		BackupDir: dir,
		Source:    src,
	})
	if err != nil {
		t.Fatalf("per-stack failure must not abort the run: %v", err)
	}
	if result.Failed != 1 || result.Succeeded != 1 {
		t.Errorf("expected 1 failed and 1 succeeded, got %+v", result)
	}

	manifest, err := ReadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	var failedEntry *ManifestEntry
	for i := range manifest.Stacks {
		if manifest.Stacks[i].Stack == "plex" {
			failedEntry = &manifest.Stacks[i]
		}
	}
	if failedEntry == nil || failedEntry.Error == "" {
		t.Errorf("expected failure recorded in manifest, got %+v", manifest.Stacks)
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()

	result, err := Run(context.Background(), Options{
		BackupDir: dir,
		Source:    testSource(),
		DryRun:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Succeeded != 2 {
		t.Errorf("dry run should still count successes, got %+v", result)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("dry run must not write anything, found %v", entries)
	}
}

func TestRunSkipsKubernetesStacks(t *testing.T) {
	dir := t.TempDir()
	src := testSource()
	src.stacks = append(src.stacks, portainer.Stack{
		Id: 3, Name: "k8s-app", Type: portainer.StackTypeKubernetes, EndpointId: 2,
	})

	result, err := Run(context.Background(), Options{
		BackupDir: dir,
		Source:    src,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 {
		t.Errorf("expected kubernetes stack to be skipped as a failure, got %+v", result)
	}
	if _, err := os.Stat(filepath.Join(dir, "k8s-app")); !os.IsNotExist(err) {
		t.Error("expected no directory for the kubernetes stack")
	}
}

func TestRunInvalidComposeKept(t *testing.T) {
	dir := t.TempDir()
	src := testSource()
	src.compose[1] = []byte("services:\n  plex:\n    image: [not, a, string\n")

	result, err := Run(context.Background(), Options{
		BackupDir: dir,
		Source:    src,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("invalid compose should fail the stack, got %+v", result)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "plex"))
	found := false
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".yml.invalid") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected .invalid suffix for broken compose, got %v", entries)
	}

	manifest, err := ReadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range manifest.Stacks {
		if entry.Stack == "plex" && entry.Error == "" {
			t.Errorf("manifest entry for the failed stack has no error: %+v", entry)
		}
	}
}
