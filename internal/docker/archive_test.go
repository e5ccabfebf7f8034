package docker

import (
	"archive/tar"
	"bytes"
	"testing"
)

func buildTar(t *testing.T, entries map[string]string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range entries {
		hdr := &tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestExtractSingleFile(t *testing.T) {
	compose := "services:\n  plex:\n    image: plexinc/pms-docker\n"
	buf := buildTar(t, map[string]string{
		"docker-compose.yml": compose,
	})

	content, err := ExtractSingleFile(buf, "docker-compose.yml")
	if err != nil {
		t.Fatalf("ExtractSingleFile failed: %v", err)
	}
	if string(content) != compose {
		t.Errorf("content mismatch: %q", content)
	}
}

func TestExtractSingleFileMissing(t *testing.T) {
	buf := buildTar(t, map[string]string{
		"other.txt": "nope",
	})

	if _, err := ExtractSingleFile(buf, "docker-compose.yml"); err == nil {
		t.Error("expected error for missing entry")
	}
}

func TestExtractSingleFileSkipsDirs(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{
		Name:     "compose/",
		Mode:     0o755,
		Typeflag: tar.TypeDir,
	}); err != nil {
		t.Fatal(err)
	}
	content := "services: {}\n"
	if err := tw.WriteHeader(&tar.Header{
		Name: "compose/docker-compose.yml",
		Mode: 0o644,
		Size: int64(len(content)),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	tw.Close()

	got, err := ExtractSingleFile(&buf, "docker-compose.yml")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("content mismatch: %q", got)
	}
}
