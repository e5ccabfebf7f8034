package docker

import (
	"archive/tar"
	"fmt"
	"io"
	"path"
)

// ExtractSingleFile reads a tar stream as produced by the engine copy
// API and returns the content of the entry whose base name matches
// wantName. Directory entries are skipped.
func ExtractSingleFile(r io.Reader, wantName string) ([]byte, error) {
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}

		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if path.Base(hdr.Name) != wantName {
			continue
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", hdr.Name, err)
		}
		return content, nil
	}

	return nil, fmt.Errorf("%s not present in archive", wantName)
}
