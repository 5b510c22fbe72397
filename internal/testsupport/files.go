package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteWorkfile writes a project file holding notes.
func WriteWorkfile(t testing.TB, path, notes string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(notes), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSequence creates empty frame files named by pattern, a printf format
// taking the frame number (e.g. "plate.%04d.exr"), and returns the first
// frame's path.
func WriteSequence(t testing.TB, dir, pattern string, first, last int) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	var firstPath string
	for frame := first; frame <= last; frame++ {
		path := filepath.Join(dir, fmt.Sprintf(pattern, frame))
		if err := os.WriteFile(path, []byte{0x42}, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		if firstPath == "" {
			firstPath = path
		}
	}
	return firstPath
}
