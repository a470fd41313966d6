package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and its parents) with a small fixed payload.
func WriteFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTree creates each slash-separated relative file under root.
func WriteTree(t testing.TB, root string, files ...string) {
	t.Helper()

	for _, rel := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)))
	}
}
