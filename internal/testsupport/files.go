package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates the target path with the given contents, creating parent
// directories as needed.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// InboxFile drops a file with the given name and contents into the config's
// inbox directory and returns its path.
func InboxFile(t testing.TB, inboxDir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(inboxDir, name)
	WriteFile(t, path, data)
	return path
}
