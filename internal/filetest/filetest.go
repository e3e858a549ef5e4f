// Package filetest provides golden-file comparison for tests, diffing
// actual output against a checked-in expected file and, with -update,
// rewriting that file to match.
package filetest

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

var update = flag.Bool("update", false, "update golden files instead of comparing against them")

// Golden compares got against the contents of the golden file at path. With
// -update, it writes got to path instead.
func Golden(t *testing.T, path string, got []byte) {
	t.Helper()

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("filetest: mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("filetest: write golden file %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("filetest: read golden file %s: %v (run with -update to create it)", path, err)
	}
	if d := diff.Diff(string(want), string(got)); d != "" {
		t.Errorf("golden file %s mismatch (-want +got):\n%s", path, d)
	}
}
