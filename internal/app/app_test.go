package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fdprog/internal/config"
)

// fakeRoot builds a one-process procfs tree with a single regular file open
// at descriptor 3 and returns the root plus the fdinfo path for reposition.
func fakeRoot(t *testing.T) (root, fdinfo string) {
	t.Helper()
	root = t.TempDir()
	target := filepath.Join(root, "file.iso")
	if err := os.WriteFile(target, bytes.Repeat([]byte("x"), 1000), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, "1234")
	for _, sub := range []string{"fd", "fdinfo"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "comm"), []byte("cp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(dir, "fd", "3")); err != nil {
		t.Fatal(err)
	}
	fdinfo = filepath.Join(dir, "fdinfo", "3")
	if err := os.WriteFile(fdinfo, []byte("pos:\t0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, fdinfo
}

func TestPollReportsProgress(t *testing.T) {
	root, fdinfo := fakeRoot(t)

	var out bytes.Buffer
	ctrl := New(Options{Config: config.Default(), Out: &out})
	ctrl.Scanner().Root = root

	store, err := ctrl.Baseline()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(fdinfo, []byte("pos:\t500\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.poll(store); err != nil {
		t.Fatal(err)
	}

	line := out.String()
	if !strings.Contains(line, "[1234] cp file.iso 50.0%") {
		t.Fatalf("unexpected report line: %q", line)
	}

	// A second poll with no movement must stay silent.
	out.Reset()
	if err := ctrl.poll(store); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected silence without movement, got %q", out.String())
	}
}

func TestPollReportsClosed(t *testing.T) {
	root, fdinfo := fakeRoot(t)

	var out bytes.Buffer
	ctrl := New(Options{Config: config.Default(), Out: &out})
	ctrl.Scanner().Root = root

	store, err := ctrl.Baseline()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fdinfo, []byte("pos:\t500\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.poll(store); err != nil {
		t.Fatal(err)
	}

	// Process goes away entirely.
	if err := os.RemoveAll(filepath.Join(root, "1234")); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := ctrl.poll(store); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "cp file.iso closed") {
		t.Fatalf("expected a closed line, got %q", out.String())
	}
}

func TestBaselineFailsWithoutRoot(t *testing.T) {
	ctrl := New(Options{Config: config.Default(), Out: &bytes.Buffer{}})
	ctrl.Scanner().Root = filepath.Join(t.TempDir(), "missing")
	if _, err := ctrl.Baseline(); err == nil {
		t.Fatal("expected an error for an unreadable procfs root")
	}
}
