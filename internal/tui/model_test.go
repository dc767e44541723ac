package tui

import (
	"testing"
	"time"

	"fdprog/internal/watch"
)

func TestApplyKeepsRowWhenDescriptorNumberIsReused(t *testing.T) {
	m := New(nil, time.Second)

	// One diff batch: the reused fd number progresses on a new file while
	// the old file it used to point at closes. The closed event must only
	// remove the old instance's row.
	m.apply([]watch.Event{
		{Kind: watch.Progress, PID: 42, FD: 3, Dev: 1, Ino: 200, Command: "cp", Path: "/tmp/new", Pos: 50, Size: 1000},
		{Kind: watch.Closed, PID: 42, FD: 3, Dev: 1, Ino: 100, Command: "cp", Path: "/tmp/old"},
	})

	if len(m.rows) != 1 {
		t.Fatalf("expected exactly 1 active row, got %d", len(m.rows))
	}
	row, ok := m.rows[rowKey{PID: 42, FD: 3, Dev: 1, Ino: 200}]
	if !ok {
		t.Fatal("row for the new file is missing")
	}
	if row.Path != "/tmp/new" {
		t.Fatalf("expected the new file's row to survive, got %q", row.Path)
	}
}

func TestApplyRemovesClosedRow(t *testing.T) {
	m := New(nil, time.Second)

	ev := watch.Event{Kind: watch.Progress, PID: 7, FD: 4, Dev: 2, Ino: 300, Command: "dd", Path: "/tmp/out", Pos: 10, Size: 100}
	m.apply([]watch.Event{ev})
	if len(m.rows) != 1 {
		t.Fatalf("expected 1 row after progress, got %d", len(m.rows))
	}

	ev.Kind = watch.Closed
	m.apply([]watch.Event{ev})
	if len(m.rows) != 0 {
		t.Fatalf("expected the closed row to be removed, got %d rows", len(m.rows))
	}
}
