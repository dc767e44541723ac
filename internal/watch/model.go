package watch

import "time"

// FDKey identifies one open-file instance. The device and inode disambiguate
// descriptor numbers that the kernel reuses for unrelated files: a number
// that comes back pointing at a different file is a new entity, never a
// continuation.
type FDKey struct {
	FD  int
	Dev uint64
	Ino uint64
}

// FDState is one descriptor sample plus the baseline captured the first time
// its key was observed. The baseline never changes while the descriptor stays
// visible, so rates are cumulative averages since first sighting.
type FDState struct {
	Path string
	Pos  int64
	Size int64

	BasePos  int64
	BaseSize int64
	BaseAt   time.Time

	// Shown flips to true the first time the descriptor moves and never
	// resets; it gates the closed event when the descriptor disappears.
	Shown bool
}

// ProcessSnapshot holds one process's trackable descriptors at one poll.
type ProcessSnapshot struct {
	PID     int
	Command string
	FDs     map[FDKey]*FDState
}

// Snapshot is one complete collection pass across all processes. Taken is
// captured once per pass so every descriptor shares the same sample time.
type Snapshot struct {
	Taken time.Time
	Procs map[int]*ProcessSnapshot
}

// EventKind discriminates diff observations.
type EventKind int

const (
	// Progress reports forward movement on a tracked descriptor.
	Progress EventKind = iota
	// Closed reports that a previously progressing descriptor is gone.
	Closed
)

// Event is one observation produced by diffing two consecutive snapshots.
// FD, Dev and Ino repeat the descriptor key so consumers can track one
// open-file instance across events without conflating reused fd numbers.
type Event struct {
	Kind    EventKind
	PID     int
	FD      int
	Dev     uint64
	Ino     uint64
	Command string
	Path    string

	// Progress-only fields. Rate is bytes per second averaged since the
	// descriptor's first sighting; HasRate is false when no time has
	// elapsed since the baseline.
	Pos     int64
	Size    int64
	Rate    float64
	HasRate bool
}
