package watch

// Store keeps the two live snapshot generations. Advancing diffs the
// incoming snapshot against the held one and then replaces it; no deeper
// history is retained.
type Store struct {
	prev *Snapshot
}

// NewStore seeds the store with a baseline snapshot.
func NewStore(baseline *Snapshot) *Store {
	return &Store{prev: baseline}
}

// Advance installs cur as the current generation and returns the events
// produced by diffing it against the previous one. The previous generation
// is discarded.
func (s *Store) Advance(cur *Snapshot) []Event {
	events := Diff(s.prev, cur)
	s.prev = cur
	return events
}
