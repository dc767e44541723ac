package watch

import "sort"

// Diff compares two consecutive snapshots and returns the resulting events
// in deterministic order: ascending pid, descriptors in key order, closed
// events for a pid after its progress events. Baseline and shown state move
// from prev into cur; prev is consumed and must not be reused afterwards.
func Diff(prev, cur *Snapshot) []Event {
	var events []Event

	for _, pid := range sortedPIDs(cur.Procs) {
		cp := cur.Procs[pid]
		pp := prev.Procs[pid]
		if pp == nil {
			// First sighting of the whole process. Every descriptor keeps
			// its self-supplied baseline; nothing to report yet.
			continue
		}
		for _, key := range sortedKeys(cp.FDs) {
			cs := cp.FDs[key]
			ps, ok := pp.FDs[key]
			if !ok {
				continue // first sighting of this descriptor
			}
			delete(pp.FDs, key) // consumed; leftovers below are closed

			cs.BasePos = ps.BasePos
			cs.BaseSize = ps.BaseSize
			cs.BaseAt = ps.BaseAt
			cs.Shown = ps.Shown

			if ps.Size == 0 && cs.Size == 0 {
				continue
			}
			if cs.Pos == ps.Pos {
				// No movement this tick. The baseline stays put so the
				// next movement still averages over the full window.
				continue
			}
			cs.Shown = true

			ev := Event{
				Kind:    Progress,
				PID:     pid,
				FD:      key.FD,
				Dev:     key.Dev,
				Ino:     key.Ino,
				Command: cp.Command,
				Path:    cs.Path,
				Pos:     cs.Pos,
				Size:    cs.Size,
			}
			if elapsed := cur.Taken.Sub(cs.BaseAt).Seconds(); elapsed != 0 {
				ev.Rate = float64(cs.Pos-cs.BasePos) / elapsed
				ev.HasRate = true
			}
			events = append(events, ev)
		}
		events = append(events, closedEvents(pp)...)
	}

	// Processes that disappeared entirely between the two polls.
	for _, pid := range sortedPIDs(prev.Procs) {
		if _, ok := cur.Procs[pid]; ok {
			continue
		}
		events = append(events, closedEvents(prev.Procs[pid])...)
	}

	return events
}

// closedEvents reports every still-unconsumed descriptor that had exhibited
// progress at some point. Descriptors never shown vanish silently.
func closedEvents(ps *ProcessSnapshot) []Event {
	var events []Event
	for _, key := range sortedKeys(ps.FDs) {
		st := ps.FDs[key]
		if !st.Shown {
			continue
		}
		events = append(events, Event{
			Kind:    Closed,
			PID:     ps.PID,
			FD:      key.FD,
			Dev:     key.Dev,
			Ino:     key.Ino,
			Command: ps.Command,
			Path:    st.Path,
		})
	}
	return events
}

func sortedPIDs(m map[int]*ProcessSnapshot) []int {
	pids := make([]int, 0, len(m))
	for pid := range m {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

func sortedKeys(m map[FDKey]*FDState) []FDKey {
	keys := make([]FDKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.FD != b.FD {
			return a.FD < b.FD
		}
		if a.Dev != b.Dev {
			return a.Dev < b.Dev
		}
		return a.Ino < b.Ino
	})
	return keys
}
