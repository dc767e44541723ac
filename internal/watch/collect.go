package watch

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultProcRoot is the usual mount point of the process-information
// pseudo-filesystem.
const DefaultProcRoot = "/proc"

// Scanner produces snapshots from a procfs tree. The zero value scans
// DefaultProcRoot with no filters and no debug logging.
type Scanner struct {
	// Root overrides the procfs mount point, mainly for tests.
	Root string

	// Debug receives per-entity skip diagnostics when non-nil.
	Debug *log.Logger

	// PIDs and Commands restrict collection when non-empty. When both are
	// set a process must match both.
	PIDs     []int
	Commands []string

	// IgnorePrefixes drops descriptors whose resolved path starts with any
	// of the given prefixes.
	IgnorePrefixes []string
}

func (s *Scanner) root() string {
	if s.Root != "" {
		return s.Root
	}
	return DefaultProcRoot
}

func (s *Scanner) debugf(format string, v ...any) {
	if s.Debug != nil {
		s.Debug.Printf(format, v...)
	}
}

// Collect walks the procfs root and returns one snapshot covering every
// inspectable process. Processes and descriptors that vanish or deny access
// mid-scan are skipped; only an unreadable root is fatal.
func (s *Scanner) Collect() (*Snapshot, error) {
	entries, err := os.ReadDir(s.root())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.root(), err)
	}

	snap := &Snapshot{
		Taken: time.Now(),
		Procs: make(map[int]*ProcessSnapshot),
	}
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue // not a process entry
		}
		if !s.wantPID(pid) {
			continue
		}
		if ps := s.collectProcess(pid, snap.Taken); ps != nil {
			snap.Procs[pid] = ps
		}
	}
	return snap, nil
}

func (s *Scanner) wantPID(pid int) bool {
	if len(s.PIDs) == 0 {
		return true
	}
	for _, p := range s.PIDs {
		if p == pid {
			return true
		}
	}
	return false
}

func (s *Scanner) wantCommand(command string) bool {
	if len(s.Commands) == 0 {
		return true
	}
	for _, c := range s.Commands {
		if c == command {
			return true
		}
	}
	return false
}

func (s *Scanner) ignored(path string) bool {
	for _, p := range s.IgnorePrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// collectProcess snapshots a single pid. A nil return means the process
// exited, denied access, matched no filter, or had no trackable descriptors.
func (s *Scanner) collectProcess(pid int, taken time.Time) *ProcessSnapshot {
	dir := filepath.Join(s.root(), strconv.Itoa(pid))

	comm, err := os.ReadFile(filepath.Join(dir, "comm"))
	if err != nil {
		s.debugf("pid %d: %v", pid, err)
		return nil
	}
	command := strings.TrimSuffix(string(comm), "\n")
	if !s.wantCommand(command) {
		return nil
	}

	fds, err := os.ReadDir(filepath.Join(dir, "fd"))
	if err != nil {
		s.debugf("pid %d: %v", pid, err)
		return nil
	}

	ps := &ProcessSnapshot{
		PID:     pid,
		Command: command,
		FDs:     make(map[FDKey]*FDState),
	}
	for _, fe := range fds {
		fd, err := strconv.Atoi(fe.Name())
		if err != nil {
			continue
		}
		key, st, ok := s.collectFD(dir, fd, taken)
		if !ok {
			continue
		}
		ps.FDs[key] = st
	}
	if len(ps.FDs) == 0 {
		return nil
	}
	return ps
}

// collectFD resolves and stats one descriptor link. A false return means the
// descriptor is filtered out or disappeared between listing and stat.
func (s *Scanner) collectFD(dir string, fd int, taken time.Time) (FDKey, *FDState, bool) {
	link := filepath.Join(dir, "fd", strconv.Itoa(fd))

	target, err := os.Readlink(link)
	if err != nil {
		s.debugf("%s: %v", link, err)
		return FDKey{}, nil, false
	}
	if s.ignored(target) {
		return FDKey{}, nil, false
	}

	var st unix.Stat_t
	if err := unix.Stat(link, &st); err != nil {
		s.debugf("stat %s: %v", link, err)
		return FDKey{}, nil, false
	}
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG, unix.S_IFBLK:
	default:
		// Sockets, pipes, character devices and directories have no
		// meaningful read/write completion.
		return FDKey{}, nil, false
	}

	pos := s.readPos(dir, fd)
	key := FDKey{FD: fd, Dev: uint64(st.Dev), Ino: st.Ino}
	return key, &FDState{
		Path:     target,
		Pos:      pos,
		Size:     st.Size,
		BasePos:  pos,
		BaseSize: st.Size,
		BaseAt:   taken,
	}, true
}

// readPos parses the pos: line out of the descriptor's fdinfo file. A
// missing file or line means offset zero.
func (s *Scanner) readPos(dir string, fd int) int64 {
	f, err := os.Open(filepath.Join(dir, "fdinfo", strconv.Itoa(fd)))
	if err != nil {
		s.debugf("%v", err)
		return 0
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		rest, ok := strings.CutPrefix(sc.Text(), "pos:")
		if !ok {
			continue
		}
		pos, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			return 0
		}
		return pos
	}
	return 0
}
