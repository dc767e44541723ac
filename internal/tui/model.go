package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"fdprog/internal/report"
	"fdprog/internal/watch"
)

// Collector is the subset of scanner behaviour the monitor needs.
type Collector interface {
	Collect() (*watch.Snapshot, error)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	rowStyle    = lipgloss.NewStyle().PaddingLeft(2)
	footerStyle = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// rowKey identifies one open-file instance. Dev and Ino keep a reused fd
// number from colliding with the file it previously pointed at: a closed
// event for the old file must not remove the new file's row.
type rowKey struct {
	PID int
	FD  int
	Dev uint64
	Ino uint64
}

// Model represents the Bubble Tea state of the monitor mode.
type Model struct {
	collector Collector
	interval  time.Duration

	store *watch.Store
	rows  map[rowKey]watch.Event

	bar progress.Model

	width  int
	height int

	polls    int
	lastPoll time.Time
	err      error
}

// New constructs a monitor model with default styles.
func New(c Collector, interval time.Duration) *Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	return &Model{
		collector: c,
		interval:  interval,
		rows:      make(map[rowKey]watch.Event),
		bar:       bar,
	}
}

// Run spins up the Bubble Tea program in the alternate screen.
func Run(c Collector, interval time.Duration) error {
	prog := tea.NewProgram(New(c, interval), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

type tickMsg time.Time

type snapshotMsg struct {
	snap *watch.Snapshot
	err  error
}

func (m *Model) collectCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.collector.Collect()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.collectCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := m.width / 3; w > 10 {
			m.bar.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		return m, m.collectCmd()

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		if m.store == nil {
			m.store = watch.NewStore(msg.snap)
		} else {
			m.apply(m.store.Advance(msg.snap))
		}
		m.polls++
		m.lastPoll = time.Now()
		return m, m.tickCmd()
	}
	return m, nil
}

// apply folds a batch of diff events into the live row set.
func (m *Model) apply(events []watch.Event) {
	for _, ev := range events {
		key := rowKey{PID: ev.PID, FD: ev.FD, Dev: ev.Dev, Ino: ev.Ino}
		switch ev.Kind {
		case watch.Progress:
			m.rows[key] = ev
		case watch.Closed:
			delete(m.rows, key)
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("fdprog monitor"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	if m.store == nil {
		b.WriteString(rowStyle.Render("collecting baseline…"))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.rows) == 0 {
		b.WriteString(rowStyle.Render("no active transfers"))
		b.WriteString("\n")
	}

	var inFlight uint64
	for _, key := range m.sortedRows() {
		ev := m.rows[key]
		if ev.Pos > 0 {
			inFlight += uint64(ev.Pos)
		}
		b.WriteString(rowStyle.Render(m.renderRow(ev)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"%d transfer(s) · %s in flight · poll #%d · every %s · q to quit",
		len(m.rows), humanize.IBytes(inFlight), m.polls, m.interval,
	)))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderRow(ev watch.Event) string {
	name := filepath.Base(ev.Path)
	label := fmt.Sprintf("%s [%d] %s", ev.Command, ev.PID, name)

	var bar string
	if ev.Size > 0 {
		frac := float64(ev.Pos) / float64(ev.Size)
		if frac > 1 {
			frac = 1
		}
		bar = m.bar.ViewAs(frac)
	} else {
		bar = strings.Repeat("░", m.bar.Width)
	}

	return fmt.Sprintf("%-40s %s %s  %s eta %s",
		label, bar,
		report.Percentage(ev.Pos, ev.Size),
		report.Rate(ev.Rate, ev.HasRate),
		report.ETA(ev.Size-ev.Pos, ev.Rate, ev.HasRate),
	)
}

func (m *Model) sortedRows() []rowKey {
	keys := make([]rowKey, 0, len(m.rows))
	for k := range m.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.PID != b.PID {
			return a.PID < b.PID
		}
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
