package report

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"fdprog/internal/watch"
)

// Reporter renders diff events as timestamped lines, one per event.
type Reporter struct {
	Out io.Writer

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func (r *Reporter) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Report writes one line per event in the order given.
func (r *Reporter) Report(events []watch.Event) {
	for _, ev := range events {
		r.line(ev)
	}
}

func (r *Reporter) line(ev watch.Event) {
	stamp := r.now().Format("15:04:05")
	name := filepath.Base(ev.Path)
	switch ev.Kind {
	case watch.Progress:
		fmt.Fprintf(r.Out, "%s [%d] %s %s %s (%s / %s) %s eta %s\n",
			stamp, ev.PID, ev.Command, name,
			Percentage(ev.Pos, ev.Size),
			Size(float64(ev.Pos)), Size(float64(ev.Size)),
			Rate(ev.Rate, ev.HasRate),
			ETA(ev.Size-ev.Pos, ev.Rate, ev.HasRate),
		)
	case watch.Closed:
		fmt.Fprintf(r.Out, "%s [%d] %s %s closed\n", stamp, ev.PID, ev.Command, name)
	}
}
