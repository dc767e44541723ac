package report

import "fmt"

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

// Percentage renders how far pos has advanced through size. A zero size has
// no meaningful completion and renders "-". An exact 100.0% collapses to
// "100%".
func Percentage(pos, size int64) string {
	if size == 0 {
		return "-"
	}
	s := fmt.Sprintf("%.1f%%", float64(pos)/float64(size)*100)
	if s == "100.0%" {
		return "100%"
	}
	return s
}

// Size renders a byte quantity with one decimal and the largest magnitude
// suffix whose scaled value still exceeds 1.5.
func Size(n float64) string {
	switch {
	case n > 1.5*gib:
		return fmt.Sprintf("%.1fG", n/gib)
	case n > 1.5*mib:
		return fmt.Sprintf("%.1fM", n/mib)
	case n > 1.5*kib:
		return fmt.Sprintf("%.1fK", n/kib)
	default:
		return fmt.Sprintf("%.1f", n)
	}
}

// Rate renders bytes per second, or "-" when the rate is unknown or the
// descriptor moved backwards.
func Rate(rate float64, ok bool) string {
	if !ok || rate < 0 {
		return "-"
	}
	return Size(rate) + "/s"
}

// ETA renders the remaining time as minutes:seconds with fractional seconds
// truncated, or "-" when nothing remains or the rate gives no estimate.
func ETA(remaining int64, rate float64, ok bool) string {
	if !ok || rate <= 0 || remaining <= 0 {
		return "-"
	}
	secs := int64(float64(remaining) / rate)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
