package engine

import (
	"fmt"
	"time"
)

// sessionWindow is the UTC trading window inside which orders may be
// placed. A zero window means trading is allowed at any time of day;
// weekends are always closed.
type sessionWindow struct {
	openMin  int
	closeMin int
	bounded  bool
}

func newSessionWindow(openUTC, closeUTC string) (sessionWindow, error) {
	if openUTC == "" && closeUTC == "" {
		return sessionWindow{}, nil
	}
	open, err := parseClock(openUTC)
	if err != nil {
		return sessionWindow{}, fmt.Errorf("session.open_utc: %w", err)
	}
	close, err := parseClock(closeUTC)
	if err != nil {
		return sessionWindow{}, fmt.Errorf("session.close_utc: %w", err)
	}
	if close <= open {
		return sessionWindow{}, fmt.Errorf("session window closes (%s) before it opens (%s)", closeUTC, openUTC)
	}
	return sessionWindow{openMin: open, closeMin: close, bounded: true}, nil
}

// open reports whether t falls inside the trading window.
func (w sessionWindow) open(t time.Time) bool {
	t = t.UTC()
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	if !w.bounded {
		return true
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= w.openMin && minute < w.closeMin
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}
