package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is a daily time window in minutes from midnight. Start > End
// means the window wraps past midnight.
type Window struct {
	Start int
	End   int
}

// ParseWindows parses "09:30-16:00" or "09:30-16:00,20:00-22:00" into
// windows. Empty input yields no windows.
func ParseWindows(input string) ([]Window, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	parts := strings.Split(input, ",")
	out := make([]Window, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("market hours window %q must be HH:MM-HH:MM", part)
		}
		start, err := parseClock(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("market hours window %q: %w", part, err)
		}
		end, err := parseClock(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("market hours window %q: %w", part, err)
		}
		out = append(out, Window{Start: start, End: end})
	}
	return out, nil
}

func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	fields := strings.SplitN(s, ":", 2)
	if len(fields) != 2 {
		return 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	h, err := strconv.Atoi(fields[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("hour out of range in %q", s)
	}
	m, err := strconv.Atoi(fields[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("minute out of range in %q", s)
	}
	return h*60 + m, nil
}

// Contains reports whether t falls inside the window. The end minute
// is exclusive.
func (w Window) Contains(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	if w.Start <= w.End {
		return minute >= w.Start && minute < w.End
	}
	// Wraps midnight.
	return minute >= w.Start || minute < w.End
}

// AnyContains reports whether t falls inside any window. An empty
// window list means no restriction.
func AnyContains(windows []Window, t time.Time) bool {
	if len(windows) == 0 {
		return true
	}
	for _, w := range windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
