package domain

import (
	"fmt"
	"sort"
	"time"
)

// Instant is a point in time as integer milliseconds since the Unix epoch (UTC).
type Instant int64

// InstantFromTime converts t to an Instant, dropping sub-millisecond precision.
func InstantFromTime(t time.Time) Instant {
	return Instant(t.UnixMilli())
}

// Time returns the instant as a UTC time.Time.
func (i Instant) Time() time.Time {
	return time.UnixMilli(int64(i)).UTC()
}

// In returns the instant in the given location.
func (i Instant) In(loc *time.Location) time.Time {
	return time.UnixMilli(int64(i)).In(loc)
}

// Add shifts the instant by d, truncated to whole milliseconds.
func (i Instant) Add(d time.Duration) Instant {
	return i + Instant(d.Milliseconds())
}

// AddMinutes shifts the instant by the given number of minutes.
func (i Instant) AddMinutes(minutes int) Instant {
	return i + Instant(int64(minutes)*60_000)
}

// Interval is a half-open range of instants [Start, End).
type Interval struct {
	Start Instant
	End   Instant
}

// NewInterval builds an interval and checks Start < End.
func NewInterval(start, end Instant) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// IntervalFromDuration builds [start, start+minutes).
func IntervalFromDuration(start Instant, minutes int) (Interval, error) {
	return NewInterval(start, start.AddMinutes(minutes))
}

// Validate checks the Start < End invariant.
func (iv Interval) Validate() error {
	if iv.Start >= iv.End {
		return fmt.Errorf("%w: start %d must be before end %d", ErrInvalidInterval, iv.Start, iv.End)
	}
	return nil
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return time.Duration(iv.End-iv.Start) * time.Millisecond
}

// Overlaps reports whether iv and other share at least one instant.
func (iv Interval) Overlaps(other Interval) bool {
	return Overlaps(iv, other)
}

// Contains reports whether p lies in [Start, End).
func (iv Interval) Contains(p Instant) bool {
	return Contains(iv, p)
}

// Overlaps reports whether two half-open intervals intersect.
// Touching intervals ([a,b) and [b,c)) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Contains reports whether point lies inside the half-open interval outer.
func Contains(outer Interval, point Instant) bool {
	return outer.Start <= point && point < outer.End
}

// SubtractAll returns the parts of universe not covered by any of holes,
// ordered by start. Holes may overlap each other and extend past universe.
func SubtractAll(universe Interval, holes []Interval) []Interval {
	sorted := make([]Interval, 0, len(holes))
	for _, h := range holes {
		if h.Start < h.End && Overlaps(universe, h) {
			sorted = append(sorted, h)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	free := make([]Interval, 0, len(sorted)+1)
	cursor := universe.Start

	for _, h := range sorted {
		if cursor >= universe.End {
			break
		}
		if h.Start > cursor {
			end := h.Start
			if end > universe.End {
				end = universe.End
			}
			free = append(free, Interval{Start: cursor, End: end})
		}
		if h.End > cursor {
			cursor = h.End
		}
	}

	if cursor < universe.End {
		free = append(free, Interval{Start: cursor, End: universe.End})
	}

	return free
}
