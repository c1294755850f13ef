// Package availability turns a tenant's weekly template, blocked intervals and
// active bookings into bookable slots. It is pure: every call works only on the
// snapshot it is given and keeps no state between calls.
package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// ErrInvalidInput is returned when the snapshot cannot produce slots.
var ErrInvalidInput = errors.New("availability: invalid input")

// Input is the snapshot a generation or a single check works on.
type Input struct {
	Location *time.Location
	// Date is the tenant-local calendar day. Only year, month and day are used.
	Date time.Time
	Now  domain.Instant
	Step time.Duration

	Session domain.SessionType
	// Ranges are the enabled weekly ranges for Date's day of week.
	Ranges []domain.TimeRange
	// Blocks may include intervals outside the day, they are filtered by overlap.
	Blocks []domain.BlockedInterval
	// Bookings must be active bookings of Session's type, others are ignored.
	Bookings []domain.Booking
}

func (in *Input) validate() error {
	if in.Location == nil {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if in.Step <= 0 || in.Step%time.Minute != 0 {
		return fmt.Errorf("%w: step %s must be a positive whole number of minutes", ErrInvalidInput, in.Step)
	}
	if in.Session.DurationMinutes <= 0 {
		return fmt.Errorf("%w: session duration must be positive", ErrInvalidInput)
	}
	return nil
}

// DayBounds returns [local midnight, next local midnight) of date in loc.
// On DST transition days the interval is 23 or 25 hours long.
func DayBounds(loc *time.Location, date time.Time) domain.Interval {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return domain.Interval{Start: domain.InstantFromTime(start), End: domain.InstantFromTime(end)}
}

// SnapshotWindow is the range any slot of the day can touch: the day itself
// extended by one session duration. Blocks and bookings outside it never matter.
func SnapshotWindow(loc *time.Location, date time.Time, durationMinutes int) domain.Interval {
	day := DayBounds(loc, date)
	return domain.Interval{Start: day.Start, End: day.End.AddMinutes(durationMinutes)}
}

// LocalDate returns the tenant-local calendar day containing the instant.
func LocalDate(loc *time.Location, at domain.Instant) time.Time {
	local := at.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayOfWeek returns the day of week of a calendar date.
func DayOfWeek(date time.Time) domain.DayOfWeek {
	return domain.DayOfWeekFromWeekday(date.Weekday())
}

// IsAligned reports whether start lies on the step grid of its local day.
func IsAligned(loc *time.Location, start domain.Instant, step time.Duration) bool {
	day := DayBounds(loc, LocalDate(loc, start))
	return int64(start-day.Start)%step.Milliseconds() == 0
}

// Generate evaluates every trial instant of the day, one per step, starting at
// local midnight. Unavailable slots carry the first failing reason in the order
// PAST, OUTSIDE_HOURS, BLOCKED, AT_CAPACITY.
func Generate(in Input) ([]domain.Slot, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	day := DayBounds(in.Location, in.Date)
	step := domain.Instant(in.Step.Milliseconds())

	slots := make([]domain.Slot, 0, int(day.Duration()/in.Step))
	for t := day.Start; t < day.End; t += step {
		slots = append(slots, in.evaluate(t, 1))
	}

	return slots, nil
}

// Check evaluates a single start instant for a reservation of seats participants.
// The caller must pass Ranges for the local day of start.
func Check(in Input, start domain.Instant, seats int) (domain.Slot, error) {
	if err := in.validate(); err != nil {
		return domain.Slot{}, err
	}
	if seats < 1 {
		seats = 1
	}
	in.Date = LocalDate(in.Location, start)
	return in.evaluate(start, seats), nil
}

// OpenWindows returns the day's enabled ranges as instants with blocks cut out.
func OpenWindows(in Input) ([]domain.Interval, error) {
	if in.Location == nil {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}

	holes := make([]domain.Interval, 0, len(in.Blocks))
	for _, b := range in.Blocks {
		holes = append(holes, b.Interval)
	}

	windows := make([]domain.Interval, 0, len(in.Ranges))
	for _, r := range in.Ranges {
		open := rangeInstants(in.Location, in.Date, r)
		if open.Start >= open.End {
			continue
		}
		windows = append(windows, domain.SubtractAll(open, holes)...)
	}
	return windows, nil
}

// CountReasons groups slots by reason, "" counts available slots.
func CountReasons(slots []domain.Slot) map[string]int {
	counts := make(map[string]int)
	for _, s := range slots {
		counts[string(s.Reason)]++
	}
	return counts
}

func (in *Input) evaluate(start domain.Instant, seats int) domain.Slot {
	candidate := domain.Interval{Start: start, End: start.AddMinutes(in.Session.DurationMinutes)}
	capacity := in.Session.EffectiveCapacity()
	occupied := in.occupied(candidate)

	slot := domain.Slot{
		Start:             candidate.Start,
		End:               candidate.End,
		RemainingCapacity: max(capacity-occupied, 0),
	}

	switch {
	case start <= in.Now:
		slot.Reason = domain.ReasonPast
	case !in.withinHours(candidate):
		slot.Reason = domain.ReasonOutsideHours
	case in.blocked(candidate):
		slot.Reason = domain.ReasonBlocked
	case occupied+seats > capacity:
		slot.Reason = domain.ReasonAtCapacity
	default:
		slot.Available = true
	}

	return slot
}

// withinHours projects the candidate onto the wall clock of the day and checks
// that one enabled range contains its start and its end.
func (in *Input) withinHours(candidate domain.Interval) bool {
	startMin := wallMinutes(candidate.Start.In(in.Location), in.Date)
	endMin := wallMinutes(candidate.End.In(in.Location), in.Date)

	for _, r := range in.Ranges {
		if r.Fits(startMin, endMin) {
			return true
		}
	}
	return false
}

func (in *Input) blocked(candidate domain.Interval) bool {
	for i := range in.Blocks {
		if in.Blocks[i].Interval.Overlaps(candidate) {
			return true
		}
	}
	return false
}

func (in *Input) occupied(candidate domain.Interval) int {
	total := 0
	for i := range in.Bookings {
		b := &in.Bookings[i]
		if !b.IsActive() || b.SessionTypeID != in.Session.ID {
			continue
		}
		if b.Interval.Overlaps(candidate) {
			total += b.Seats()
		}
	}
	return total
}

// wallMinutes returns minutes from the local midnight of date to the wall clock of t.
// Times on the following day continue past 1440.
func wallMinutes(t time.Time, date time.Time) int {
	ty, tm, td := t.Date()
	dy, dm, dd := date.Date()
	days := int(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Sub(time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)) / (24 * time.Hour))
	return days*types.MinutesPerDay + t.Hour()*60 + t.Minute()
}

func rangeInstants(loc *time.Location, date time.Time, r domain.TimeRange) domain.Interval {
	y, m, d := date.Date()
	rs, re := r.Start.Minutes(), r.End.Minutes()
	start := time.Date(y, m, d, rs/60, rs%60, 0, 0, loc)
	end := time.Date(y, m, d, re/60, re%60, 0, 0, loc)
	return domain.Interval{Start: domain.InstantFromTime(start), End: domain.InstantFromTime(end)}
}
