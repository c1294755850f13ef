package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// DayOfWeek is an ISO day number, Monday = 1 ... Sunday = 7.
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllDays lists the days of week in ISO order.
var AllDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = map[DayOfWeek]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
	Sunday:    "SUNDAY",
}

// DayOfWeekFromWeekday converts a time.Weekday (Sunday = 0) to DayOfWeek.
func DayOfWeekFromWeekday(wd time.Weekday) DayOfWeek {
	if wd == time.Sunday {
		return Sunday
	}
	return DayOfWeek(wd)
}

// ParseDayOfWeek accepts full or three-letter English day names in any case.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for day, full := range dayNames {
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDayOfWeek, s)
}

// IsValid reports whether d is in Monday..Sunday.
func (d DayOfWeek) IsValid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DayOfWeek(%d)", int(d))
}

// MarshalText encodes the day as its upper-case English name.
func (d DayOfWeek) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a day name.
func (d *DayOfWeek) UnmarshalText(text []byte) error {
	parsed, err := ParseDayOfWeek(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeRange is a wall-clock range [Start, End) within one day.
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate checks both bounds and Start < End.
func (r TimeRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidTimeRange, err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidTimeRange, err)
	}
	if !r.Start.IsBefore(r.End) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, r.Start, r.End)
	}
	return nil
}

// Fits reports whether a session that starts startMin minutes after local midnight
// and ends endMin minutes after the same midnight starts inside the range and ends
// no later than its end.
func (r TimeRange) Fits(startMin, endMin int) bool {
	rs, re := r.Start.Minutes(), r.End.Minutes()
	return rs <= startMin && startMin < re && endMin <= re
}

// Overlaps reports whether two wall-clock ranges intersect.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < r.End.Minutes()
}

// WeeklyHoursRule is one recurring open range for a day of week, in tenant-local wall-clock time.
type WeeklyHoursRule struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	DayOfWeek DayOfWeek
	StartTime types.TimeString
	EndTime   types.TimeString
	Enabled   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the rule's wall-clock range.
func (r *WeeklyHoursRule) Range() TimeRange {
	return TimeRange{Start: r.StartTime, End: r.EndTime}
}

// Validate checks the day and the time range of a single rule.
func (r *WeeklyHoursRule) Validate() error {
	if !r.DayOfWeek.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, int(r.DayOfWeek))
	}
	return r.Range().Validate()
}

// WeeklySchedule is the enabled part of a weekly template keyed by day.
// Ranges of each day are sorted by start.
type WeeklySchedule map[DayOfWeek][]TimeRange

// ScheduleFromRules keeps only enabled rules and groups them by day.
func ScheduleFromRules(rules []WeeklyHoursRule) WeeklySchedule {
	schedule := make(WeeklySchedule)
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		schedule[rule.DayOfWeek] = append(schedule[rule.DayOfWeek], rule.Range())
	}
	for day := range schedule {
		SortRanges(schedule[day])
	}
	return schedule
}

// SortRanges sorts ranges by start time in place.
func SortRanges(ranges []TimeRange) {
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start.Minutes() < ranges[j].Start.Minutes()
	})
}

// ValidateWeeklyRules validates every rule and rejects overlapping enabled
// rules within the same day. Disabled rules never conflict.
func ValidateWeeklyRules(rules []WeeklyHoursRule) error {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return fmt.Errorf("rule #%d: %w", i, err)
		}
	}

	perDay := make(map[DayOfWeek]int)
	for _, rule := range rules {
		perDay[rule.DayOfWeek]++
		if perDay[rule.DayOfWeek] > MaxRulesPerDay {
			return fmt.Errorf("%w: more than %d rules for %s", ErrValidation, MaxRulesPerDay, rule.DayOfWeek)
		}
	}

	for day, ranges := range ScheduleFromRules(rules) {
		for i := 1; i < len(ranges); i++ {
			if ranges[i-1].Overlaps(ranges[i]) {
				return fmt.Errorf("%w: %s %s-%s and %s-%s", ErrOverlappingRules, day,
					ranges[i-1].Start, ranges[i-1].End, ranges[i].Start, ranges[i].End)
			}
		}
	}

	return nil
}

// DefaultWeeklyRules is the template a new tenant starts with:
// Monday to Friday 09:00-17:00, weekend closed.
func DefaultWeeklyRules(tenantID uuid.UUID) []WeeklyHoursRule {
	rules := make([]WeeklyHoursRule, 0, len(AllDays))
	for _, day := range AllDays {
		rules = append(rules, WeeklyHoursRule{
			TenantID:  tenantID,
			DayOfWeek: day,
			StartTime: DefaultOpeningTime,
			EndTime:   DefaultClosingTime,
			Enabled:   day != Saturday && day != Sunday,
		})
	}
	return rules
}
