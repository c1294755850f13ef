package domain

// SlotReason explains why a slot is unavailable. Empty means available.
type SlotReason string

// Reasons in priority order: the first failing check wins.
const (
	ReasonNone         SlotReason = ""
	ReasonPast         SlotReason = "PAST"
	ReasonOutsideHours SlotReason = "OUTSIDE_HOURS"
	ReasonBlocked      SlotReason = "BLOCKED"
	ReasonAtCapacity   SlotReason = "AT_CAPACITY"
)

// Slot is a candidate start instant with its implied session interval.
type Slot struct {
	Start             Instant
	End               Instant
	Available         bool
	Reason            SlotReason
	RemainingCapacity int
}
