package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

var (
	// 2025-03-10 is a Monday
	monday  = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
)

func at(date time.Time, hour, minute int) domain.Instant {
	y, m, d := date.Date()
	return domain.InstantFromTime(time.Date(y, m, d, hour, minute, 0, 0, date.Location()))
}

func session(duration, capacity int) domain.SessionType {
	return domain.SessionType{
		ID:              uuid.New(),
		TenantID:        uuid.New(),
		DurationMinutes: duration,
		Capacity:        capacity,
		IsActive:        true,
	}
}

func mondayOnly() domain.WeeklySchedule {
	return domain.ScheduleFromRules([]domain.WeeklyHoursRule{
		{DayOfWeek: domain.Monday, StartTime: "09:00", EndTime: "17:00", Enabled: true},
	})
}

func baseInput(date time.Time, s domain.SessionType) Input {
	return Input{
		Location: time.UTC,
		Date:     date,
		Now:      at(date, 0, 0) - 1,
		Step:     30 * time.Minute,
		Session:  s,
		Ranges:   mondayOnly()[DayOfWeek(date)],
	}
}

func slotAt(t *testing.T, slots []domain.Slot, start domain.Instant) domain.Slot {
	t.Helper()
	for _, s := range slots {
		if s.Start == start {
			return s
		}
	}
	t.Fatalf("no slot starting at %d", start)
	return domain.Slot{}
}

func TestGenerate_ClosedDayIsOutsideHours(t *testing.T) {
	in := baseInput(tuesday, session(30, 1))

	slots, err := Generate(in)
	require.NoError(t, err)
	require.Len(t, slots, 48)

	for _, s := range slots {
		assert.False(t, s.Available)
		assert.Equal(t, domain.ReasonOutsideHours, s.Reason)
	}
}

func TestGenerate_OpenDay(t *testing.T) {
	in := baseInput(monday, session(30, 1))

	slots, err := Generate(in)
	require.NoError(t, err)
	require.Len(t, slots, 48)

	counts := CountReasons(slots)
	assert.Equal(t, 16, counts[""])
	assert.Equal(t, 32, counts[string(domain.ReasonOutsideHours)])

	assert.True(t, slotAt(t, slots, at(monday, 9, 0)).Available)
	assert.True(t, slotAt(t, slots, at(monday, 16, 30)).Available)
	assert.Equal(t, domain.ReasonOutsideHours, slotAt(t, slots, at(monday, 17, 0)).Reason)
	assert.Equal(t, domain.ReasonOutsideHours, slotAt(t, slots, at(monday, 8, 30)).Reason)
}

func TestGenerate_BlockedInterval(t *testing.T) {
	in := baseInput(monday, session(30, 1))
	in.Blocks = []domain.BlockedInterval{{
		ID:       uuid.New(),
		Interval: domain.Interval{Start: at(monday, 10, 0), End: at(monday, 10, 30)},
	}}

	slots, err := Generate(in)
	require.NoError(t, err)

	blocked := slotAt(t, slots, at(monday, 10, 0))
	assert.False(t, blocked.Available)
	assert.Equal(t, domain.ReasonBlocked, blocked.Reason)

	assert.True(t, slotAt(t, slots, at(monday, 9, 30)).Available)
	assert.True(t, slotAt(t, slots, at(monday, 10, 30)).Available)
}

func TestGenerate_LongSessionBlockedByLaterBlock(t *testing.T) {
	in := baseInput(monday, session(60, 1))
	in.Blocks = []domain.BlockedInterval{{
		Interval: domain.Interval{Start: at(monday, 10, 0), End: at(monday, 10, 30)},
	}}

	slots, err := Generate(in)
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonBlocked, slotAt(t, slots, at(monday, 9, 30)).Reason)
	assert.True(t, slotAt(t, slots, at(monday, 9, 0)).Available)
}

func TestGenerate_SessionMustEndBeforeClosing(t *testing.T) {
	in := baseInput(monday, session(60, 1))

	slots, err := Generate(in)
	require.NoError(t, err)

	assert.True(t, slotAt(t, slots, at(monday, 16, 0)).Available)
	assert.Equal(t, domain.ReasonOutsideHours, slotAt(t, slots, at(monday, 16, 30)).Reason)
}

func TestGenerate_SessionMustFitOneRange(t *testing.T) {
	in := baseInput(monday, session(60, 1))
	in.Ranges = []domain.TimeRange{
		{Start: "09:00", End: "12:00"},
		{Start: "12:00", End: "17:00"},
	}

	slots, err := Generate(in)
	require.NoError(t, err)

	// 11:30-12:30 spans two touching ranges but fits neither
	assert.Equal(t, domain.ReasonOutsideHours, slotAt(t, slots, at(monday, 11, 30)).Reason)
	assert.True(t, slotAt(t, slots, at(monday, 12, 0)).Available)
}

func TestGenerate_Capacity(t *testing.T) {
	s := session(30, 2)
	in := baseInput(monday, s)
	in.Bookings = []domain.Booking{
		{SessionTypeID: s.ID, Status: domain.StatusConfirmed, Interval: domain.Interval{Start: at(monday, 14, 0), End: at(monday, 14, 30)}},
		{SessionTypeID: s.ID, Status: domain.StatusPendingPayment, Interval: domain.Interval{Start: at(monday, 14, 0), End: at(monday, 14, 30)}},
		{SessionTypeID: s.ID, Status: domain.StatusConfirmed, Interval: domain.Interval{Start: at(monday, 15, 0), End: at(monday, 15, 30)}},
		// inactive and foreign bookings never count
		{SessionTypeID: s.ID, Status: domain.StatusCancelled, Interval: domain.Interval{Start: at(monday, 15, 0), End: at(monday, 15, 30)}},
		{SessionTypeID: s.ID, Status: domain.StatusPaymentFailed, Interval: domain.Interval{Start: at(monday, 15, 0), End: at(monday, 15, 30)}},
		{SessionTypeID: uuid.New(), Status: domain.StatusConfirmed, Interval: domain.Interval{Start: at(monday, 15, 0), End: at(monday, 15, 30)}},
	}

	slots, err := Generate(in)
	require.NoError(t, err)

	full := slotAt(t, slots, at(monday, 14, 0))
	assert.False(t, full.Available)
	assert.Equal(t, domain.ReasonAtCapacity, full.Reason)
	assert.Equal(t, 0, full.RemainingCapacity)

	assert.True(t, slotAt(t, slots, at(monday, 13, 30)).Available)
	assert.True(t, slotAt(t, slots, at(monday, 14, 30)).Available)

	half := slotAt(t, slots, at(monday, 15, 0))
	assert.True(t, half.Available)
	assert.Equal(t, 1, half.RemainingCapacity)
}

func TestGenerate_ParticipantsConsumeCapacity(t *testing.T) {
	s := session(30, 4)
	in := baseInput(monday, s)
	in.Bookings = []domain.Booking{
		{SessionTypeID: s.ID, Participants: 4, Status: domain.StatusConfirmed, Interval: domain.Interval{Start: at(monday, 11, 0), End: at(monday, 11, 30)}},
	}

	slots, err := Generate(in)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonAtCapacity, slotAt(t, slots, at(monday, 11, 0)).Reason)
}

func TestGenerate_ReasonPriority(t *testing.T) {
	s := session(30, 1)
	in := baseInput(monday, s)
	in.Now = at(monday, 10, 0)
	in.Blocks = []domain.BlockedInterval{
		{Interval: domain.Interval{Start: at(monday, 9, 0), End: at(monday, 12, 0)}},
		{Interval: domain.Interval{Start: at(monday, 18, 0), End: at(monday, 19, 0)}},
	}
	in.Bookings = []domain.Booking{
		{SessionTypeID: s.ID, Status: domain.StatusConfirmed, Interval: domain.Interval{Start: at(monday, 11, 0), End: at(monday, 11, 30)}},
	}

	slots, err := Generate(in)
	require.NoError(t, err)

	// now is exactly 10:00: the 10:00 slot is already past
	assert.Equal(t, domain.ReasonPast, slotAt(t, slots, at(monday, 9, 30)).Reason)
	assert.Equal(t, domain.ReasonPast, slotAt(t, slots, at(monday, 10, 0)).Reason)
	// blocked and outside hours: outside hours wins
	assert.Equal(t, domain.ReasonOutsideHours, slotAt(t, slots, at(monday, 18, 0)).Reason)
	// blocked and at capacity: blocked wins
	assert.Equal(t, domain.ReasonBlocked, slotAt(t, slots, at(monday, 11, 0)).Reason)
	assert.True(t, slotAt(t, slots, at(monday, 12, 0)).Available)
}

func TestGenerate_DSTSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09 02:00 EST jumps to 03:00 EDT
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, loc)
	in := Input{
		Location: loc,
		Date:     sunday,
		Now:      0,
		Step:     30 * time.Minute,
		Session:  session(30, 1),
		Ranges:   []domain.TimeRange{{Start: "09:00", End: "17:00"}},
	}

	slots, err := Generate(in)
	require.NoError(t, err)
	require.Len(t, slots, 46)

	assert.Equal(t, 3, slots[4].Start.In(loc).Hour())

	first := slotAt(t, slots, domain.InstantFromTime(time.Date(2025, 3, 9, 9, 0, 0, 0, loc)))
	assert.True(t, first.Available)
	assert.Equal(t, 13, first.Start.Time().Hour(), "09:00 EDT is 13:00 UTC")

	assert.Equal(t, 16, CountReasons(slots)[""])
}

func TestGenerate_DSTFallBack(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	sunday := time.Date(2025, 11, 2, 0, 0, 0, 0, loc)
	in := Input{
		Location: loc,
		Date:     sunday,
		Step:     30 * time.Minute,
		Session:  session(30, 1),
		Ranges:   []domain.TimeRange{{Start: "09:00", End: "17:00"}},
	}

	slots, err := Generate(in)
	require.NoError(t, err)
	require.Len(t, slots, 50)

	first := slotAt(t, slots, domain.InstantFromTime(time.Date(2025, 11, 2, 9, 0, 0, 0, loc)))
	assert.True(t, first.Available)
	assert.Equal(t, 14, first.Start.Time().Hour(), "09:00 EST is 14:00 UTC")
	assert.Equal(t, 16, CountReasons(slots)[""])
}

func TestGenerate_InvalidInput(t *testing.T) {
	in := baseInput(monday, session(30, 1))
	in.Step = 0
	_, err := Generate(in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = baseInput(monday, session(0, 1))
	_, err = Generate(in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = baseInput(monday, session(30, 1))
	in.Location = nil
	_, err = Generate(in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheck(t *testing.T) {
	s := session(30, 2)
	in := baseInput(monday, s)
	in.Bookings = []domain.Booking{
		{SessionTypeID: s.ID, Status: domain.StatusConfirmed, Interval: domain.Interval{Start: at(monday, 14, 0), End: at(monday, 14, 30)}},
	}

	slot, err := Check(in, at(monday, 14, 0), 1)
	require.NoError(t, err)
	assert.True(t, slot.Available)

	slot, err = Check(in, at(monday, 14, 0), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonAtCapacity, slot.Reason)

	slot, err = Check(in, at(monday, 14, 15), 1)
	require.NoError(t, err)
	assert.True(t, slot.Available, "unaligned starts are still evaluated by the rules")
}

func TestIsAligned(t *testing.T) {
	assert.True(t, IsAligned(time.UTC, at(monday, 10, 30), 30*time.Minute))
	assert.False(t, IsAligned(time.UTC, at(monday, 10, 15), 30*time.Minute))
	assert.True(t, IsAligned(time.UTC, at(monday, 10, 15), 15*time.Minute))
}

func TestOpenWindows(t *testing.T) {
	in := baseInput(monday, session(30, 1))
	in.Blocks = []domain.BlockedInterval{
		{Interval: domain.Interval{Start: at(monday, 10, 0), End: at(monday, 10, 30)}},
	}

	windows, err := OpenWindows(in)
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{
		{Start: at(monday, 9, 0), End: at(monday, 10, 0)},
		{Start: at(monday, 10, 30), End: at(monday, 17, 0)},
	}, windows)
}

func TestSnapshotWindow(t *testing.T) {
	w := SnapshotWindow(time.UTC, monday, 90)
	assert.Equal(t, at(monday, 0, 0), w.Start)
	assert.Equal(t, at(tuesday, 1, 30), w.End)
}

// Every available slot starts in the future, fits an enabled range, overlaps
// no block and leaves room under capacity, for any random snapshot.
func TestGenerate_AvailableSlotsInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		s := session(15*(1+rnd.Intn(8)), 1+rnd.Intn(3))
		in := baseInput(monday, s)
		in.Now = at(monday, rnd.Intn(24), 0)
		in.Ranges = nil
		for i := 0; i < rnd.Intn(3); i++ {
			startMin := rnd.Intn(20) * 60
			start, _ := types.NewTimeStringFromMinutes(startMin)
			end, _ := types.NewTimeStringFromMinutes(startMin + 60*(1+rnd.Intn(4)))
			in.Ranges = append(in.Ranges, domain.TimeRange{Start: start, End: end})
		}
		for i := 0; i < rnd.Intn(4); i++ {
			start := at(monday, rnd.Intn(24), 15*rnd.Intn(4))
			in.Blocks = append(in.Blocks, domain.BlockedInterval{
				Interval: domain.Interval{Start: start, End: start.AddMinutes(15 * (1 + rnd.Intn(6)))},
			})
		}
		for i := 0; i < rnd.Intn(6); i++ {
			start := at(monday, rnd.Intn(24), 30*rnd.Intn(2))
			in.Bookings = append(in.Bookings, domain.Booking{
				SessionTypeID: s.ID,
				Status:        domain.StatusConfirmed,
				Interval:      domain.Interval{Start: start, End: start.AddMinutes(s.DurationMinutes)},
			})
		}

		slots, err := Generate(in)
		require.NoError(t, err)

		for _, slot := range slots {
			if !slot.Available {
				assert.NotEqual(t, domain.ReasonNone, slot.Reason)
				continue
			}
			candidate := domain.Interval{Start: slot.Start, End: slot.End}
			assert.Greater(t, slot.Start, in.Now)

			fits := false
			startMin := wallMinutes(slot.Start.In(time.UTC), monday)
			endMin := wallMinutes(slot.End.In(time.UTC), monday)
			for _, r := range in.Ranges {
				fits = fits || r.Fits(startMin, endMin)
			}
			assert.True(t, fits)

			for _, b := range in.Blocks {
				assert.False(t, b.Interval.Overlaps(candidate))
			}

			occupied := 0
			for _, b := range in.Bookings {
				if b.Interval.Overlaps(candidate) {
					occupied += b.Seats()
				}
			}
			assert.Less(t, occupied, s.Capacity)
		}
	}
}
