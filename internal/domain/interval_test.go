package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(start, end int64) Interval {
	return Interval{Start: Instant(start), End: Instant(end)}
}

func TestNewInterval(t *testing.T) {
	_, err := NewInterval(10, 10)
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewInterval(20, 10)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	got, err := NewInterval(10, 20)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, got.Duration())
}

func TestIntervalFromDuration(t *testing.T) {
	got, err := IntervalFromDuration(0, 30)
	require.NoError(t, err)
	assert.Equal(t, Instant(30*60*1000), got.End)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{name: "identical", a: iv(0, 10), b: iv(0, 10), want: true},
		{name: "touching end to start", a: iv(0, 10), b: iv(10, 20), want: false},
		{name: "touching start to end", a: iv(10, 20), b: iv(0, 10), want: false},
		{name: "partial", a: iv(0, 10), b: iv(5, 15), want: true},
		{name: "nested", a: iv(0, 100), b: iv(40, 60), want: true},
		{name: "disjoint", a: iv(0, 10), b: iv(20, 30), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestContains(t *testing.T) {
	outer := iv(10, 20)
	assert.True(t, Contains(outer, 10))
	assert.True(t, outer.Contains(19))
	assert.False(t, Contains(outer, 20))
	assert.False(t, Contains(outer, 9))
}

func TestSubtractAll(t *testing.T) {
	tests := []struct {
		name     string
		universe Interval
		holes    []Interval
		want     []Interval
	}{
		{
			name:     "no holes",
			universe: iv(0, 100),
			want:     []Interval{iv(0, 100)},
		},
		{
			name:     "hole in the middle",
			universe: iv(0, 100),
			holes:    []Interval{iv(40, 60)},
			want:     []Interval{iv(0, 40), iv(60, 100)},
		},
		{
			name:     "unsorted overlapping holes",
			universe: iv(0, 100),
			holes:    []Interval{iv(70, 80), iv(10, 30), iv(25, 40)},
			want:     []Interval{iv(0, 10), iv(40, 70), iv(80, 100)},
		},
		{
			name:     "holes past the edges",
			universe: iv(10, 50),
			holes:    []Interval{iv(0, 20), iv(45, 90)},
			want:     []Interval{iv(20, 45)},
		},
		{
			name:     "fully covered",
			universe: iv(10, 50),
			holes:    []Interval{iv(0, 60)},
			want:     []Interval{},
		},
		{
			name:     "touching holes leave no gap",
			universe: iv(0, 30),
			holes:    []Interval{iv(0, 10), iv(10, 20)},
			want:     []Interval{iv(20, 30)},
		},
		{
			name:     "holes outside are ignored",
			universe: iv(10, 20),
			holes:    []Interval{iv(0, 10), iv(20, 30)},
			want:     []Interval{iv(10, 20)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubtractAll(tt.universe, tt.holes))
		})
	}
}

func TestInstant_Conversions(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	i := InstantFromTime(ts)

	assert.Equal(t, ts, i.Time())
	assert.Equal(t, i+Instant(30*60*1000), i.AddMinutes(30))
	assert.Equal(t, i.AddMinutes(30), i.Add(30*time.Minute))

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	assert.Equal(t, 12, i.In(loc).Hour())
}
