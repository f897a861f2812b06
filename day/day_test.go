package day

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_TodayAndYesterday(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		today     string
		yesterday string
	}{
		{
			name:      "mid month",
			now:       time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC),
			today:     "2026-10-15",
			yesterday: "2026-10-14",
		},
		{
			name:      "first of month",
			now:       time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC),
			today:     "2026-03-01",
			yesterday: "2026-02-28",
		},
		{
			name:      "leap year",
			now:       time.Date(2028, 3, 1, 9, 0, 0, 0, time.UTC),
			today:     "2028-03-01",
			yesterday: "2028-02-29",
		},
		{
			name:      "new year",
			now:       time.Date(2027, 1, 1, 23, 59, 59, 0, time.UTC),
			today:     "2027-01-01",
			yesterday: "2026-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Fixed(tt.now)
			assert.Equal(t, tt.today, w.Today())
			assert.Equal(t, tt.yesterday, w.Yesterday())
		})
	}
}

func TestWindow_UsesLocationForDayBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on the 16th is still the evening of the 15th in New York.
	instant := time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)
	w := Window{Clock: func() time.Time { return instant }, Location: loc}

	assert.Equal(t, "2026-10-15", w.Today())
	assert.Equal(t, "2026-10-14", w.Yesterday())
}

func TestWindow_YesterdayAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-11-01 is 25 hours long in New York.
	w := Fixed(time.Date(2026, 11, 2, 0, 30, 0, 0, loc))
	assert.Equal(t, "2026-11-02", w.Today())
	assert.Equal(t, "2026-11-01", w.Yesterday())
}

func TestWindow_Retains(t *testing.T) {
	w := Fixed(time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC))

	tests := []struct {
		key    string
		expect bool
	}{
		{"2026-10-15", true},
		{"2026-10-14", true},
		{"2026-10-13", false},
		{"2026-10-16", false},
		{"garbage", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expect, w.Retains(tt.key))
		})
	}

}

func TestWindow_IsTodayIsYesterday(t *testing.T) {
	w := Fixed(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	tests := []struct {
		key           string
		wantToday     bool
		wantYesterday bool
	}{
		{"2026-01-01", true, false},
		{"2025-12-31", false, true},
		{"2025-12-30", false, false},
		{"2026-01-02", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.wantToday, w.IsToday(tt.key))
			assert.Equal(t, tt.wantYesterday, w.IsYesterday(tt.key))
			assert.Equal(t, tt.wantToday || tt.wantYesterday, w.Retains(tt.key))
		})
	}
}

func TestWindow_At(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	live := Window{Clock: time.Now, Location: loc}
	pinned := live.At(time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC))

	// 03:00 UTC is still the evening before in New York.
	assert.Equal(t, "2026-02-28", pinned.Today())
	assert.Equal(t, "2026-02-27", pinned.Yesterday())
	assert.True(t, pinned.Retains("2026-02-27"))
	assert.False(t, pinned.Retains("2026-03-01"))
}

func TestWindow_FormatTime(t *testing.T) {
	w := Fixed(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	got := w.FormatTime(time.Date(2026, 10, 15, 7, 5, 0, 0, time.UTC))
	assert.Equal(t, "07:05", got)
}

func TestWindow_ZeroValue(t *testing.T) {
	var w Window
	assert.Equal(t, time.Now().Format(Layout), w.Today())
}
