// Package day computes the calendar-date keys that bucket food entries.
package day

import "time"

// Layout is the format of every bucket key.
const Layout = "2006-01-02"

// Window answers "what is today" and "what is yesterday" for a clock and a
// location. The zero value uses time.Now and the local calendar.
type Window struct {
	Clock    func() time.Time
	Location *time.Location
}

// Key formats t as a bucket key in the window's location.
func (w Window) Key(t time.Time) string {
	return t.In(w.location()).Format(Layout)
}

// Now returns the current instant according to the window's clock.
func (w Window) Now() time.Time {
	if w.Clock == nil {
		return time.Now()
	}
	return w.Clock()
}

// Today returns the key for the current instant.
func (w Window) Today() string {
	return w.Key(w.Now())
}

// Yesterday returns the key for the calendar day before Today.
func (w Window) Yesterday() string {
	now := w.Now().In(w.location())
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -1).Format(Layout)
}

// Retains reports whether a bucket with this key survives retention.
func (w Window) Retains(key string) bool {
	return w.IsToday(key) || w.IsYesterday(key)
}

func (w Window) IsToday(key string) bool {
	return key == w.Today()
}

func (w Window) IsYesterday(key string) bool {
	return key == w.Yesterday()
}

// At returns a copy of w frozen at t.
func (w Window) At(t time.Time) Window {
	w.Clock = func() time.Time { return t }
	return w
}

// FormatTime renders t as a 24-hour HH:MM clock reading.
func (w Window) FormatTime(t time.Time) string {
	return t.In(w.location()).Format("15:04")
}

func (w Window) location() *time.Location {
	if w.Location == nil {
		return time.Local
	}
	return w.Location
}

// Fixed returns a Window frozen at t, in t's location.
func Fixed(t time.Time) Window {
	return Window{
		Clock:    func() time.Time { return t },
		Location: t.Location(),
	}
}
