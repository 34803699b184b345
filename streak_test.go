package main

import "testing"

// Fixed dates keep these tests independent of the wall clock; advanceStreak
// only compares strings.
const (
	streakToday      = "2026-08-20"
	streakYesterday  = "2026-08-19"
	streakTwoDaysAgo = "2026-08-18"
)

// TestAdvanceStreak_ExtendsFromYesterday: logging today after logging
// yesterday extends the run.
func TestAdvanceStreak_ExtendsFromYesterday(t *testing.T) {
	s := streakState{Current: 3, LastLogDate: streakYesterday}
	got := advanceStreak(s, streakToday, streakToday)
	want := streakState{Current: 4, LastLogDate: streakToday}
	if got != want {
		t.Errorf("advanceStreak = %+v, want %+v", got, want)
	}
}

// TestAdvanceStreak_ResetsAfterGap: a missed day resets the counter to 1, not 0.
func TestAdvanceStreak_ResetsAfterGap(t *testing.T) {
	s := streakState{Current: 5, LastLogDate: streakTwoDaysAgo}
	got := advanceStreak(s, streakToday, streakToday)
	want := streakState{Current: 1, LastLogDate: streakToday}
	if got != want {
		t.Errorf("advanceStreak = %+v, want %+v", got, want)
	}
}

// TestAdvanceStreak_FirstEverLog: an empty lastLogDate behaves like a gap and
// starts the streak at 1.
func TestAdvanceStreak_FirstEverLog(t *testing.T) {
	got := advanceStreak(streakState{}, streakToday, streakToday)
	want := streakState{Current: 1, LastLogDate: streakToday}
	if got != want {
		t.Errorf("advanceStreak = %+v, want %+v", got, want)
	}
}

// TestAdvanceStreak_IdempotentSameDay: the second trigger on the same day is
// a no-op, guarding against duplicate first-write events.
func TestAdvanceStreak_IdempotentSameDay(t *testing.T) {
	s := streakState{Current: 3, LastLogDate: streakYesterday}
	once := advanceStreak(s, streakToday, streakToday)
	twice := advanceStreak(once, streakToday, streakToday)
	if once != twice {
		t.Errorf("second same-day call changed the streak: %+v vs %+v", once, twice)
	}
}

// TestAdvanceStreak_IgnoresNonTodayEvents: backfilled or future-dated log
// writes never move the streak.
func TestAdvanceStreak_IgnoresNonTodayEvents(t *testing.T) {
	s := streakState{Current: 3, LastLogDate: streakYesterday}

	for _, eventDate := range []string{streakYesterday, streakTwoDaysAgo, "2026-09-01"} {
		got := advanceStreak(s, eventDate, streakToday)
		if got != s {
			t.Errorf("event dated %s changed the streak: %+v", eventDate, got)
		}
	}
}

// TestPreviousDay covers month and year boundaries, where naive day
// subtraction goes wrong.
func TestPreviousDay(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-08-20", "2026-08-19"},
		{"2026-08-01", "2026-07-31"},
		{"2026-01-01", "2025-12-31"},
		{"2024-03-01", "2024-02-29"}, // leap year
		{"not-a-date", ""},
	}
	for _, tc := range cases {
		if got := previousDay(tc.date); got != tc.want {
			t.Errorf("previousDay(%q) = %q, want %q", tc.date, got, tc.want)
		}
	}
}
