package main

import "time"

// advanceStreak applies one log-write event to the streak counter. Pure;
// operates on local-calendar-day strings (see localDate).
//
// Rules:
//   - Only a write dated today counts. Backfilled or future-dated logs leave
//     the streak untouched.
//   - Idempotent per day: if the streak already fired today, nothing changes.
//     The first-write-of-day trigger in the log handlers should make a second
//     call impossible, but two devices racing across the same midnight can
//     still produce one.
//   - lastLogDate == yesterday extends the streak by one; any gap resets it
//     to 1. The counter never decrements outside a reset.
func advanceStreak(s streakState, eventDate, today string) streakState {
	if eventDate != today {
		return s
	}
	if s.LastLogDate == today {
		return s
	}
	if s.LastLogDate == previousDay(today) {
		s.Current++
	} else {
		s.Current = 1
	}
	s.LastLogDate = today
	return s
}

// previousDay returns the calendar day before an ISO date string. An
// unparseable input yields an empty string, which never matches a stored
// lastLogDate and therefore falls into the reset branch.
func previousDay(date string) string {
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(isoDate)
}
