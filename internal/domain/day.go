package domain

import "time"

// DayOf truncates t to midnight in its own location. Ledger dates are
// calendar days of the site that recorded them, never converted to UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey is the YYYY-MM-DD calendar day of t, as stored in output_date.
func DayKey(t time.Time) string {
	return DayOf(t).Format("2006-01-02")
}
