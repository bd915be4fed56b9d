// Package timezone keeps every clock read and calendar-date computation in
// the application timezone configured by APP_TIMEZONE (IANA names such as
// "UTC" or "Asia/Jakarta").
//
//	now := timezone.Now()
//	today := timezone.Today()               // calendar date, midnight UTC
//	start, err := timezone.ParseDate("2025-01-31")
//	nights := timezone.DaysBetween(start, end)
//
// Booking dates are calendar dates. DateOnly normalizes any instant to its
// date so that comparisons ignore the clock.
package timezone
