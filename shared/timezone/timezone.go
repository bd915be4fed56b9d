package timezone

import (
	"time"
	"warehub/config"
	"warehub/shared/constant"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	name := cfg.App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		name = "UTC"
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		appLocation = time.UTC

		return
	}

	appLocation = loc

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// GetLocation returns the application timezone, UTC when uninitialized.
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts t to the application timezone.
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse parses value in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// Format formats t in the application timezone.
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// DateOnly truncates t to its calendar date, keeping t's own year, month and
// day. The result is midnight UTC so it compares cleanly with DATE columns.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CalendarDate returns the calendar date of a stored booking date. Stored
// dates are midnight UTC, so the date is read in UTC whatever zone t carries.
func CalendarDate(t time.Time) time.Time {
	return DateOnly(t.UTC())
}

// FormatDate renders a stored calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return CalendarDate(t).Format(constant.DayDateFormat)
}

// Today is the current calendar date in the application timezone.
func Today() time.Time {
	return DateOnly(Now())
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err //nolint:wrapcheck
	}

	return DateOnly(t), nil
}

// DaysBetween counts whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(CalendarDate(end).Sub(CalendarDate(start)).Hours() / constant.HoursPerDay)
}
