package pkg

import "time"

// DayOf truncates t to its calendar date in loc. The result is midnight UTC
// of that date so it round-trips cleanly through a Postgres date column.
func DayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func PreviousDay(day time.Time) time.Time {
	return day.AddDate(0, 0, -1)
}

// FirstDayOfWeek truncates t to the Monday 00:00 UTC that opens its week,
// the same boundary the weekly leaderboard clear runs on.
func FirstDayOfWeek(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7

	return day.AddDate(0, 0, -offset)
}

func GetFirstTimeOfCurrentWeek() time.Time {
	return FirstDayOfWeek(time.Now())
}
