package dateutil

import "time"

// CurrentWeek returns the midnight of monday of the week containing t.
func CurrentWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	monday := t.AddDate(0, 0, 1-weekday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

func LastWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}

func LastMonth(t time.Time) time.Time {
	return t.AddDate(0, -1, 0)
}

func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}
