package internal

import "time"

// DayRange returns the local-midnight boundaries [start, end) of the calendar
// day containing t in the given location.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	lt := t.In(loc)
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// MinutesPastMidnight returns t's clock time in the given location as whole
// minutes since local midnight, ignoring seconds.
func MinutesPastMidnight(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}
