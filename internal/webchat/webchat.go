// Package webchat decides whether the live chat channel is open. The check
// is a pure function of the supplied time so handlers and tests can pin it.
package webchat

import (
	"errors"
	"time"
)

// ErrClosed is returned outside opening hours; the webchat page shows the
// opening times instead of the chat form.
var ErrClosed = errors.New("webchat: closed")

// Opening hours, local time. Saturdays run reduced hours and Sundays are
// closed, except during census weekend when both days open.
const (
	weekdayOpenHour  = 8
	weekdayCloseHour = 19

	saturdayOpenHour    = 8
	saturdayOpenMinute  = 30
	saturdayCloseHour   = 16
	saturdayCloseMinute = 0

	censusSaturdayOpenHour  = 8
	censusSaturdayCloseHour = 20
	censusSundayOpenHour    = 8
	censusSundayCloseHour   = 16
)

type monthDay struct {
	Month time.Month
	Day   int
}

// censusWeekend is the extended-hours weekend around census day.
var censusWeekend = map[monthDay]bool{
	{time.October, 12}: true,
	{time.October, 13}: true,
}

// bankHolidays are closure dates regardless of weekday.
var bankHolidays = map[monthDay]bool{
	{time.January, 1}:   true,
	{time.April, 19}:    true,
	{time.April, 22}:    true,
	{time.May, 6}:       true,
	{time.May, 27}:      true,
	{time.August, 26}:   true,
	{time.December, 25}: true,
	{time.December, 26}: true,
}

// CheckOpen reports whether webchat is available at the given moment,
// returning ErrClosed when it is not.
func CheckOpen(now time.Time) error {
	day := monthDay{now.Month(), now.Day()}

	if censusWeekend[day] {
		switch now.Weekday() {
		case time.Saturday:
			if withinHours(now, censusSaturdayOpenHour, 0, censusSaturdayCloseHour, 0) {
				return nil
			}
		case time.Sunday:
			if withinHours(now, censusSundayOpenHour, 0, censusSundayCloseHour, 0) {
				return nil
			}
		}
		return ErrClosed
	}

	if bankHolidays[day] {
		return ErrClosed
	}

	switch now.Weekday() {
	case time.Sunday:
		return ErrClosed
	case time.Saturday:
		if withinHours(now, saturdayOpenHour, saturdayOpenMinute, saturdayCloseHour, saturdayCloseMinute) {
			return nil
		}
		return ErrClosed
	default:
		if withinHours(now, weekdayOpenHour, 0, weekdayCloseHour, 0) {
			return nil
		}
		return ErrClosed
	}
}

func withinHours(now time.Time, openHour, openMin, closeHour, closeMin int) bool {
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= openHour*60+openMin && minutes < closeHour*60+closeMin
}
