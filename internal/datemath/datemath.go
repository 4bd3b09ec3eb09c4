// Package datemath resolves the day forms of ON and UNTIL columns to calendar dates
// in the proleptic Gregorian calendar without depending on time.Location.
package datemath

import (
	"fmt"
	"time"

	"github.com/ngrash/go-zonedb/tzmodel"
)

// Resolve returns the calendar date that d designates in the given month.
// Days in the After and Before forms can spill over into the adjacent month or year,
// which is why year and month are returned as well.
func Resolve(year int, month time.Month, d tzmodel.Day) (int, time.Month, int, error) {
	switch d.Form {
	case tzmodel.DayFormNum:
		return year, month, d.Num, nil
	case tzmodel.DayFormLast:
		return year, month, lastWeekdayOfMonth(year, month, d.Day), nil
	case tzmodel.DayFormAfter:
		y, m, day := weekdayOnOrAfter(year, month, d.Num, d.Day)
		return y, m, day, nil
	case tzmodel.DayFormBefore:
		y, m, day := weekdayOnOrBefore(year, month, d.Num, d.Day)
		return y, m, day, nil
	}
	return 0, 0, 0, fmt.Errorf("invalid day form: %v", d.Form)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the month of the given year.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

// Weekday returns the day of the week of a date using Zeller's congruence.
func Weekday(year int, month time.Month, day int) time.Weekday {
	m := int(month)
	if m < 3 {
		m += 12
		year--
	}
	k := year % 100
	j := year / 100
	h := (day + (13*(m+1))/5 + k + k/4 + j/4 + 5*j) % 7
	// Zeller counts from Saturday.
	return time.Weekday((h + 6) % 7)
}

func lastWeekdayOfMonth(year int, month time.Month, wd time.Weekday) int {
	last := DaysIn(year, month)
	back := (int(Weekday(year, month, last)) - int(wd) + 7) % 7
	return last - back
}

func weekdayOnOrAfter(year int, month time.Month, day int, wd time.Weekday) (int, time.Month, int) {
	day += (int(wd) - int(Weekday(year, month, day)) + 7) % 7
	if n := DaysIn(year, month); day > n {
		day -= n
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return year, month, day
}

func weekdayOnOrBefore(year int, month time.Month, day int, wd time.Weekday) (int, time.Month, int) {
	day -= (int(Weekday(year, month, day)) - int(wd) + 7) % 7
	if day < 1 {
		month--
		if month < time.January {
			month = time.December
			year--
		}
		day += DaysIn(year, month)
	}
	return year, month, day
}
