package datemath

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-zonedb/tzmodel"
)

func TestResolve(t *testing.T) {
	type in struct {
		Year  int
		Month time.Month
		Day   tzmodel.Day
	}
	type want struct {
		Year  int
		Month time.Month
		Day   int
	}
	cases := []struct {
		in   in
		want want
	}{
		{in{2021, time.March, tzmodel.NewDayNum(23)}, want{2021, time.March, 23}},
		{in{2021, time.March, tzmodel.NewDayLast(time.Sunday)}, want{2021, time.March, 28}},

		// Leap day
		{in{2020, time.February, tzmodel.NewDayAfter(28, time.Saturday)}, want{2020, time.February, 29}},
		{in{2020, time.February, tzmodel.NewDayLast(time.Saturday)}, want{2020, time.February, 29}},
		// Leap day in a non-leap year
		{in{2021, time.February, tzmodel.NewDayAfter(28, time.Saturday)}, want{2021, time.March, 6}},

		// Weekday is on the exact day of month
		{in{2021, time.March, tzmodel.NewDayAfter(28, time.Sunday)}, want{2021, time.March, 28}},
		// Weekday is later in the same month
		{in{2021, time.March, tzmodel.NewDayAfter(15, time.Sunday)}, want{2021, time.March, 21}},
		// Weekday is next month
		{in{2021, time.March, tzmodel.NewDayAfter(30, time.Sunday)}, want{2021, time.April, 4}},
		// Weekday is next year
		{in{2021, time.December, tzmodel.NewDayAfter(30, time.Sunday)}, want{2022, time.January, 2}},

		// Weekday is on the exact day of month
		{in{2021, time.March, tzmodel.NewDayBefore(28, time.Sunday)}, want{2021, time.March, 28}},
		// Weekday is earlier in the same month
		{in{2021, time.March, tzmodel.NewDayBefore(15, time.Sunday)}, want{2021, time.March, 14}},
		// Weekday is last month
		{in{2021, time.March, tzmodel.NewDayBefore(5, time.Sunday)}, want{2021, time.February, 28}},
		// Weekday is last year
		{in{2021, time.January, tzmodel.NewDayBefore(2, time.Sunday)}, want{2020, time.December, 27}},

		// US second Sunday in March
		{in{2007, time.March, tzmodel.NewDayAfter(8, time.Sunday)}, want{2007, time.March, 11}},
	}

	for _, c := range cases {
		y, m, d, err := Resolve(c.in.Year, c.in.Month, c.in.Day)
		if err != nil {
			t.Fatalf("Resolve(%+v): %v", c.in, err)
		}
		got := want{y, m, d}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("Resolve(%+v) mismatch (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestResolve_InvalidForm(t *testing.T) {
	if _, _, _, err := Resolve(2021, time.March, tzmodel.Day{Form: 42}); err == nil {
		t.Error("Resolve() succeeded, want error for invalid day form")
	}
}

func TestWeekday(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
		want  time.Weekday
	}{
		{2000, time.January, 1, time.Saturday},
		{1970, time.January, 1, time.Thursday},
		{2024, time.February, 29, time.Thursday},
		{1900, time.March, 1, time.Thursday},
	}
	for _, c := range cases {
		if got := Weekday(c.year, c.month, c.day); got != c.want {
			t.Errorf("Weekday(%d, %v, %d) = %v, want %v", c.year, c.month, c.day, got, c.want)
		}
	}
}
