package tzmodel

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// UntilPartsMask is a bitmask of the parts that are defined in the UNTIL column of a zone line.
// Parts that are not set default to the earliest possible value.
type UntilPartsMask uint8

// Has returns true if all the parts in the mask are set.
func (p UntilPartsMask) Has(parts UntilPartsMask) bool {
	return p&parts == parts
}

// Set sets the parts in the mask.
func (p UntilPartsMask) Set(parts UntilPartsMask) UntilPartsMask {
	return p | parts
}

const (
	// UntilUndefined is the zero value of UntilPartsMask.
	UntilUndefined = UntilPartsMask(0)

	untilYearOnly UntilPartsMask = 1 << iota
	untilMonthOnly
	untilDayOnly
	untilTimeOnly

	// Trailing fields can only be omitted from the right, so each part implies the ones before it.

	// UntilYear indicates that Until.Year is defined. This is always set if Until.Defined is true.
	UntilYear = untilYearOnly
	// UntilMonth indicates that Until.Month is defined.
	UntilMonth = UntilYear | untilMonthOnly
	// UntilDay indicates that Until.Day is defined.
	UntilDay = UntilMonth | untilDayOnly
	// UntilTime indicates that Until.Time is defined.
	UntilTime = UntilDay | untilTimeOnly
)

// Until represents the UNTIL column of a zone line.
// The zero value means the column is not defined and the era has no upper bound.
type Until struct {
	// Set to true if the UNTIL column is defined.
	Defined bool
	// Parts is a bitmask of the parts that are defined.
	Parts UntilPartsMask
	// Year is always defined if Defined is true.
	Year int
	// Month is defined if Parts.Has(UntilMonth) is true.
	Month time.Month
	// Day is defined if Parts.Has(UntilDay) is true.
	Day Day
	// Time is defined if Parts.Has(UntilTime) is true.
	Time Time
}

// NewUntil returns an Until with the given year. Use the With* methods to add trailing fields.
func NewUntil(year int) Until {
	return Until{Defined: true, Parts: UntilYear, Year: year}
}

// WithMonth returns a copy of u with the month set.
func (u Until) WithMonth(m time.Month) Until {
	u.Month = m
	u.Parts = u.Parts.Set(UntilMonth)
	return u
}

// WithDay returns a copy of u with the day set.
func (u Until) WithDay(d Day) Until {
	u.Day = d
	u.Parts = u.Parts.Set(UntilDay)
	return u
}

// WithTime returns a copy of u with the time of day set.
func (u Until) WithTime(t Time) Until {
	u.Time = t
	u.Parts = u.Parts.Set(UntilTime)
	return u
}

// untilYAML is the YAML form of Until. Omitted keys are omitted trailing fields.
type untilYAML struct {
	Year  *int        `yaml:"year"`
	Month *time.Month `yaml:"month"`
	Day   *Day        `yaml:"day"`
	Time  *Time       `yaml:"time"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
// A null or missing node leaves the UNTIL column undefined.
func (u *Until) UnmarshalYAML(value *yaml.Node) error {
	var raw untilYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*u = Until{}
	if raw.Year == nil {
		if raw.Month != nil || raw.Day != nil || raw.Time != nil {
			return fmt.Errorf("line %d: until: fields given without a year", value.Line)
		}
		return nil
	}
	*u = NewUntil(*raw.Year)
	if raw.Month == nil {
		if raw.Day != nil || raw.Time != nil {
			return fmt.Errorf("line %d: until: day or time given without a month", value.Line)
		}
		return nil
	}
	*u = u.WithMonth(*raw.Month)
	if raw.Day == nil {
		if raw.Time != nil {
			return fmt.Errorf("line %d: until: time given without a day", value.Line)
		}
		return nil
	}
	*u = u.WithDay(*raw.Day)
	if raw.Time != nil {
		*u = u.WithTime(*raw.Time)
	}
	return nil
}
