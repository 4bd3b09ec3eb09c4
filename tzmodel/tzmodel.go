// Package tzmodel holds the already-parsed records of the IANA time zone database
// that the encoders of this module consume.
//
// The records mirror the columns of the tzdata source files: a Rule is one rule line
// of a named rule set (a policy), an Era is one zone or continuation line. Parsing the
// source files is not part of this package; the upstream parser hands its result over
// as a Database, either in memory or through the YAML form read by Decode.
package tzmodel

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// TimeForm represents the form of a time of day in an AT or UNTIL column.
type TimeForm int

const (
	// WallClock means the time is local wall clock time. It is the default.
	WallClock TimeForm = iota
	// StandardTime means the time is local standard time.
	StandardTime
	// UniversalTime means the time is UT.
	UniversalTime
)

func (f TimeForm) String() string {
	switch f {
	case WallClock:
		return "WallClock"
	case StandardTime:
		return "StandardTime"
	case UniversalTime:
		return "UniversalTime"
	default:
		return "<UNDEFINED>"
	}
}

// Suffix returns the single-character suffix used for the form in tzdata files.
func (f TimeForm) Suffix() byte {
	switch f {
	case StandardTime:
		return 's'
	case UniversalTime:
		return 'u'
	default:
		return 'w'
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f TimeForm) MarshalText() ([]byte, error) {
	switch f {
	case WallClock:
		return []byte("wall"), nil
	case StandardTime:
		return []byte("standard"), nil
	case UniversalTime:
		return []byte("utc"), nil
	default:
		return nil, fmt.Errorf("invalid time form: %d", int(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It accepts the long names as well as the tzdata suffixes.
func (f *TimeForm) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "wall", "w":
		*f = WallClock
	case "standard", "s":
		*f = StandardTime
	case "utc", "u", "g", "z":
		*f = UniversalTime
	default:
		return fmt.Errorf("invalid time form: %q", text)
	}
	return nil
}

// Time represents a time instance by the duration since 00:00, the start of a calendar day.
type Time struct {
	time.Duration `yaml:"time"`
	Form          TimeForm `yaml:"form"`
}

// NewWallClock returns a wall clock Time.
func NewWallClock(d time.Duration) Time {
	return Time{Duration: d, Form: WallClock}
}

// DayForm represents the form of a day in an ON or UNTIL column.
type DayForm int

const (
	// DayFormNum is a fixed day of the month, e.g. "5".
	DayFormNum DayForm = iota
	// DayFormLast is the last given weekday of the month, e.g. "lastSun".
	DayFormLast
	// DayFormAfter is the first given weekday on or after a day, e.g. "Sun>=8".
	DayFormAfter
	// DayFormBefore is the last given weekday on or before a day, e.g. "Sun<=25".
	DayFormBefore
)

func (f DayForm) String() string {
	switch f {
	case DayFormNum:
		return "Num"
	case DayFormLast:
		return "Last"
	case DayFormAfter:
		return "After"
	case DayFormBefore:
		return "Before"
	default:
		return "<UNDEFINED>"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f DayForm) MarshalText() ([]byte, error) {
	switch f {
	case DayFormNum:
		return []byte("num"), nil
	case DayFormLast:
		return []byte("last"), nil
	case DayFormAfter:
		return []byte("after"), nil
	case DayFormBefore:
		return []byte("before"), nil
	default:
		return nil, fmt.Errorf("invalid day form: %d", int(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *DayForm) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "num":
		*f = DayFormNum
	case "last":
		*f = DayFormLast
	case "after", ">=":
		*f = DayFormAfter
	case "before", "<=":
		*f = DayFormBefore
	default:
		return fmt.Errorf("invalid day form: %q", text)
	}
	return nil
}

// Day represents a day in an ON or UNTIL column.
// Num is unused for DayFormLast and Day is unused for DayFormNum.
type Day struct {
	Form DayForm      `yaml:"form"`
	Num  int          `yaml:"num"`
	Day  time.Weekday `yaml:"weekday"`
}

// NewDayNum returns a Day on a fixed day of the month.
func NewDayNum(num int) Day {
	return Day{Form: DayFormNum, Num: num}
}

// NewDayLast returns a Day on the last weekday of the month.
func NewDayLast(wd time.Weekday) Day {
	return Day{Form: DayFormLast, Day: wd}
}

// NewDayAfter returns a Day on the first weekday on or after num.
func NewDayAfter(num int, wd time.Weekday) Day {
	return Day{Form: DayFormAfter, Num: num, Day: wd}
}

// NewDayBefore returns a Day on the last weekday on or before num.
func NewDayBefore(num int, wd time.Weekday) Day {
	return Day{Form: DayFormBefore, Num: num, Day: wd}
}

// Rule represents a rule line of a policy.
type Rule struct {
	From   int           `yaml:"from"`   // The FROM field of the rule line.
	To     int           `yaml:"to"`     // The TO field of the rule line.
	In     time.Month    `yaml:"in"`     // The IN field of the rule line.
	On     Day           `yaml:"on"`     // The ON field of the rule line.
	At     Time          `yaml:"at"`     // The AT field of the rule line.
	Save   time.Duration `yaml:"save"`   // The SAVE field of the rule line.
	Letter string        `yaml:"letter"` // The LETTER/S field of the rule line.
	Raw    string        `yaml:"raw"`    // The source line, kept as an annotation.
}

// RulesForm represents the form of the RULES column of a zone line.
type RulesForm int

const (
	// RulesStandard means standard time always applies because the RULES column is "-".
	RulesStandard RulesForm = iota
	// RulesName means the RULES column references a policy by name.
	RulesName
	// RulesDelta means the RULES column contains a fixed amount of time added to standard time.
	RulesDelta
)

func (f RulesForm) String() string {
	switch f {
	case RulesStandard:
		return "Standard"
	case RulesName:
		return "Name"
	case RulesDelta:
		return "Delta"
	default:
		return "<UNDEFINED>"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f RulesForm) MarshalText() ([]byte, error) {
	switch f {
	case RulesStandard:
		return []byte("standard"), nil
	case RulesName:
		return []byte("name"), nil
	case RulesDelta:
		return []byte("delta"), nil
	default:
		return nil, fmt.Errorf("invalid rules form: %d", int(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *RulesForm) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "standard", "-":
		*f = RulesStandard
	case "name":
		*f = RulesName
	case "delta":
		*f = RulesDelta
	default:
		return fmt.Errorf("invalid rules form: %q", text)
	}
	return nil
}

// RulesRef represents the RULES column of a zone line.
type RulesRef struct {
	// Form is the form of the RULES column.
	Form RulesForm `yaml:"form"`
	// Name contains the policy name if Form is RulesName.
	Name string `yaml:"name"`
	// Delta contains the fixed delta if Form is RulesDelta.
	Delta time.Duration `yaml:"delta"`
}

// Era represents a zone line or a continuation line.
type Era struct {
	Offset time.Duration `yaml:"offset"` // The STDOFF field of the zone line.
	Rules  RulesRef      `yaml:"rules"`  // The RULES field of the zone line.
	Format string        `yaml:"format"` // The FORMAT field of the zone line.
	Until  Until         `yaml:"until"`  // The UNTIL field of the zone line.
	Raw    string        `yaml:"raw"`    // The source line, kept as an annotation.
}

// Database is the parsed time zone database handed over by the upstream parser.
// Policies and zones are keyed by name. The removed and notable maps carry a
// human-readable reason per name and are passed through verbatim.
type Database struct {
	Version         string            `yaml:"version"`
	Policies        map[string][]Rule `yaml:"policies"`
	Zones           map[string][]Era  `yaml:"zones"`
	RemovedPolicies map[string]string `yaml:"removed_policies"`
	RemovedZones    map[string]string `yaml:"removed_zones"`
	NotablePolicies map[string]string `yaml:"notable_policies"`
	NotableZones    map[string]string `yaml:"notable_zones"`
}

// PolicyNames returns the names of all policies in sorted order.
func (db *Database) PolicyNames() []string {
	return sortedKeys(db.Policies)
}

// ZoneNames returns the names of all zones in sorted order.
func (db *Database) ZoneNames() []string {
	return sortedKeys(db.Zones)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ShortName returns the last path segment of a zone name,
// e.g. "Buenos_Aires" for "America/Argentina/Buenos_Aires".
func ShortName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// SymbolName replaces characters of a zone or policy name that are not valid in
// identifiers of the generated sources. "America/Port-au-Prince" becomes "America/Port_au_Prince".
func SymbolName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
