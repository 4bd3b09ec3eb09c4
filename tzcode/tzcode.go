// Package tzcode compresses calendar years and times of day into the one-octet codes
// used by the zone tables.
//
// Years are stored relative to an epoch year, with two reserved codes for the
// indefinite past and the indefinite future. Times of day, UT offsets and DST deltas
// are stored in units of a fixed granularity, 15 minutes by default. Seconds that
// do not fill a whole unit are dropped by truncating toward zero:
//
//	EncodeTime(-1s)   == 0
//	EncodeTime(-15m)  == -1
//	EncodeTime(29m)   == 1
//
// Truncation toward zero differs from floor division for negative values. Offsets
// west of UT depend on it.
package tzcode

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// MaxYearCode is the code of the configured MaxYear, the indefinite future.
	MaxYearCode int8 = math.MaxInt8
	// MinYearCode is the code of the configured MinYear, the indefinite past.
	MinYearCode int8 = math.MinInt8

	// Codes of all other years lie strictly between the sentinel codes.
	minYearOffset = int(MinYearCode) + 1
	maxYearOffset = int(MaxYearCode) - 1
)

const (
	// DefaultEpochYear is the year with code 0.
	DefaultEpochYear = 2000
	// DefaultMinYear is the sentinel year of the indefinite past.
	DefaultMinYear = 0
	// DefaultMaxYear is the sentinel year of the indefinite future.
	DefaultMaxYear = 9999
	// DefaultGranularity is the unit of time codes.
	DefaultGranularity = 15 * time.Minute
)

// ErrRangeOverflow is returned when a value does not fit its code.
var ErrRangeOverflow = errors.New("value out of range")

// Config is the configuration of year and time codes.
// It must be the same for every policy and zone of a database,
// otherwise codes of different tables cannot be compared.
type Config struct {
	// EpochYear is the year encoded as 0.
	EpochYear int `yaml:"epoch_year"`
	// MinYear is the sentinel year that means the indefinite past.
	MinYear int `yaml:"min_year"`
	// MaxYear is the sentinel year that means the indefinite future.
	MaxYear int `yaml:"max_year"`
	// Granularity is the unit of time codes.
	Granularity time.Duration `yaml:"granularity"`
}

// DefaultConfig returns the configuration used by the generated zone databases.
func DefaultConfig() Config {
	return Config{
		EpochYear:   DefaultEpochYear,
		MinYear:     DefaultMinYear,
		MaxYear:     DefaultMaxYear,
		Granularity: DefaultGranularity,
	}
}

// Validate returns all problems of the configuration joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.MinYear >= c.EpochYear {
		errs = append(errs, fmt.Errorf("min year (%d) must be before epoch year (%d)", c.MinYear, c.EpochYear))
	}
	if c.MaxYear <= c.EpochYear {
		errs = append(errs, fmt.Errorf("max year (%d) must be after epoch year (%d)", c.MaxYear, c.EpochYear))
	}
	switch {
	case c.Granularity <= 0:
		errs = append(errs, fmt.Errorf("granularity (%v) must be positive", c.Granularity))
	case c.Granularity%time.Second != 0:
		errs = append(errs, fmt.Errorf("granularity (%v) must be a whole number of seconds", c.Granularity))
	case time.Hour%c.Granularity != 0:
		errs = append(errs, fmt.Errorf("granularity (%v) must divide one hour", c.Granularity))
	}
	return errors.Join(errs...)
}

// Codec encodes and decodes years and times for one configuration.
// The zero value is not usable; create a Codec with New.
type Codec struct {
	cfg     Config
	quantum int64 // granularity in seconds
}

// New validates cfg and returns a Codec for it.
func New(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid codec config: %w", err)
	}
	return &Codec{cfg: cfg, quantum: int64(cfg.Granularity / time.Second)}, nil
}

// Config returns the configuration of the codec.
func (c *Codec) Config() Config {
	return c.cfg
}

// IsSentinelYear reports whether year is one of the sentinel years.
func (c *Codec) IsSentinelYear(year int) bool {
	return year == c.cfg.MinYear || year == c.cfg.MaxYear
}

// EncodeYear returns the code of a year.
// Years other than the sentinels must lie within 126 years after
// and 127 years before the epoch year.
func (c *Codec) EncodeYear(year int) (int8, error) {
	switch year {
	case c.cfg.MaxYear:
		return MaxYearCode, nil
	case c.cfg.MinYear:
		return MinYearCode, nil
	}
	offset := year - c.cfg.EpochYear
	if offset < minYearOffset || offset > maxYearOffset {
		return 0, fmt.Errorf("%w: year %d is not within [%d, %d]",
			ErrRangeOverflow, year, c.cfg.EpochYear+minYearOffset, c.cfg.EpochYear+maxYearOffset)
	}
	return int8(offset), nil
}

// DecodeYear returns the year of a code.
func (c *Codec) DecodeYear(code int8) int {
	switch code {
	case MaxYearCode:
		return c.cfg.MaxYear
	case MinYearCode:
		return c.cfg.MinYear
	}
	return c.cfg.EpochYear + int(code)
}

// EncodeTime returns the code of a time of day, UT offset or DST delta.
// Sub-second fractions and the remainder of the last unit are truncated toward zero.
func (c *Codec) EncodeTime(d time.Duration) (int8, error) {
	// Go's integer division truncates toward zero, which is the contract.
	code := int64(d/time.Second) / c.quantum
	if code < math.MinInt8 || code > math.MaxInt8 {
		return 0, fmt.Errorf("%w: %v is not within [%v, %v]",
			ErrRangeOverflow, d, c.DecodeTime(math.MinInt8), c.DecodeTime(math.MaxInt8))
	}
	return int8(code), nil
}

// DecodeTime returns the duration of a time code.
func (c *Codec) DecodeTime(code int8) time.Duration {
	return time.Duration(int64(code)*c.quantum) * time.Second
}

// Truncate returns d truncated toward zero to a whole number of units.
// Truncate(d) == DecodeTime(EncodeTime(d)) for every d that fits a code.
func (c *Codec) Truncate(d time.Duration) time.Duration {
	return time.Duration(int64(d/time.Second)/c.quantum*c.quantum) * time.Second
}

// Remainder returns the part of d lost by Truncate.
func (c *Codec) Remainder(d time.Duration) time.Duration {
	return d - c.Truncate(d)
}
