// Package tzmem projects the storage footprint of encoded zone tables on an
// 8-bit target (2-byte pointers) and a 32-bit target (4-byte pointers).
//
// The footprint is derived from record counts, fixed per-record sizes and the
// bytes of NUL-terminated strings. It is reporting only and never feeds back
// into the encoding.
package tzmem

import "fmt"

// Footprint is a number of bytes on each of the two target layouts.
type Footprint struct {
	Bits8  int `yaml:"bits8"`
	Bits32 int `yaml:"bits32"`
}

func (f Footprint) String() string {
	return fmt.Sprintf("%d bytes (8-bit), %d bytes (32-bit)", f.Bits8, f.Bits32)
}

// Add returns the sum of f and o.
func (f Footprint) Add(o Footprint) Footprint {
	return Footprint{Bits8: f.Bits8 + o.Bits8, Bits32: f.Bits32 + o.Bits32}
}

// Scale returns f multiplied by n.
func (f Footprint) Scale(n int) Footprint {
	return Footprint{Bits8: f.Bits8 * n, Bits32: f.Bits32 * n}
}

// Bytes returns a Footprint of n bytes on both layouts, which is the size of string data.
func Bytes(n int) Footprint {
	return Footprint{Bits8: n, Bits32: n}
}

// Sizes holds the size of each fixed-width record on both layouts.
type Sizes struct {
	// Rule is one transition rule.
	Rule Footprint `yaml:"rule"`
	// Policy is the header of a policy: rules pointer, rule count, letters pointer, letter count.
	Policy Footprint `yaml:"policy"`
	// LetterRef is one entry of a letter table, a pointer to the letter string.
	LetterRef Footprint `yaml:"letter_ref"`
	// Era is one zone era.
	Era Footprint `yaml:"era"`
	// Info is the header of a zone: name pointer, eras pointer, era count.
	Info Footprint `yaml:"info"`
}

var (
	// BasicSizes are the record sizes of the basic table layout.
	//
	//	rule:   fromYear, toYear, inMonth, onDayOfWeek, onDayOfMonth, atTime, atModifier, delta, letter
	//	policy: *rules, numRules, *letters, numLetters
	//	era:    offset, *policy, *format, untilYear, untilMonth, untilDay, untilTime, untilModifier
	//	info:   *name, *eras, numEras
	BasicSizes = Sizes{
		Rule:      Footprint{Bits8: 9, Bits32: 9},
		Policy:    Footprint{Bits8: 6, Bits32: 10},
		LetterRef: Footprint{Bits8: 2, Bits32: 4},
		Era:       Footprint{Bits8: 10, Bits32: 14},
		Info:      Footprint{Bits8: 5, Bits32: 9},
	}

	// ExtendedSizes are the record sizes of the extended table layout,
	// whose eras carry an inline DST delta.
	ExtendedSizes = Sizes{
		Rule:      Footprint{Bits8: 9, Bits32: 9},
		Policy:    Footprint{Bits8: 6, Bits32: 10},
		LetterRef: Footprint{Bits8: 2, Bits32: 4},
		Era:       Footprint{Bits8: 11, Bits32: 15},
		Info:      Footprint{Bits8: 5, Bits32: 9},
	}
)

// Counts are the quantities a footprint is computed from.
type Counts struct {
	Policies    int
	Rules       int
	Letters     int // letter table entries
	Zones       int
	Eras        int
	StringBytes int // NUL-terminated string data
}

// Add returns the sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Policies:    c.Policies + o.Policies,
		Rules:       c.Rules + o.Rules,
		Letters:     c.Letters + o.Letters,
		Zones:       c.Zones + o.Zones,
		Eras:        c.Eras + o.Eras,
		StringBytes: c.StringBytes + o.StringBytes,
	}
}

// Compute returns the footprint of the records in c.
// Compute is linear: Compute(a.Add(b)) == Compute(a).Add(Compute(b)).
func (s Sizes) Compute(c Counts) Footprint {
	return s.Policy.Scale(c.Policies).
		Add(s.Rule.Scale(c.Rules)).
		Add(s.LetterRef.Scale(c.Letters)).
		Add(s.Info.Scale(c.Zones)).
		Add(s.Era.Scale(c.Eras)).
		Add(Bytes(c.StringBytes))
}

// Validate checks that every record size is positive and that no
// record is smaller on the 32-bit layout than on the 8-bit layout.
func (s Sizes) Validate() error {
	for _, r := range []struct {
		name string
		f    Footprint
	}{
		{"rule", s.Rule},
		{"policy", s.Policy},
		{"letter_ref", s.LetterRef},
		{"era", s.Era},
		{"info", s.Info},
	} {
		if r.f.Bits8 <= 0 || r.f.Bits32 <= 0 {
			return fmt.Errorf("%s size must be positive, got %v", r.name, r.f)
		}
		if r.f.Bits32 < r.f.Bits8 {
			return fmt.Errorf("%s size on 32-bit (%d) is smaller than on 8-bit (%d)", r.name, r.f.Bits32, r.f.Bits8)
		}
	}
	return nil
}
