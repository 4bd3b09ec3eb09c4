package tzenc

import (
	"fmt"
	"strings"
	"time"

	"github.com/ngrash/go-zonedb/internal/datemath"
	"github.com/ngrash/go-zonedb/tzcode"
	"github.com/ngrash/go-zonedb/tzmem"
	"github.com/ngrash/go-zonedb/tzmodel"
)

// EncodedEra is one era record.
type EncodedEra struct {
	OffsetCode int8
	// PolicyName is the referenced policy, empty if the era has none.
	PolicyName string
	// DeltaCode is the fixed DST delta of the era, 0 if it has none or references a policy.
	DeltaCode int8
	// Format is the FORMAT column with "%s" replaced by "%".
	Format string
	// FormatIndex is the index of Format in the global string table, -1 in Basic mode.
	FormatIndex       int
	UntilYearCode     int8
	UntilMonth        uint8
	UntilDay          uint8
	UntilTimeCode     int8
	UntilTimeModifier byte // 'w', 's' or 'u'.
	Raw               string
}

// EncodedZone is the encoded form of a zone.
type EncodedZone struct {
	Name       string
	ShortName  string
	SymbolName string
	Eras       []EncodedEra
	// StringBytes is the size of the zone name and the era formats including NUL
	// terminators, without deduplication.
	StringBytes int
	Footprint   tzmem.Footprint
}

// Counts returns the record counts of the zone.
func (z *EncodedZone) Counts() tzmem.Counts {
	return tzmem.Counts{Zones: 1, Eras: len(z.Eras), StringBytes: z.StringBytes}
}

// NormalizeFormat replaces the "%s" letter placeholder of a FORMAT column with
// the single "%" the tables use.
func NormalizeFormat(format string) string {
	return strings.ReplaceAll(format, "%s", "%")
}

func (e *Encoder) collectZone(name string, eras []tzmodel.Era) error {
	if e.mode != Extended {
		return nil
	}
	for i, era := range eras {
		if _, err := e.global.Intern(NormalizeFormat(era.Format)); err != nil {
			return eraError(name, i, "format", err)
		}
	}
	return nil
}

func (e *Encoder) encodeZone(name string, eras []tzmodel.Era, policies map[string][]tzmodel.Rule) (EncodedZone, error) {
	z := EncodedZone{
		Name:        name,
		ShortName:   tzmodel.ShortName(name),
		SymbolName:  tzmodel.SymbolName(name),
		Eras:        make([]EncodedEra, 0, len(eras)),
		StringBytes: len(name) + 1,
	}
	for i, era := range eras {
		ee, err := e.encodeEra(name, i, era, policies)
		if err != nil {
			return EncodedZone{}, err
		}
		z.StringBytes += len(ee.Format) + 1
		z.Eras = append(z.Eras, ee)
	}
	z.Footprint = e.sizes.Compute(z.Counts())
	return z, nil
}

func (e *Encoder) encodeEra(zone string, i int, era tzmodel.Era, policies map[string][]tzmodel.Rule) (EncodedEra, error) {
	fail := func(field string, err error) (EncodedEra, error) {
		return EncodedEra{}, eraError(zone, i, field, err)
	}

	var (
		ee  = EncodedEra{Format: NormalizeFormat(era.Format), FormatIndex: -1, Raw: era.Raw}
		err error
	)
	if ee.OffsetCode, err = e.codec.EncodeTime(era.Offset); err != nil {
		return fail("offset", err)
	}

	switch era.Rules.Form {
	case tzmodel.RulesStandard:
	case tzmodel.RulesDelta:
		if ee.DeltaCode, err = e.codec.EncodeTime(era.Rules.Delta); err != nil {
			return fail("rules", err)
		}
	case tzmodel.RulesName:
		if _, ok := policies[era.Rules.Name]; !ok {
			return fail("rules", fmt.Errorf("%w: %q", ErrUnknownPolicy, era.Rules.Name))
		}
		ee.PolicyName = era.Rules.Name
	default:
		return fail("rules", fmt.Errorf("invalid rules form: %v", era.Rules.Form))
	}

	if e.mode == Extended {
		if ee.FormatIndex, err = e.global.Index(ee.Format); err != nil {
			return fail("format", err)
		}
	}

	if err := e.encodeUntil(&ee, era.Until); err != nil {
		return fail("until", err)
	}
	return ee, nil
}

// encodeUntil sets the until fields of ee. Omitted trailing fields default to
// the start of the period, an undefined UNTIL column to the indefinite future.
func (e *Encoder) encodeUntil(ee *EncodedEra, u tzmodel.Until) error {
	var (
		year  = e.codec.Config().MaxYear
		month = time.January
		day   = 1
		at    = tzmodel.NewWallClock(0)
	)
	if u.Defined {
		year = u.Year
		if u.Parts.Has(tzmodel.UntilMonth) {
			month = u.Month
		}
		if _, err := monthCode(month); err != nil {
			return err
		}
		if u.Parts.Has(tzmodel.UntilDay) {
			// "lastSun" and "Sun>=8" become a day of month, possibly in the next month.
			var err error
			if year, month, day, err = datemath.Resolve(year, month, u.Day); err != nil {
				return err
			}
		}
		if u.Parts.Has(tzmodel.UntilTime) {
			at = u.Time
		}
	}

	if day < 1 || day > 31 {
		return fmt.Errorf("%w: day %d", tzcode.ErrRangeOverflow, day)
	}
	yc, err := e.codec.EncodeYear(year)
	if err != nil {
		return err
	}
	tc, err := e.codec.EncodeTime(at.Duration)
	if err != nil {
		return err
	}
	ee.UntilYearCode = yc
	ee.UntilMonth = uint8(month)
	ee.UntilDay = uint8(day)
	ee.UntilTimeCode = tc
	ee.UntilTimeModifier = at.Form.Suffix()
	return nil
}
