package tzenc

import (
	"fmt"
	"time"

	"github.com/ngrash/go-zonedb/tzcode"
	"github.com/ngrash/go-zonedb/tzintern"
	"github.com/ngrash/go-zonedb/tzmem"
	"github.com/ngrash/go-zonedb/tzmodel"
)

// EncodedLetter is the LETTER column of an encoded rule.
// Single-character letters are stored as the character itself, longer
// letters as an index into a string table.
type EncodedLetter struct {
	Char  byte   // The literal character, 0 if Index is used.
	Index int    // Index into the letter table, -1 if Char is used.
	Text  string // The original letter, kept as an annotation.
}

// IsIndex reports whether the letter is stored as a table index.
func (l EncodedLetter) IsIndex() bool {
	return l.Index >= 0
}

func (l EncodedLetter) String() string {
	if l.IsIndex() {
		return fmt.Sprintf("%d /*%s*/", l.Index, l.Text)
	}
	return fmt.Sprintf("'%c'", l.Char)
}

// EncodedRule is one rule record.
type EncodedRule struct {
	FromYearCode   int8
	ToYearCode     int8
	InMonth        uint8
	OnDayOfWeek    uint8 // 0 for a fixed day, ISO weekday 1 (Monday) to 7 (Sunday) otherwise.
	OnDayOfMonth   int8  // Positive for on-or-after, negative for on-or-before, 0 for the last weekday.
	AtTimeCode     int8
	AtTimeModifier byte // 'w', 's' or 'u'.
	DeltaCode      int8
	Letter         EncodedLetter
	Raw            string
}

// EncodedPolicy is the encoded form of a policy.
type EncodedPolicy struct {
	Name  string
	Rules []EncodedRule
	// Letters is the letter table of the policy in index order. It is nil if the
	// policy has no multi-character letter and always nil in Extended mode.
	Letters   []string
	Footprint tzmem.Footprint
}

// Counts returns the record counts of the policy.
func (p *EncodedPolicy) Counts() tzmem.Counts {
	c := tzmem.Counts{Policies: 1, Rules: len(p.Rules), Letters: len(p.Letters)}
	for _, l := range p.Letters {
		c.StringBytes += len(l) + 1
	}
	return c
}

func newLetterTable() *tzintern.Table {
	return tzintern.New(tzintern.WithCapacity(MaxPolicyLetters), tzintern.WithMinLength(2))
}

func (e *Encoder) collectPolicy(name string, rules []tzmodel.Rule) error {
	var letters *tzintern.Table
	for i, r := range rules {
		if r.Letter == "" {
			return ruleError(name, i, "letter", fmt.Errorf("%w: empty string", ErrInvalidLetter))
		}
		if e.mode == Extended {
			if _, err := e.global.Intern(r.Letter); err != nil {
				return ruleError(name, i, "letter", err)
			}
			continue
		}
		if len(r.Letter) < 2 {
			continue
		}
		if letters == nil {
			letters = newLetterTable()
		}
		if _, err := letters.Intern(r.Letter); err != nil {
			return ruleError(name, i, "letter", err)
		}
	}
	if letters != nil {
		e.letters[name] = letters
	}
	return nil
}

// letterTable returns the table holding the multi-character letters of a policy, or nil.
func (e *Encoder) letterTable(policy string) *tzintern.Table {
	if e.mode == Extended {
		return e.global
	}
	return e.letters[policy]
}

func (e *Encoder) encodePolicy(name string, rules []tzmodel.Rule) (EncodedPolicy, error) {
	table := e.letterTable(name)
	p := EncodedPolicy{Name: name, Rules: make([]EncodedRule, 0, len(rules))}
	for i, r := range rules {
		er, err := e.encodeRule(name, i, r, table)
		if err != nil {
			return EncodedPolicy{}, err
		}
		p.Rules = append(p.Rules, er)
	}
	if e.mode == Basic && table != nil {
		p.Letters = table.Strings()
	}
	p.Footprint = e.sizes.Compute(p.Counts())
	return p, nil
}

func (e *Encoder) encodeRule(policy string, i int, r tzmodel.Rule, letters *tzintern.Table) (EncodedRule, error) {
	fail := func(field string, err error) (EncodedRule, error) {
		return EncodedRule{}, ruleError(policy, i, field, err)
	}

	var (
		er  = EncodedRule{Raw: r.Raw, AtTimeModifier: r.At.Form.Suffix()}
		err error
	)
	if er.FromYearCode, err = e.codec.EncodeYear(r.From); err != nil {
		return fail("from", err)
	}
	if er.ToYearCode, err = e.codec.EncodeYear(r.To); err != nil {
		return fail("to", err)
	}
	if er.InMonth, err = monthCode(r.In); err != nil {
		return fail("in", err)
	}
	if er.OnDayOfWeek, er.OnDayOfMonth, err = dayCodes(r.On); err != nil {
		return fail("on", err)
	}
	if er.AtTimeCode, err = e.codec.EncodeTime(r.At.Duration); err != nil {
		return fail("at", err)
	}
	if er.DeltaCode, err = e.codec.EncodeTime(r.Save); err != nil {
		return fail("save", err)
	}
	if er.Letter, err = encodeLetter(r.Letter, letters); err != nil {
		return fail("letter", err)
	}
	return er, nil
}

func encodeLetter(s string, table *tzintern.Table) (EncodedLetter, error) {
	switch len(s) {
	case 0:
		return EncodedLetter{}, fmt.Errorf("%w: empty string", ErrInvalidLetter)
	case 1:
		return EncodedLetter{Char: s[0], Index: -1, Text: s}, nil
	}
	if table == nil {
		return EncodedLetter{}, fmt.Errorf("%w: %q, policy has no letter table", tzintern.ErrLookupMiss, s)
	}
	i, err := table.Index(s)
	if err != nil {
		return EncodedLetter{}, err
	}
	return EncodedLetter{Index: i, Text: s}, nil
}

func monthCode(m time.Month) (uint8, error) {
	if m < time.January || m > time.December {
		return 0, fmt.Errorf("%w: month %d", tzcode.ErrRangeOverflow, int(m))
	}
	return uint8(m), nil
}

// isoWeekday returns the ISO 8601 number of a weekday, Monday is 1 and Sunday is 7.
func isoWeekday(wd time.Weekday) uint8 {
	if wd == time.Sunday {
		return 7
	}
	return uint8(wd)
}

// dayCodes returns the day of week and day of month codes of an ON column.
//
//	5       (0, 5)
//	lastSun (7, 0)
//	Sun>=8  (7, 8)
//	Sun<=25 (7, -25)
func dayCodes(d tzmodel.Day) (uint8, int8, error) {
	if d.Form != tzmodel.DayFormLast && (d.Num < 1 || d.Num > 31) {
		return 0, 0, fmt.Errorf("%w: day %d", tzcode.ErrRangeOverflow, d.Num)
	}
	if d.Form != tzmodel.DayFormNum && (d.Day < time.Sunday || d.Day > time.Saturday) {
		return 0, 0, fmt.Errorf("%w: weekday %d", tzcode.ErrRangeOverflow, int(d.Day))
	}
	switch d.Form {
	case tzmodel.DayFormNum:
		return 0, int8(d.Num), nil
	case tzmodel.DayFormLast:
		return isoWeekday(d.Day), 0, nil
	case tzmodel.DayFormAfter:
		return isoWeekday(d.Day), int8(d.Num), nil
	case tzmodel.DayFormBefore:
		return isoWeekday(d.Day), -int8(d.Num), nil
	}
	return 0, 0, fmt.Errorf("invalid day form: %v", d.Form)
}
