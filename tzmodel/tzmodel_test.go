package tzmodel

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDecode_Example(t *testing.T) {
	var input = strings.TrimSpace(`
version: 2018i
policies:
  EU:
    - {from: 1981, to: 9999, in: 3, on: {form: last, weekday: 0}, at: {time: 1h, form: utc}, save: 1h, letter: S, raw: "Rule EU 1981 max - Mar lastSun 1:00u 1:00 S"}
    - {from: 1996, to: 9999, in: 10, on: {form: last, weekday: 0}, at: {time: 1h, form: u}, save: 0s, letter: "-"}
zones:
  Europe/Zurich:
    - {offset: 34m8s, rules: {form: standard}, format: LMT, until: {year: 1853, month: 7, day: {num: 16}}}
    - {offset: 1h, rules: {form: name, name: EU}, format: CE%sT}
  Etc/Fixed:
    - {offset: 1h, rules: {form: delta, delta: 30m}, format: FST, until: {year: 1981, month: 3, day: {form: after, num: 8, weekday: 0}, time: {time: 2h, form: s}}}
removed_zones:
  Asia/Hebron: "unsupported"
`)

	got, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	want := &Database{
		Version: "2018i",
		Policies: map[string][]Rule{
			"EU": {
				{From: 1981, To: 9999, In: time.March, On: NewDayLast(time.Sunday), At: Time{1 * time.Hour, UniversalTime}, Save: 1 * time.Hour, Letter: "S", Raw: "Rule EU 1981 max - Mar lastSun 1:00u 1:00 S"},
				{From: 1996, To: 9999, In: time.October, On: NewDayLast(time.Sunday), At: Time{1 * time.Hour, UniversalTime}, Save: 0, Letter: "-"},
			},
		},
		Zones: map[string][]Era{
			"Europe/Zurich": {
				{Offset: 34*time.Minute + 8*time.Second, Rules: RulesRef{Form: RulesStandard}, Format: "LMT", Until: NewUntil(1853).WithMonth(time.July).WithDay(NewDayNum(16))},
				{Offset: 1 * time.Hour, Rules: RulesRef{Form: RulesName, Name: "EU"}, Format: "CE%sT"},
			},
			"Etc/Fixed": {
				{Offset: 1 * time.Hour, Rules: RulesRef{Form: RulesDelta, Delta: 30 * time.Minute}, Format: "FST", Until: Until{
					Defined: true,
					Parts:   UntilTime,
					Year:    1981,
					Month:   time.March,
					Day:     NewDayAfter(8, time.Sunday),
					Time:    Time{2 * time.Hour, StandardTime},
				}},
			},
		},
		RemovedZones: map[string]string{"Asia/Hebron": "unsupported"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("zones:\n  A/B:\n    - {offset: 1h, colour: red}\n"))
	if err == nil {
		t.Fatal("Decode() succeeded, want error for unknown field")
	}
}

func TestDecode_UntilGap(t *testing.T) {
	_, err := Decode(strings.NewReader("zones:\n  A/B:\n    - {offset: 1h, format: X, until: {year: 1990, day: {num: 3}}}\n"))
	if err == nil {
		t.Fatal("Decode() succeeded, want error for day without month")
	}
}

func TestDecode_Empty(t *testing.T) {
	got, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Database{}, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestUntilPartsMask(t *testing.T) {
	cases := []struct {
		mask  UntilPartsMask
		parts UntilPartsMask
		want  bool
	}{
		{UntilYear, UntilYear, true},
		{UntilYear, UntilMonth, false},
		{UntilMonth, UntilYear, true},
		{UntilDay, UntilMonth, true},
		{UntilDay, UntilTime, false},
		{UntilTime, UntilDay, true},
		{UntilUndefined, UntilYear, false},
	}
	for _, c := range cases {
		if got := c.mask.Has(c.parts); got != c.want {
			t.Errorf("%04b.Has(%04b) = %v, want %v", c.mask, c.parts, got, c.want)
		}
	}
}

func TestNames(t *testing.T) {
	cases := []struct {
		name   string
		short  string
		symbol string
	}{
		{"America/Argentina/Buenos_Aires", "Buenos_Aires", "America/Argentina/Buenos_Aires"},
		{"America/Port-au-Prince", "Port-au-Prince", "America/Port_au_Prince"},
		{"UTC", "UTC", "UTC"},
	}
	for _, c := range cases {
		if got := ShortName(c.name); got != c.short {
			t.Errorf("ShortName(%q) = %q, want %q", c.name, got, c.short)
		}
		if got := SymbolName(c.name); got != c.symbol {
			t.Errorf("SymbolName(%q) = %q, want %q", c.name, got, c.symbol)
		}
	}
}

func TestTimeForm_Text(t *testing.T) {
	for _, f := range []TimeForm{WallClock, StandardTime, UniversalTime} {
		text, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got TimeForm
		if err := got.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if got != f {
			t.Errorf("UnmarshalText(%q) = %v, want %v", text, got, f)
		}
	}
	var f TimeForm
	if err := f.UnmarshalText([]byte("x")); err == nil {
		t.Error("UnmarshalText(\"x\") succeeded, want error")
	}
}
