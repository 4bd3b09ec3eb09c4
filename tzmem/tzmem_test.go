package tzmem

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name  string
		sizes Sizes
		in    Counts
		want  Footprint
	}{
		{"empty", BasicSizes, Counts{}, Footprint{}},
		{"one policy", BasicSizes, Counts{Policies: 1, Rules: 2}, Footprint{Bits8: 6 + 2*9, Bits32: 10 + 2*9}},
		{"letters", BasicSizes, Counts{Policies: 1, Rules: 1, Letters: 2, StringBytes: 6}, Footprint{Bits8: 6 + 9 + 2*2 + 6, Bits32: 10 + 9 + 2*4 + 6}},
		{"one zone", BasicSizes, Counts{Zones: 1, Eras: 3, StringBytes: 20}, Footprint{Bits8: 5 + 3*10 + 20, Bits32: 9 + 3*14 + 20}},
		{"extended era", ExtendedSizes, Counts{Zones: 1, Eras: 1}, Footprint{Bits8: 5 + 11, Bits32: 9 + 15}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if diff := cmp.Diff(c.want, c.sizes.Compute(c.in)); diff != "" {
				t.Errorf("Compute(%+v) mismatch (-want +got):\n%s", c.in, diff)
			}
		})
	}
}

func TestCompute_Additive(t *testing.T) {
	a := Counts{Zones: 1, Eras: 4, StringBytes: 31}
	b := Counts{Policies: 2, Rules: 7, Letters: 1, Zones: 1, Eras: 1, StringBytes: 9}
	for _, sizes := range []Sizes{BasicSizes, ExtendedSizes} {
		sum := sizes.Compute(a).Add(sizes.Compute(b))
		together := sizes.Compute(a.Add(b))
		if diff := cmp.Diff(together, sum); diff != "" {
			t.Errorf("Compute() is not additive (-together +sum):\n%s", diff)
		}
	}
}

func TestSizes_Validate(t *testing.T) {
	if err := BasicSizes.Validate(); err != nil {
		t.Errorf("BasicSizes.Validate() = %v", err)
	}
	if err := ExtendedSizes.Validate(); err != nil {
		t.Errorf("ExtendedSizes.Validate() = %v", err)
	}
	bad := BasicSizes
	bad.Era = Footprint{Bits8: 10, Bits32: 8}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() = nil for a 32-bit era smaller than the 8-bit era")
	}
	bad = BasicSizes
	bad.Info = Footprint{}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() = nil for a zero info size")
	}
}
