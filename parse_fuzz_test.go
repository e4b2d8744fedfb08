package formula_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1*2")
	f.Add("-a^-b**c")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := formula.Parse(strings.NewReader(s))
		if err != nil {
			return
		}
		// Formatting must round trip.
		r, err := formula.ParseString(e.String())
		if err != nil {
			t.Fatalf("%q formatted as %q which doesn't parse: %v", s, e.String(), err)
		}
		if r.String() != e.String() {
			t.Errorf("%q formatted as %q which formats as %q", s, e.String(), r.String())
		}
	})
}
