package formula_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("sqrt(x^2 + 1) / x")
	f.Add("ln(x - 1) ** -x")
	f.Fuzz(func(t *testing.T, s string) {
		vars := formula.Vars{
			"x": formula.Scalar(0),
			"v": formula.Vector(-1, 0, 1),
		}
		_, err := formula.EvalString(s, vars)
		if err == nil {
			return
		}
		var se *formula.SyntaxError
		var ee formula.EvalError
		if !errors.As(err, &se) && !errors.As(err, &ee) {
			t.Errorf("%q gave error %#v that is neither SyntaxError nor EvalError", s, err)
		}
	})
}
