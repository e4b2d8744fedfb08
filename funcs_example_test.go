package formula_test

import (
	"fmt"
	"math"
	"math/big"

	"github.com/zephyrtronium/formula"
)

func ExampleReal() {
	ev := formula.NewEvaluator(formula.WithFunc("floor", formula.Real(math.Floor)))
	e, _ := formula.ParseString("floor(x) + 1")
	r, _ := ev.Eval(e, formula.Vars{"x": formula.Vector(0.5, 1.5, 2.5)})
	fmt.Println(r, e)

	// Output:
	// [1 2 3] ((floor(x)) + (1))
}

func ExampleMonadic() {
	cube := formula.Monadic(func(out, in *big.Float) *big.Float {
		out.Mul(in, in)
		return out.Mul(out, in)
	})
	ev := formula.NewEvaluator(formula.WithFunc("cube", cube), formula.Prec(128))
	r, err := ev.EvalString("cube(-3) / 9", nil)
	fmt.Println(r, err)

	// Output:
	// -3 <nil>
}
