package formula

import (
	"errors"
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals. The evaluator applies it to each
// element of its argument.
type Func interface {
	// Call evaluates the function at x. prec is the precision in bits that
	// functions computing with big.Float should use. If x is outside the
	// function's domain, Call should return an error, preferably a
	// *DomainError; the evaluator fills in the argument and function name.
	// A result that is infinite or NaN when x is finite is also treated as
	// a domain error.
	Call(x float64, prec uint) (float64, error)
}

var globalfuncs = map[string]Func{
	"exp": Monadic(func(out, in *big.Float) *big.Float {
		// Keep bigfloat away from arguments whose results are far outside
		// float64 range.
		switch f, _ := in.Float64(); {
		case f > 710:
			return out.SetInf(false)
		case f < -746:
			return out.SetFloat64(0)
		}
		return bigfloat.Exp(out, in)
	}),
	"ln": Monadic(func(out, in *big.Float) *big.Float {
		positive(in, "logarithm")
		return bigfloat.Log(out, in)
	}),
	"log10": Monadic(func(out, in *big.Float) *big.Float {
		positive(in, "logarithm")
		bigfloat.Log(out, in)
		in.SetPrec(out.Prec()).SetFloat64(10)
		bigfloat.Log(in, in)
		return out.Quo(out, in)
	}),
	"sqrt": Monadic((*big.Float).Sqrt),

	// not in bigfloat
	"abs": Real(math.Abs),
	"sin": Real(math.Sin),
	"cos": Real(math.Cos),
	"tan": Real(math.Tan),
}

// DefaultFuncs returns a copy of the functions every evaluator has unless
// options remove them.
func DefaultFuncs() map[string]Func {
	m := make(map[string]Func, len(globalfuncs))
	for k, v := range globalfuncs {
		m[k] = v
	}
	return m
}

// positive panics with a DomainError if x is not positive.
func positive(x *big.Float, what string) {
	if x.Sign() <= 0 {
		panic(&DomainError{Reason: what + " of non-positive number"})
	}
}

type monadic struct {
	f func(out, in *big.Float) *big.Float
}

func (m monadic) Call(x float64, prec uint) (r float64, err error) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, &DomainError{X: x, Reason: "argument is not finite"}
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		err = p.(error) // panic if not error
		if errors.As(err, new(*DomainError)) || errors.As(err, new(big.ErrNaN)) {
			return
		}
		panic(err)
	}()
	in := new(big.Float).SetPrec(prec).SetFloat64(x)
	out := new(big.Float).SetPrec(prec)
	m.f(out, in)
	r, _ = out.Float64()
	return r, nil
}

// Monadic wraps a function of one big.Float into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. f may
// modify in. If f is called on an argument outside f's domain, it should panic
// with an error of type big.ErrNaN or *DomainError, or that unwraps to one.
// The wrapped function is never called with infinite arguments, which are
// outside its domain.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return monadic{f}
}

type realfn struct {
	f func(float64) float64
}

func (r realfn) Call(x float64, prec uint) (float64, error) {
	return r.f(x), nil
}

// Real wraps a float64 function, like those in package math, into a Func.
func Real(f func(float64) float64) Func {
	return realfn{f}
}
