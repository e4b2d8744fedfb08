package formula

import (
	"errors"
	"math"
)

// Vars binds variable names to values for evaluation.
type Vars map[string]Value

// Evaluator evaluates expressions with a fixed set of functions. An Evaluator
// is never modified after NewEvaluator returns, so it is safe to use
// concurrently.
type Evaluator struct {
	funcs   map[string]Func
	backend Backend
	prec    uint
}

// EvalOption is an option used when creating an evaluator.
type EvalOption interface {
	evalOption()
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt   map[string]Func
	precopt    uint
	backendopt struct{ b Backend }
)

func (funcopt) evalOption()    {}
func (funcsopt) evalOption()   {}
func (precopt) evalOption()    {}
func (backendopt) evalOption() {}

// WithFunc adds a function to the evaluator, replacing any default function
// with the same name. To remove a function, pass nil for fn.
func WithFunc(name string, fn Func) EvalOption {
	return funcopt{name, fn}
}

// WithFuncs adds a group of functions to the evaluator. To remove any
// function, set it to nil.
func WithFuncs(fns map[string]Func) EvalOption {
	return funcsopt(fns)
}

// DisableDefaultFuncs removes all default functions. Functions added by
// options after it are kept.
func DisableDefaultFuncs() EvalOption {
	m := make(funcsopt, len(globalfuncs))
	for k := range globalfuncs {
		m[k] = nil
	}
	return m
}

// Prec sets the precision in bits that functions computing with big.Float
// use. The default is 64.
func Prec(prec uint) EvalOption {
	return precopt(prec)
}

// WithBackend sets how operations apply to array values. The default is
// Elementwise{}.
func WithBackend(b Backend) EvalOption {
	return backendopt{b}
}

// NewEvaluator creates an evaluator with the default functions, modified by
// the given options in order.
func NewEvaluator(opts ...EvalOption) *Evaluator {
	ev := Evaluator{
		funcs:   make(map[string]Func, len(globalfuncs)),
		backend: Elementwise{},
		prec:    64,
	}
	for k, v := range globalfuncs {
		ev.funcs[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case funcopt:
			ev.setfunc(opt.name, opt.fn)
		case funcsopt:
			for k, v := range opt {
				ev.setfunc(k, v)
			}
		case precopt:
			if opt != 0 {
				ev.prec = uint(opt)
			}
		case backendopt:
			if opt.b != nil {
				ev.backend = opt.b
			}
		default:
			panic("formula: unknown option type")
		}
	}
	return &ev
}

func (ev *Evaluator) setfunc(name string, fn Func) {
	if fn == nil {
		delete(ev.funcs, name)
		return
	}
	ev.funcs[name] = fn
}

// Prec returns the precision used for functions computing with big.Float.
func (ev *Evaluator) Prec() uint {
	return ev.prec
}

// Eval evaluates an expression with the given variables. If an error occurs,
// e.g. a missing variable definition or a division by zero, then the error is
// an EvalError and the result is the zero Value. Evaluation stops at the
// first error; left operands are evaluated before right operands.
func (ev *Evaluator) Eval(e *Expr, vars Vars) (Value, error) {
	return e.n.eval(ev, vars)
}

// EvalString parses and evaluates an expression. The error is either the
// *SyntaxError from parsing or the EvalError from evaluation.
func (ev *Evaluator) EvalString(src string, vars Vars) (Value, error) {
	e, err := ParseString(src)
	if err != nil {
		return Value{}, err
	}
	return ev.Eval(e, vars)
}

var defaultEvaluator = NewEvaluator()

// Eval evaluates an expression with the given variables and functions. If
// funcs is nil, the default functions are used.
func Eval(e *Expr, vars Vars, funcs map[string]Func) (Value, error) {
	if funcs == nil {
		return defaultEvaluator.Eval(e, vars)
	}
	ev := Evaluator{funcs: funcs, backend: Elementwise{}, prec: 64}
	return ev.Eval(e, vars)
}

// EvalString is a shortcut to parse and evaluate a string expression using
// the default functions.
func EvalString(src string, vars Vars) (Value, error) {
	return defaultEvaluator.EvalString(src, vars)
}

// eval computes the node's value, evaluating children first.
func (n *node) eval(ev *Evaluator, vars Vars) (Value, error) {
	switch n.kind {
	case nodeNum:
		return Scalar(n.num), nil
	case nodeName:
		v, ok := vars[n.name]
		if !ok {
			return Value{}, &NameError{Name: n.name}
		}
		return v, nil
	case nodeCall:
		x, err := n.left.eval(ev, vars)
		if err != nil {
			return Value{}, err
		}
		fn := ev.funcs[n.name]
		if fn == nil {
			return Value{}, &UnknownFuncError{Name: n.name}
		}
		return ev.call(n.name, fn, x)
	case nodeNop:
		return n.left.eval(ev, vars)
	case nodeNeg:
		x, err := n.left.eval(ev, vars)
		if err != nil {
			return Value{}, err
		}
		r, err := ev.backend.Map(x, neg)
		if err != nil {
			return Value{}, operandErr("-", err)
		}
		return r, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		l, err := n.left.eval(ev, vars)
		if err != nil {
			return Value{}, err
		}
		r, err := n.right.eval(ev, vars)
		if err != nil {
			return Value{}, err
		}
		return ev.binary(n.kind, l, r)
	default:
		return Value{}, &OperatorError{Op: n.kind.String()}
	}
}

// binary applies a binary operator to evaluated operands.
func (ev *Evaluator) binary(op nodeKind, l, r Value) (Value, error) {
	var f func(a, b float64) (float64, error)
	switch op {
	case nodeAdd:
		f = add
	case nodeSub:
		f = sub
	case nodeMul:
		f = mul
	case nodeDiv:
		// The backend would give infinities. Check first.
		if r.hasZero() {
			return Value{}, &ZeroDivisionError{Op: "/"}
		}
		f = div
	case nodePow:
		f = pow
	default:
		return Value{}, &OperatorError{Op: op.String()}
	}
	v, err := ev.backend.Zip(l, r, f)
	if err != nil {
		return Value{}, operandErr(op.symbol(), err)
	}
	return v, nil
}

// call applies a function to each element of its evaluated argument.
func (ev *Evaluator) call(name string, fn Func, x Value) (Value, error) {
	v, err := ev.backend.Map(x, func(a float64) (float64, error) {
		r, err := fn.Call(a, ev.prec)
		if err != nil {
			return 0, domainErr(name, a, err)
		}
		if !isFinite(r) && isFinite(a) {
			return 0, &DomainError{X: a, Func: name, Reason: "result is not finite"}
		}
		return r, nil
	})
	if err != nil {
		return Value{}, operandErr(name, err)
	}
	return v, nil
}

// operandErr passes evaluation errors through and wraps anything else from a
// backend.
func operandErr(op string, err error) error {
	var ee EvalError
	if errors.As(err, &ee) {
		return err
	}
	return &OperandError{Op: op, Err: err}
}

// domainErr makes a DomainError for a function failing at x.
func domainErr(name string, x float64, err error) error {
	var de *DomainError
	if errors.As(err, &de) {
		d := *de
		d.X = x
		if d.Func == "" {
			d.Func = name
		}
		return &d
	}
	return &DomainError{X: x, Func: name, Reason: err.Error(), Err: err}
}

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

func neg(a float64) (float64, error) { return -a, nil }

func add(a, b float64) (float64, error) { return a + b, nil }

func sub(a, b float64) (float64, error) { return a - b, nil }

func mul(a, b float64) (float64, error) { return a * b, nil }

func div(a, b float64) (float64, error) { return a / b, nil }

func pow(a, b float64) (float64, error) {
	if a == 0 && b < 0 {
		return 0, &ZeroDivisionError{Op: "^"}
	}
	r := math.Pow(a, b)
	if math.IsNaN(r) && !math.IsNaN(a) && !math.IsNaN(b) {
		return 0, &DomainError{X: a, Func: "^", Reason: "negative base with fractional exponent"}
	}
	return r, nil
}
