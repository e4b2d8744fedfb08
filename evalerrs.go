package formula

import "strconv"

// EvalError is an error resulting from evaluating a well-formed expression.
// Every error from evaluation implements EvalError.
type EvalError interface {
	error
	evalError()
}

// NameError is an error from a lookup for a variable that is missing from the
// variable bindings.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// UnknownFuncError is an error from a call to a function that the evaluator
// does not have.
type UnknownFuncError struct {
	// Name is the name of the function.
	Name string
}

func (err *UnknownFuncError) Error() string {
	return "unknown function: " + strconv.Quote(err.Name)
}

// ZeroDivisionError is an error from dividing by zero, either with / or by
// raising zero to a negative power with ^.
type ZeroDivisionError struct {
	// Op is the operator, "/" or "^".
	Op string
}

func (err *ZeroDivisionError) Error() string {
	if err.Op == "^" {
		return "division by zero: zero raised to a negative power"
	}
	return "division by zero"
}

// DomainError is an error returned when a function is called on an argument
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Func is a name identifying the function or operator.
	Func string
	// Reason optionally describes the problem.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Reason != "" {
		r += ": " + err.Reason
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return err.Err
}

// OperandError is an error from operands that an operator or function cannot
// combine, typically arrays with incompatible shapes.
type OperandError struct {
	// Op is the operator or function name.
	Op string
	// Err is the error from the Backend.
	Err error
}

func (err *OperandError) Error() string {
	return "invalid operands for " + err.Op + ": " + err.Err.Error()
}

func (err *OperandError) Unwrap() error {
	return err.Err
}

// OperatorError is an error from an operator the evaluator does not
// implement. Expressions from Parse never cause it.
type OperatorError struct {
	// Op identifies the operator.
	Op string
}

func (err *OperatorError) Error() string {
	return "unsupported operator " + strconv.Quote(err.Op)
}

func (*NameError) evalError()         {}
func (*UnknownFuncError) evalError()  {}
func (*ZeroDivisionError) evalError() {}
func (*DomainError) evalError()       {}
func (*OperandError) evalError()      {}
func (*OperatorError) evalError()     {}

var (
	_ EvalError = (*NameError)(nil)
	_ EvalError = (*UnknownFuncError)(nil)
	_ EvalError = (*ZeroDivisionError)(nil)
	_ EvalError = (*DomainError)(nil)
	_ EvalError = (*OperandError)(nil)
	_ EvalError = (*OperatorError)(nil)
)
