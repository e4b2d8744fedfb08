package formula

import "strconv"

// SyntaxError is an error indicating input that is not a well-formed
// expression. Every error from parsing invalid input is a *SyntaxError, and
// every SyntaxError has the same message. It implements InputError.
type SyntaxError struct {
	// Col is the position of the token at which the input became invalid.
	Col int
	// Reason describes what was wrong, for diagnostics. It is not part of the
	// error message.
	Reason string
}

func (err *SyntaxError) Error() string {
	return "invalid syntax"
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

func syntaxErr(col int, reason string) error {
	return &SyntaxError{Col: col, Reason: reason}
}

// operatorErr is for an operator token where its kind of operator can't go.
func operatorErr(col int, op string, unary bool) error {
	s := "binary"
	if unary {
		s = "unary"
	}
	return syntaxErr(col, "unknown "+s+" operator "+strconv.Quote(op))
}

// signErr is for a sign operator immediately following another.
func signErr(col int, op string) error {
	return syntaxErr(col, "sign "+strconv.Quote(op)+" follows another sign without brackets")
}

// bracketErr is for unbalanced parentheses. Either of left or right may be
// empty to indicate the missing side.
func bracketErr(col int, left, right string) error {
	if left == "" {
		return syntaxErr(col, "close bracket "+right+" with no open bracket")
	}
	return syntaxErr(col, "open bracket "+left+" with no close bracket")
}

// emptyErr is for a missing operand. end is the token that ended the
// subexpression, or the empty string at the end of input.
func emptyErr(col int, end string) error {
	if end == "" {
		if col <= 1 {
			return syntaxErr(col, "no expression")
		}
		return syntaxErr(col, "no expression at end")
	}
	return syntaxErr(col, "no expression up to "+strconv.Quote(end))
}

// juxtErr is for two operands with no operator between them.
func juxtErr(col int, text string) error {
	return syntaxErr(col, "missing operator before "+strconv.Quote(text))
}

// callErr is for a function call that doesn't have exactly one argument.
func callErr(col int, name string, n int) error {
	return syntaxErr(col, "cannot call "+name+" with "+strconv.Itoa(n)+" arguments")
}

// rangeErr is for a literal too large to represent.
func rangeErr(col int, text string) error {
	return syntaxErr(col, "number "+text+" out of range")
}

// errpos is a shortcut to create a message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// Detail formats the position and reason of a syntax error, e.g. for logs.
func (err *SyntaxError) Detail() string {
	return errpos(err.Col, err.Reason)
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var _ InputError = (*SyntaxError)(nil)
