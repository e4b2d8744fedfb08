package formula

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Expr = num | name | Call | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')'
// Call = funcname '(' Expr ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Pow = Expr '^' Expr | Expr '**' Expr
//
// Loosest to tightest: Add Sub, Mul Div, Neg Plus, Pow. Only Pow, Neg, and
// Plus are right-associative. Neg and Plus may not directly follow Neg, Plus,
// Add, or Sub.

// Expr is a parsed expression that can be evaluated with variables.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
	// funcs is the list of function names called in the expression.
	funcs []string
}

// Parse parses an expression so it can be evaluated. The given options are
// applied in order. If the input is not a well-formed expression, the error is
// a *SyntaxError. Errors from src are returned unchanged.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	p := parsectx{
		names: make(map[string]bool),
		funcs: make(map[string]bool),
	}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok)
	}
	ex := Expr{
		n:     n,
		names: setlist(p.names),
		funcs: setlist(p.funcs),
	}
	return &ex, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// setlist returns the sorted keys of a set.
func setlist(set map[string]bool) []string {
	v := make([]string, 0, len(set))
	for k := range set {
		v = append(v, k)
	}
	sortstrs(v)
	return v
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, which is always a close bracket or EOF.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// There is no implicit multiplication.
			return nil, juxtErr(tok.pos, tok.text)
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, operatorErr(tok.pos, tok.text, false)
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			p.sign = prec.op == nodeAdd || prec.op == nodeSub
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenClose, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("formula: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary,
// any encountered token must be valid as the start of a subexpression, and
// whitespace normally lexed as EOF is ignored.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	// Don't use EOF whitespace for LHS.
	tok, err := scan.next("")
	if err != nil {
		return nil, err
	}
	sign := p.sign
	p.sign = false
	var n *node
	switch tok.kind {
	case tokenNum:
		f, err := strconv.ParseFloat(tok.text, 64)
		if math.IsInf(f, 0) {
			return nil, rangeErr(tok.pos, tok.text)
		}
		if err != nil && !isRangeErr(err) {
			// The lexer only produces valid numbers.
			panic("formula: invalid number: " + tok.text + " (" + err.Error() + ")")
		}
		n = &node{kind: nodeNum, name: tok.text, num: f}
	case tokenIdent:
		// We respect whitespace here so that x\n(y) doesn't become a call.
		nt, err := scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		if nt.kind != tokenOpen {
			scan.push(nt)
			p.names[tok.text] = true
			n = &node{kind: nodeName, name: tok.text}
			break
		}
		arg, err := parsecall(scan, p, tok.text)
		if err != nil {
			return nil, err
		}
		p.funcs[tok.text] = true
		n = &node{kind: nodeCall, name: tok.text, left: arg}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, operatorErr(tok.pos, tok.text, true)
		}
		if sign {
			return nil, signErr(tok.pos, tok.text)
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		p.sign = true
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, left: rhs}
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		if end := scan.must(); end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end)
		}
		n = rhs
	case tokenClose:
		return nil, emptyErr(tok.pos, tok.text)
	case tokenEOF:
		return nil, emptyErr(tok.pos, "")
	default:
		panic("formula: unknown token: " + tok.String())
	}
	return n, nil
}

// parsecall parses the single argument of a function call after its open
// bracket, through the close bracket.
func parsecall(scan *lexer, p *parsectx, name string) (*node, error) {
	tok, err := scan.next("")
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose {
		return nil, callErr(tok.pos, name, 0)
	}
	scan.push(tok)
	arg, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	if end := scan.must(); end.kind != tokenClose {
		return nil, itShouldNotHaveEndedThisWay(end)
	}
	return arg, nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression.
func itShouldNotHaveEndedThisWay(tok lexToken) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return bracketErr(tok.pos, "(", "")
	case tokenClose:
		// A close bracket at the end of an input has no open bracket.
		return bracketErr(tok.pos, "", tok.text)
	default:
		panic("formula: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// Funcs returns the function names the expression calls.
func (e *Expr) Funcs() []string {
	return append(([]string)(nil), e.funcs...)
}

// String creates a string representation of the parsed expression, with
// brackets grouping each term. Parsing the result gives an equivalent
// expression.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
