package calc

import (
	"io"
	"strings"
)

// Expr   = Term { ('+' | '-') Term }
// Term   = Factor { ('*' | '/') Factor }
// Factor = [ '+' | '-' ] Atom
// Atom   = num | '(' Expr ')'
// num    = digits [ '.' [ digits ] ] | '.' digits

// Expr is a parsed expression that can be evaluated with an Engine. An Expr is
// immutable and may be evaluated any number of times.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses normalized expression text, as produced by Preprocess. Parse
// does not insert implicit multiplications; two adjacent terms are an error.
func Parse(src io.RuneScanner) (*Expr, error) {
	scan := lex(src)
	n, err := parseterm(scan, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Right: tok.text}
	default:
		panic("calc: parseterm ended on " + tok.String())
	}
	return &Expr{n: n}, nil
}

// ParseString preprocesses and parses an expression.
func ParseString(text string) (*Expr, error) {
	s, err := Preprocess(text)
	if err != nil {
		return nil, err
	}
	return Parse(strings.NewReader(s))
}

// parseterm parses a sequence of factors joined by binary operators more
// binding than until. If there is no error, then parseterm pushes the last
// token it scans, which is either a close bracket or EOF.
func parseterm(scan *lexer, until operator) (*node, error) {
	n, err := parselhs(scan)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenNum, tokenOpen:
			// Implicit multiplication is the preprocessor's job. Anything
			// still adjacent here, like 1.2.3 or (2)(3) given directly to
			// Parse, has no operator.
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Missing: true}
		case tokenClose, tokenEOF:
			scan.push(tok)
			return n, nil
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses a factor: an atom with at most one sign.
func parselhs(scan *lexer) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOp {
		return parseatom(scan, tok)
	}
	prec := unop(tok.text)
	if prec.op == nodeNone {
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	}
	arg, err := scan.next()
	if err != nil {
		return nil, err
	}
	if arg.kind == tokenOp {
		// Only one sign per factor: --2 and -+2 are rejected.
		return nil, &OperatorError{Col: arg.pos, Operator: arg.text, Unary: true}
	}
	rhs, err := parseatom(scan, arg)
	if err != nil {
		return nil, err
	}
	return &node{kind: prec.op, left: rhs}, nil
}

// parseatom parses a number or a parenthesized expression starting with tok.
func parseatom(scan *lexer, tok lexToken) (*node, error) {
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, num: tok.text}, nil
	case tokenOpen:
		rhs, err := parseterm(scan, exprprec)
		if err != nil {
			// Reporting the unclosed bracket is more helpful than reporting
			// an empty expression at the end of the input.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: tok.pos, Left: tok.text}
			}
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, &BracketError{Col: tok.pos, Left: tok.text}
		}
		return rhs, nil
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	case tokenOp:
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// Validate reports whether text could be a valid expression: it is not blank,
// it contains only InputChars, and its parentheses are balanced. An
// expression that passes Validate may still fail to parse.
func Validate(text string) bool {
	return validate(text) == nil
}

func validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return &EmptyExpressionError{Col: 1}
	}
	col := 0
	for _, r := range text {
		col++
		if !IsValidInputChar(r) {
			return &CharError{Col: col, Char: r}
		}
	}
	return checkBrackets(text)
}

// checkBrackets checks that parentheses are balanced and that the running
// count of open brackets is never negative.
func checkBrackets(text string) error {
	depth, col, last := 0, 0, 0
	for _, r := range text {
		col++
		switch r {
		case '(':
			depth++
			last = col
		case ')':
			depth--
			if depth < 0 {
				return &BracketError{Col: col, Right: ")"}
			}
		}
	}
	if depth > 0 {
		return &BracketError{Col: last, Left: "("}
	}
	return nil
}

// String creates a fully parenthesized representation of the parsed
// expression. The result parses to the same expression.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Lower is more binding.
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
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodePos}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
