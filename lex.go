package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal number.
	tokenNum
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
)

//go:generate go run golang.org/x/tools/cmd/stringer@v0.1.0 -type=tokenKind -trimprefix=token

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/"

// InputChars contains every rune that may appear in an expression. Note that
// it includes the space.
const InputChars = "0123456789" + Operators + ".() "

// IsValidInputChar reports whether r belongs to InputChars. UIs use it to
// filter keystrokes before they reach the expression.
func IsValidInputChar(r rune) bool {
	return strings.ContainsRune(InputChars, r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// Preprocess normalizes raw expression text for parsing. It removes all
// whitespace, rejects runs of operators that cannot be parsed as a binary
// operator followed by a sign, rejects scientific notation, makes implicit
// multiplications explicit, and collapses runs of decimal points.
//
// Positions in errors refer to runes of the text with whitespace removed.
func Preprocess(text string) (string, error) {
	rs := make([]rune, 0, len(text))
	for _, r := range text {
		if !unicode.IsSpace(r) {
			rs = append(rs, r)
		}
	}
	if err := checkRuns(rs); err != nil {
		return "", err
	}
	if err := checkNotation(rs); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(rs) + len(rs)/2)
	var last rune
	for i, r := range rs {
		if r == '.' && last == '.' {
			continue
		}
		b.WriteRune(r)
		last = r
		if i+1 == len(rs) {
			break
		}
		// 2(x) -> 2*(x), (x)2 -> (x)*2, (x)(y) -> (x)*(y)
		next := rs[i+1]
		if isDigit(r) && next == '(' || r == ')' && (isDigit(next) || next == '(') {
			b.WriteByte('*')
			last = '*'
		}
	}
	return b.String(), nil
}

// checkRuns finds runs of two or more of + * / or three or more of -. A pair
// of minus signs is allowed, as in 2--3.
func checkRuns(rs []rune) error {
	start, n := 0, 0
	for i, r := range rs {
		if r == '+' || r == '*' || r == '/' {
			if n == 0 {
				start = i
			}
			n++
			if n == 2 {
				return &OperatorError{Col: start + 1, Operator: string(rs[start : i+1])}
			}
			continue
		}
		n = 0
	}
	n = 0
	for i, r := range rs {
		if r != '-' {
			n = 0
			continue
		}
		if n == 0 {
			start = i
		}
		n++
		if n == 3 {
			return &OperatorError{Col: start + 1, Operator: "---"}
		}
	}
	return nil
}

// checkNotation rejects a digit followed by an exponent marker, an optional
// sign, and another digit.
func checkNotation(rs []rune) error {
	for i := 0; i+2 < len(rs); i++ {
		if !isDigit(rs[i]) || rs[i+1] != 'e' && rs[i+1] != 'E' {
			continue
		}
		j := i + 2
		if rs[j] == '+' || rs[j] == '-' {
			j++
		}
		if j < len(rs) && isDigit(rs[j]) {
			return &NotationError{Col: i + 1, Text: string(rs[i : j+1])}
		}
	}
	return nil
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is an EOF token with a nil error. Subsequent times, if the EOF
// token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case isDigit(r), r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans digits with at most one decimal point. Either side of the
// point may be empty, but not both.
func (l *lexer) scanNum() error {
	var dig, dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) || strings.ContainsRune(Operators+"()", r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch {
		case r == '.':
			if dot {
				return l.error("number")
			}
			dot = true
		case isDigit(r):
			dig = true
		default:
			return l.error("number")
		}
	}
	if !dig {
		return l.error("number")
	}
	return nil
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This is either
	// "number" or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
