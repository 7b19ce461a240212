package calc

import (
	"errors"
	"math/big"
	"strconv"
)

// Error categories. Every error returned by this package matches exactly one
// of these with errors.Is.
var (
	// ErrMalformed matches errors from invalid input, i.e. every InputError.
	ErrMalformed = errors.New("malformed expression")
	// ErrDivisionByZero matches a DivisionError.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow matches an OverflowError.
	ErrOverflow = errors.New("overflow")
)

// CharError is an error indicating a rune outside of InputChars. It implements
// InputError.
type CharError struct {
	// Col is the position of the rune.
	Col int
	// Char is the rune that is not allowed.
	Char rune
}

func (err *CharError) Error() string {
	return errpos(err.Col, "invalid character "+strconv.QuoteRune(err.Char))
}

func (err *CharError) Pos() int {
	return err.Col
}

// OperatorError is an error indicating an operator that is not valid where it
// appears, a run of operators, or a missing operator between terms. It
// implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood. If Missing is true, it
	// is instead the token that followed a complete term.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
	// Missing is whether an operator was expected but absent.
	Missing bool
}

func (err *OperatorError) Error() string {
	if err.Missing {
		return errpos(err.Col, "missing operator before "+strconv.Quote(err.Operator))
	}
	if len(err.Operator) > 1 {
		return errpos(err.Col, "invalid operator sequence "+strconv.Quote(err.Operator))
	}
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unexpected "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// NotationError is an error indicating a number in scientific notation, which
// is not supported. It implements InputError.
type NotationError struct {
	// Col is the position of the last mantissa digit.
	Col int
	// Text is the digit, exponent marker, sign, and first exponent digit.
	Text string
}

func (err *NotationError) Error() string {
	return errpos(err.Col, "scientific notation is not supported: "+strconv.Quote(err.Text))
}

func (err *NotationError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the unmatched bracket.
	Col int
	// Left is the opening bracket, if it is the unmatched one.
	Left string
	// Right is the closing bracket, if it is the unmatched one.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty expression or
// subexpression. It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *CharError) Is(target error) bool            { return target == ErrMalformed }
func (err *OperatorError) Is(target error) bool        { return target == ErrMalformed }
func (err *NotationError) Is(target error) bool        { return target == ErrMalformed }
func (err *BracketError) Is(target error) bool         { return target == ErrMalformed }
func (err *EmptyExpressionError) Is(target error) bool { return target == ErrMalformed }
func (err *LexError) Is(target error) bool             { return target == ErrMalformed }

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*CharError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*NotationError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)

// DivisionError is an error from a division whose divisor is zero.
type DivisionError struct {
	// X is the dividend.
	X *big.Float
}

func (err *DivisionError) Error() string {
	return "division by zero: " + err.X.Text('g', 10) + " / 0"
}

func (err *DivisionError) Is(target error) bool {
	return target == ErrDivisionByZero
}

// OverflowError is an error from a number or the result of an operation whose
// magnitude exceeds the largest float64.
type OverflowError struct {
	// Op is the operation that overflowed: "Num" for a literal, otherwise one
	// of "Add", "Sub", "Mul", or "Div".
	Op string
}

func (err *OverflowError) Error() string {
	return "overflow in " + err.Op
}

func (err *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}
