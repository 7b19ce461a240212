package calc

import (
	"math"
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Sentinels returned by Evaluate in place of a number.
const (
	// Unknown is the result of any invalid expression, division by zero, or
	// overflow.
	Unknown = "?"
	// TooSmall is the result of a valid expression whose nonzero value is too
	// small in magnitude to display.
	TooSmall = "Too Small"
)

const (
	// DefaultPlaces is the default number of decimal places in results.
	DefaultPlaces = 8
	// DefaultPrec is the default precision of calculations in bits.
	DefaultPrec = 53
)

// Engine evaluates expressions. It holds only its configuration, so an Engine
// is safe to use concurrently and evaluation has no state between calls.
type Engine struct {
	prec   uint
	places int
	// min is the smallest nonzero magnitude that formats as a number.
	min *big.Float
	// max is the largest magnitude of any literal or intermediate result.
	max *big.Float
}

// NewEngine creates an engine. With no options, results have eight decimal
// places and calculations use float64 precision.
func NewEngine(opts ...Option) *Engine {
	e := Engine{prec: DefaultPrec, places: DefaultPlaces}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case placesopt:
			e.places = int(opt)
		case precopt:
			if opt != 0 {
				e.prec = uint(opt)
			}
		default:
			panic("calc: unknown option type")
		}
	}
	e.min = threshold(e.prec, e.places)
	e.max = new(big.Float).SetPrec(e.prec).SetFloat64(math.MaxFloat64)
	return &e
}

// threshold computes 10^-places rounded to prec bits. The power is computed
// with extra precision so that rounding gives the same value as parsing the
// decimal literal.
func threshold(prec uint, places int) *big.Float {
	const guard = 64
	ten := new(big.Float).SetPrec(prec + guard).SetInt64(10)
	exp := new(big.Float).SetPrec(prec + guard).SetInt64(-int64(places))
	r := new(big.Float).SetPrec(prec + guard)
	bigfloat.Pow(r, ten, exp)
	return new(big.Float).SetPrec(prec).Set(r)
}

// Places returns the number of decimal places in formatted results.
func (e *Engine) Places() int {
	return e.places
}

// Prec returns the precision to which values are computed.
func (e *Engine) Prec() uint {
	return e.prec
}

// Compile validates and parses raw expression text. Leading and trailing
// whitespace is ignored. The rest must be non-blank, contain only InputChars,
// and have balanced parentheses; it is then preprocessed and parsed.
func (e *Engine) Compile(text string) (*Expr, error) {
	text = strings.TrimSpace(text)
	if err := validate(text); err != nil {
		return nil, err
	}
	return ParseString(text)
}

// Eval computes the value of a parsed expression. The result is nil if and
// only if the error is non-nil.
func (e *Engine) Eval(x *Expr) (*big.Float, error) {
	return x.n.eval(e)
}

// Calculate compiles and evaluates raw expression text.
func (e *Engine) Calculate(text string) (*big.Float, error) {
	x, err := e.Compile(text)
	if err != nil {
		return nil, err
	}
	return e.Eval(x)
}

// Evaluate computes the display string for raw expression text. The result is
// either a formatted number, TooSmall, or Unknown for any failure. Evaluate
// never panics.
func (e *Engine) Evaluate(text string) (s string) {
	defer func() {
		if recover() != nil {
			s = Unknown
		}
	}()
	v, err := e.Calculate(text)
	if err != nil {
		return Unknown
	}
	return e.Format(v)
}

// num parses a number literal.
func (e *Engine) num(s string) (*big.Float, error) {
	// big.Float wants digits on both sides of the point.
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	r, _, err := new(big.Float).SetPrec(e.prec).Parse(s, 10)
	if err != nil {
		return nil, &LexError{Text: s, Kind: "number"}
	}
	return e.check(r, nodeNum)
}

// check returns an overflow error if x is outside the float64 range.
func (e *Engine) check(x *big.Float, op nodeKind) (*big.Float, error) {
	if x.IsInf() || new(big.Float).Abs(x).Cmp(e.max) > 0 {
		return nil, &OverflowError{Op: op.String()}
	}
	return x, nil
}

// eval computes the node's value. Every call returns a newly allocated value.
func (n *node) eval(e *Engine) (*big.Float, error) {
	switch n.kind {
	case nodeNum:
		return e.num(n.num)
	case nodeNeg:
		x, err := n.left.eval(e)
		if err != nil {
			return nil, err
		}
		return x.Neg(x), nil
	case nodePos:
		return n.left.eval(e)
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		l, err := n.left.eval(e)
		if err != nil {
			return nil, err
		}
		r, err := n.right.eval(e)
		if err != nil {
			return nil, err
		}
		switch n.kind {
		case nodeAdd:
			l.Add(l, r)
		case nodeSub:
			l.Sub(l, r)
		case nodeMul:
			l.Mul(l, r)
		case nodeDiv:
			// Check before dividing; big.Float panics on 0/0.
			if r.Sign() == 0 {
				return nil, &DivisionError{X: l}
			}
			l.Quo(l, r)
		}
		return e.check(l, n.kind)
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

var defaultEngine = NewEngine()

// EvalString is a shortcut to evaluate raw expression text with the default
// engine.
func EvalString(text string) string {
	return defaultEngine.Evaluate(text)
}
