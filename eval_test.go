package calc_test

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"add", "2 + 3", "5"},
		{"sub", "10 - 4", "6"},
		{"mul", "6 * 7", "42"},
		{"div", "15 / 3", "5"},

		{"decadd", "2.5 + 1.5", "4"},
		{"decmul", "3.14 * 2", "6.28"},
		{"decdiv", "10.5 / 2", "5.25"},
		{"pointone", "0.1 + 0.2", "0.3"},
		{"leadingdot", ".5 + .5", "1"},
		{"trailingdot", "5.", "5"},

		{"paren", "(2 + 3) * 4", "20"},
		{"parenrhs", "2 * (3 + 4)", "14"},
		{"nested", "((2 + 3) * 4) / 2", "10"},

		{"precmul", "2 + 3 * 4", "14"},
		{"precdiv", "20 - 6 / 2", "17"},
		{"precboth", "2 * 3 + 4 * 5", "26"},
		{"leftsub", "4 - 5 - 6", "-7"},
		{"leftdiv", "8 / 4 / 2", "1"},

		{"neg", "-5", "-5"},
		{"negadd", "-2 + 3", "1"},
		{"negparen", "-(2 + 3)", "-5"},
		{"pos", "+5", "5"},
		{"subneg", "2--3", "5"},
		{"mulneg", "2 * -3", "-6"},
		{"negzero", "-0", "0"},
		{"zeroprod", "0 * 5", "0"},

		{"third", "1 / 3", "0.33333333"},
		{"twothirds", "2 / 3", "0.66666667"},
		{"negthird", "-1 / 3", "-0.33333333"},
		{"smallest", "0.00000001", "0.00000001"},
		{"halfbelow", "0.000000015 * 1", "0.00000001"},

		{"complex1", "(2.5 + 1.5) * (3 - 1)", "8"},
		{"complex2", "100 / (2 * 5) + 3", "13"},
		{"complex3", "((10 - 5) * 2) / (1 + 1)", "5"},

		{"spaceless", "2+3", "5"},
		{"spacey", "  2  +  3  ", "5"},
		{"spaced", "2 + 3", "5"},
		{"outerws", "\t2+3\n", "5"},
		{"trailingnewline", "2+3\n", "5"},
		{"crlf", " 2 * 3\r\n", "6"},

		{"implicit", "2(3)", "6"},
		{"implicitparens", "(2)(3)", "6"},
		{"implicitexpr", "2(3+4)", "14"},
		{"implicitafter", "(2)3", "6"},
		{"dots", "1..5 * 2", "3"},

		{"large", "1000000000000000 * 1000", "1000000000000000000"},
		{"largefrac", "1000000000000000.5 * 2", "2000000000000001"},
		// Integers past 2^53 round to float64 values.
		{"past2p53", "9007199254740993", "9007199254740992"},
		{"bigprod", "99999999999*99999999999", "9999999999800000905216"},
	}
	e := calc.NewEngine()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, e.Evaluate(c.src), "evaluating %q", c.src)
		})
	}
}

func TestEvaluateSentinels(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", calc.Unknown},
		{"blank", "   ", calc.Unknown},
		{"trailing", "2 +", calc.Unknown},
		{"leading", "* 3", calc.Unknown},
		{"plusplus", "2 + + 3", calc.Unknown},
		{"unclosed", "(2 + 3", calc.Unknown},
		{"unopened", "2 + 3)", calc.Unknown},
		{"emptyparens", "()", calc.Unknown},
		{"minus3", "2---3", calc.Unknown},
		{"negneg", "--3", calc.Unknown},
		{"dots", "1.2.3", calc.Unknown},
		{"dot", ".", calc.Unknown},
		{"dotparen", "2.(3)", calc.Unknown},
		{"letter", "2a", calc.Unknown},
		{"equals", "2=3", calc.Unknown},
		{"sci", "1e5", calc.Unknown},
		{"tab", "2\t+ 3", calc.Unknown},
		{"innernewline", "2\n+3", calc.Unknown},
		{"onlynewlines", "\n\t\n", calc.Unknown},

		{"divzero", "5 / 0", calc.Unknown},
		{"divzeroexpr", "10 / (2 - 2)", calc.Unknown},
		{"zerozero", "0 / 0", calc.Unknown},
		{"divnegzero", "1 / -0", calc.Unknown},

		{"overflowlit", "1" + strings.Repeat("0", 309), calc.Unknown},
		{"overflowmul", "1" + strings.Repeat("0", 200) + "*1" + strings.Repeat("0", 200), calc.Unknown},

		{"toosmall", "1 / 100000000000", calc.TooSmall},
		{"toosmallneg", "-1 / 100000000000", calc.TooSmall},
		{"toosmalllit", "0.000000001", calc.TooSmall},
	}
	e := calc.NewEngine()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, e.Evaluate(c.src), "evaluating %q", c.src)
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
	}{
		{"empty", "", calc.ErrMalformed},
		{"char", "2 x 3", calc.ErrMalformed},
		{"brackets", "(1", calc.ErrMalformed},
		{"syntax", "2 +", calc.ErrMalformed},
		{"notation", "1e5", calc.ErrMalformed},
		{"divzero", "1/(1-1)", calc.ErrDivisionByZero},
		{"overflow", "1" + strings.Repeat("0", 400), calc.ErrOverflow},
	}
	e := calc.NewEngine()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := e.Calculate(c.src)
			assert.Nil(t, v)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.err)
			for _, other := range []error{calc.ErrMalformed, calc.ErrDivisionByZero, calc.ErrOverflow} {
				if other != c.err {
					assert.NotErrorIs(t, err, other)
				}
			}
		})
	}
}

func TestCalculateInputErrorPos(t *testing.T) {
	e := calc.NewEngine()
	_, err := e.Calculate("1 + $")
	var ce *calc.CharError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 5, ce.Pos())
	assert.Equal(t, '$', ce.Char)

	_, err = e.Calculate("(1))")
	var be *calc.BracketError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 4, be.Pos())
}

func TestCalculateDivision(t *testing.T) {
	e := calc.NewEngine()
	_, err := e.Calculate("7 / (3 - 3)")
	var de *calc.DivisionError
	require.ErrorAs(t, err, &de)
	f, _ := de.X.Float64()
	assert.Equal(t, 7.0, f)
}

func TestCalculateValue(t *testing.T) {
	e := calc.NewEngine()
	v, err := e.Calculate("1 / 3")
	require.NoError(t, err)
	f, _ := v.Float64()
	assert.Equal(t, 1.0/3.0, f)
	assert.Equal(t, uint(calc.DefaultPrec), v.Prec())
}

func TestFormat(t *testing.T) {
	cases := []struct {
		name string
		v    *big.Float
		want string
	}{
		{"nil", nil, calc.Unknown},
		{"inf", new(big.Float).SetInf(false), calc.Unknown},
		{"neginf", new(big.Float).SetInf(true), calc.Unknown},
		{"zero", new(big.Float), "0"},
		{"negzero", new(big.Float).Neg(new(big.Float)), "0"},
		{"int", big.NewFloat(4), "4"},
		{"negint", big.NewFloat(-12), "-12"},
		{"frac", big.NewFloat(2.5), "2.5"},
		{"round", big.NewFloat(2.0 / 3.0), "0.66666667"},
		{"roundtoint", big.NewFloat(3.999999999), "4"},
		{"huge", big.NewFloat(1e20), "100000000000000000000"},
		{"max", big.NewFloat(math.MaxFloat64), "179769313486231570814527423731704356798070567525844996598917476803157260780028538760589558632766878171540458953514382464234321326889464182768467546703537516986049910576551282076245490090389328944075868508455133942304583236903222948165808559332123348274797826204144723168738177180919299881250404026184124858368"},
		{"threshold", big.NewFloat(1e-8), "0.00000001"},
		{"tiny", big.NewFloat(1e-9), calc.TooSmall},
		{"negtiny", big.NewFloat(-1e-300), calc.TooSmall},
	}
	e := calc.NewEngine()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, e.Format(c.v))
		})
	}
}

func TestEngineOptions(t *testing.T) {
	e := calc.NewEngine(calc.Places(2))
	assert.Equal(t, 2, e.Places())
	assert.Equal(t, uint(calc.DefaultPrec), e.Prec())
	assert.Equal(t, "0.33", e.Evaluate("1/3"))
	assert.Equal(t, "0.67", e.Evaluate("2/3"))
	assert.Equal(t, "0.01", e.Evaluate("0.01"))
	assert.Equal(t, calc.TooSmall, e.Evaluate("1/1000"))

	e = calc.NewEngine(calc.Places(0))
	assert.Equal(t, "3", e.Evaluate("10/3"))
	assert.Equal(t, calc.TooSmall, e.Evaluate("1/3"))

	e = calc.NewEngine(calc.Places(-4), calc.Prec(0))
	assert.Equal(t, 0, e.Places())
	assert.Equal(t, uint(calc.DefaultPrec), e.Prec())

	e = calc.NewEngine(calc.Prec(128))
	assert.Equal(t, uint(128), e.Prec())
	assert.Equal(t, "0.33333333", e.Evaluate("1/3"))
}

func TestEvaluateIdempotent(t *testing.T) {
	e := calc.NewEngine()
	srcs := []string{"1/3", "2(3+4)", "5/0", "1/100000000000", "2 +"}
	for _, src := range srcs {
		first := e.Evaluate(src)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, e.Evaluate(src), "re-evaluating %q", src)
		}
		assert.Equal(t, first, calc.EvalString(src), "EvalString(%q)", src)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	e := calc.NewEngine()
	cases := map[string]string{
		"2 + 3 * 4":        "14",
		"(2 + 3) * 4":      "20",
		"1 / 3":            "0.33333333",
		"5 / 0":            calc.Unknown,
		"1 / 100000000000": calc.TooSmall,
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for src, want := range cases {
					assert.Equal(t, want, e.Evaluate(src))
				}
			}
		}()
	}
	wg.Wait()
}

func TestCompileReuse(t *testing.T) {
	e := calc.NewEngine()
	x, err := e.Compile("2(3+4)")
	require.NoError(t, err)
	assert.Equal(t, "((2) * ((3) + (4)))", x.String())
	a, err := e.Eval(x)
	require.NoError(t, err)
	b, err := e.Eval(x)
	require.NoError(t, err)
	assert.Zero(t, a.Cmp(b))
	assert.NotSame(t, a, b)
	assert.Equal(t, "14", e.Format(a))
}

func TestErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(calc.ErrMalformed, calc.ErrOverflow))
	assert.False(t, errors.Is(calc.ErrDivisionByZero, calc.ErrMalformed))
}
