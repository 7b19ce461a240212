package calc

import (
	"math/big"
	"strings"
)

// Format renders a value for display. Nonzero values smaller in magnitude
// than 10^-Places format as TooSmall. Otherwise the value is rounded to Places
// decimal places, and trailing zeros and a trailing decimal point are removed.
// Values without a fractional part render as plain integers with no exponent,
// however large. Infinities and nil format as Unknown.
func (e *Engine) Format(v *big.Float) string {
	if v == nil || v.IsInf() {
		return Unknown
	}
	if v.Sign() == 0 {
		return "0"
	}
	if new(big.Float).Abs(v).Cmp(e.min) < 0 {
		return TooSmall
	}
	s := v.Text('f', e.places)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
