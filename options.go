package calc

// Option is an option used when creating an Engine.
type Option interface {
	engineOption()
}

type (
	placesopt int
	precopt   uint
)

func (placesopt) engineOption() {}
func (precopt) engineOption()   {}

// Places sets the number of decimal places in formatted results. Nonzero
// results smaller in magnitude than 10^-n are formatted as TooSmall. Negative
// values are treated as zero.
func Places(n int) Option {
	if n < 0 {
		n = 0
	}
	return placesopt(n)
}

// Prec sets the precision of calculations in bits. The default is 53, which
// matches float64. A precision of zero selects the default.
func Prec(prec uint) Option {
	return precopt(prec)
}
