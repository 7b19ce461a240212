package calc

import "strings"

// FormatNumberInput returns the input text after typing c at the end of
// current. Only a decimal point is treated specially: it is dropped if the
// number being typed already has one, and it gets a leading zero if it starts
// a number. The number being typed is the text after the last operator or
// parenthesis.
func FormatNumberInput(current string, c rune) string {
	if c != '.' {
		return current + string(c)
	}
	num := current[strings.LastIndexAny(current, Operators+"()")+1:]
	if strings.IndexByte(num, '.') >= 0 {
		return current
	}
	if num == "" {
		return current + "0."
	}
	return current + "."
}
