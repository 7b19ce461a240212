package calc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zephyrtronium/calc"
)

func TestIsValidInputChar(t *testing.T) {
	for _, r := range "0123456789+-*/.() " {
		assert.True(t, calc.IsValidInputChar(r), "rejected %q", r)
	}
	for _, r := range "aAeE=$^%,_xX×÷\t\n[]{}" {
		assert.False(t, calc.IsValidInputChar(r), "accepted %q", r)
	}
}

func TestFormatNumberInput(t *testing.T) {
	cases := []struct {
		name    string
		current string
		c       rune
		want    string
	}{
		{"digit", "2", '3', "23"},
		{"op", "2", '+', "2+"},
		{"point", "2", '.', "2."},
		{"pointempty", "", '.', "0."},
		{"secondpoint", "2.5", '.', "2.5"},
		{"pointafterop", "2+", '.', "2+0."},
		{"pointafterparen", "2*(", '.', "2*(0."},
		{"pointnewnumber", "2.5+3", '.', "2.5+3."},
		{"secondpointnewnumber", "2.5+3.1", '.', "2.5+3.1"},
		{"pointafterclose", "(2)", '.', "(2)0."},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, calc.FormatNumberInput(c.current, c.c))
		})
	}
}
