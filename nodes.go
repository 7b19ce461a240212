package calc

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Nodes are never
// modified after the parser creates them.
type node struct {
	kind nodeKind

	// num is the literal text of a nodeNum.
	num string

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // literal num

	nodeNeg // evaluate left, then negate
	nodePos // evaluate left
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
)

//go:generate go run golang.org/x/tools/cmd/stringer@v0.1.0 -type=nodeKind -trimprefix=node

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node fully parenthesized, so that the result parses back to
// the same tree.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(n.num)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodePos:
		b.WriteByte('+')
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		n.left.fmt(b)
		b.WriteString(opstrs[n.kind])
		n.right.fmt(b)
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

var opstrs = [...]string{
	nodeAdd: " + ",
	nodeSub: " - ",
	nodeMul: " * ",
	nodeDiv: " / ",
}
