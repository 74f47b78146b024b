package expr

import (
	"strconv"
)

// Op identifies a unary or binary operator.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNeg
	OpPos
)

func (o Op) String() string {
	switch o {
	case OpAdd, OpPos:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	default:
		return "?"
	}
}

// Node is the interface all AST nodes implement.
type Node interface {
	// Pos returns the byte offset of the node in the source expression.
	Pos() int
	// String returns a fully parenthesised rendering of the node.
	String() string
	node()
}

// Number is a numeric literal.
type Number struct {
	Value float64
	Text  string
	At    int
}

// Ident is a reference to a constant or variable.
type Ident struct {
	Name string
	At   int
}

// Call applies a unary function to its argument.
type Call struct {
	Func string
	Arg  Node
	At   int
}

// Unary is a prefix sign.
type Unary struct {
	Op Op
	X  Node
	At int
}

// Binary is an infix operation.
type Binary struct {
	Op   Op
	X, Y Node
	At   int
}

func (n *Number) Pos() int { return n.At }
func (n *Ident) Pos() int  { return n.At }
func (n *Call) Pos() int   { return n.At }
func (n *Unary) Pos() int  { return n.At }
func (n *Binary) Pos() int { return n.At }

func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *Ident) String() string {
	return n.Name
}

func (n *Call) String() string {
	return n.Func + "(" + n.Arg.String() + ")"
}

func (n *Unary) String() string {
	return "(" + n.Op.String() + n.X.String() + ")"
}

func (n *Binary) String() string {
	return "(" + n.X.String() + " " + n.Op.String() + " " + n.Y.String() + ")"
}

func (*Number) node() {}
func (*Ident) node()  {}
func (*Call) node()   {}
func (*Unary) node()  {}
func (*Binary) node() {}

// Walk calls fn for n and every node below it, depth first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Call:
		Walk(v.Arg, fn)
	case *Unary:
		Walk(v.X, fn)
	case *Binary:
		Walk(v.X, fn)
		Walk(v.Y, fn)
	}
}

// Size returns the number of nodes in the tree rooted at n.
func Size(n Node) int {
	size := 0
	Walk(n, func(Node) bool {
		size++
		return true
	})
	return size
}
