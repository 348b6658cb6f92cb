package lang

import (
	"strconv"
	"strings"
)

// Node is a syntax tree node. The set of node types is closed: every
// implementation is declared in this file.
type Node interface {
	// Start returns the first token of the node's source region.
	Start() Token
	// End returns the last token of the node's source region.
	End() Token
	// Pretty renders the node's debug form indented by indent spaces.
	Pretty(indent int) string

	node()
}

// indentStep is the indentation added per nesting level by Pretty.
const indentStep = 2

type span struct {
	start, end Token
}

func (s span) Start() Token { return s.start }
func (s span) End() Token   { return s.end }
func (span) node()          {}

// LiteralExpr is a literal value.
type LiteralExpr struct {
	Value Value
	span
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Expr Node
	span
}

// ListExpr is a list literal.
type ListExpr struct {
	Elements []Node
	span
}

// VariableExpr is a reference to a caller-supplied variable.
type VariableExpr struct {
	span
}

// PropertyExpr is a property access on a record.
type PropertyExpr struct {
	Expr Node
	span
}

// IndexExpr is an index or slice applied to a sequence. When Slice is false
// Index is set and Low/High are nil. When Slice is true Index is nil and
// either bound may be nil.
type IndexExpr struct {
	Expr  Node
	Index Node
	Low   Node
	High  Node
	span
	Slice bool
}

// UnaryExpr is a prefix operation.
type UnaryExpr struct {
	Right    Node
	Operator Token
	span
}

// BinaryExpr is an infix operation.
type BinaryExpr struct {
	Left     Node
	Right    Node
	Operator Token
	span
}

// CallExpr is a function invocation.
type CallExpr struct {
	Args []Node
	span
}

// Name returns the variable name.
func (n *VariableExpr) Name() string { return n.end.Lexeme }

// Name returns the property name.
func (n *PropertyExpr) Name() string { return n.end.Lexeme }

// Name returns the operator name, e.g. "MINUS".
func (n *UnaryExpr) Name() string { return n.Operator.Name() }

// Name returns the operator name, e.g. "PLUS".
func (n *BinaryExpr) Name() string { return n.Operator.Name() }

// Name returns the function name.
func (n *CallExpr) Name() string { return n.start.Lexeme }

func pad(indent int) string { return strings.Repeat(" ", indent) }

// Pretty implements [Node].
func (n *LiteralExpr) Pretty(indent int) string {
	return pad(indent) + "Literal(" + n.Value.raw() + ")"
}

// Pretty implements [Node].
func (n *GroupingExpr) Pretty(indent int) string {
	return pad(indent) + "Grouping(\n" +
		n.Expr.Pretty(indent+indentStep) + "\n" +
		pad(indent) + ")"
}

// Pretty implements [Node].
func (n *ListExpr) Pretty(indent int) string {
	elems := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = e.Pretty(indent + indentStep)
	}

	return pad(indent) + "List(\n" +
		strings.Join(elems, ",\n") + "\n" +
		pad(indent) + ")"
}

// Pretty implements [Node].
func (n *VariableExpr) Pretty(indent int) string {
	return pad(indent) + "Variable(" + n.Name() + ")"
}

// Pretty implements [Node].
func (n *PropertyExpr) Pretty(indent int) string {
	return pad(indent) + "Property(\n" +
		pad(indent+indentStep) + strconv.Quote(n.Name()) + ",\n" +
		n.Expr.Pretty(indent+indentStep) + "\n" +
		pad(indent) + ")"
}

// Pretty implements [Node].
func (n *IndexExpr) Pretty(indent int) string {
	inner := indent + indentStep

	var loc string

	if n.Slice {
		bound := func(b Node) string {
			if b == nil {
				return pad(inner+indentStep) + "null"
			}

			return b.Pretty(inner + indentStep)
		}

		loc = pad(inner) + "(\n" +
			bound(n.Low) + ",\n" +
			bound(n.High) + "\n" +
			pad(inner) + ")"
	} else {
		loc = n.Index.Pretty(inner)
	}

	return pad(indent) + "Indexing(\n" +
		n.Expr.Pretty(inner) + ",\n" +
		loc + "\n" +
		pad(indent) + ")"
}

// Pretty implements [Node].
func (n *UnaryExpr) Pretty(indent int) string {
	return pad(indent) + "Unary(\n" +
		pad(indent+indentStep) + n.Name() + ",\n" +
		n.Right.Pretty(indent+indentStep) + "\n" +
		pad(indent) + ")"
}

// Pretty implements [Node].
func (n *BinaryExpr) Pretty(indent int) string {
	return pad(indent) + "Binary(\n" +
		pad(indent+indentStep) + n.Name() + ",\n" +
		n.Left.Pretty(indent+indentStep) + ",\n" +
		n.Right.Pretty(indent+indentStep) + "\n" +
		pad(indent) + ")"
}

// Pretty implements [Node].
func (n *CallExpr) Pretty(indent int) string {
	parts := make([]string, 0, len(n.Args)+1)
	parts = append(parts, pad(indent+indentStep)+strconv.Quote(n.Name()))

	for _, a := range n.Args {
		parts = append(parts, a.Pretty(indent+indentStep))
	}

	return pad(indent) + "Function(\n" +
		strings.Join(parts, ",\n") + "\n" +
		pad(indent) + ")"
}
