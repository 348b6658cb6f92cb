package lang

// Builder constructs syntax trees without parsing source text, for
// embedding programs that generate expressions. Nodes built this way have
// no source position, so errors raised while evaluating them are reported
// without an underline.
//
// Example:
//
//	b := lang.NewBuilder()
//	root := b.Binary(lang.TokenPlus,
//	    b.Variable("total"),
//	    b.Call("round", b.Literal(lang.FloatVal(2.5))),
//	)
type Builder struct{}

// NewBuilder creates a new tree builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// token synthesizes a token with no source position.
func (b *Builder) token(typ TokenType, lexeme string) Token {
	return Token{Type: typ, Lexeme: lexeme, Line: -1, Column: -1}
}

// Literal creates a literal node holding v.
func (b *Builder) Literal(v Value) Node {
	tok := b.token(TokenNull, v.raw())

	return &LiteralExpr{span: span{tok, tok}, Value: v}
}

// Group wraps expr in parentheses.
func (b *Builder) Group(expr Node) Node {
	return &GroupingExpr{
		span: span{b.token(TokenLeftParen, "("), b.token(TokenRightParen, ")")},
		Expr: expr,
	}
}

// List creates a list literal.
func (b *Builder) List(elems ...Node) Node {
	return &ListExpr{
		span:     span{b.token(TokenLeftBracket, "["), b.token(TokenRightBracket, "]")},
		Elements: elems,
	}
}

// Variable creates a reference to the named variable.
func (b *Builder) Variable(name string) Node {
	return &VariableExpr{
		span: span{b.token(TokenDollar, "$"), b.token(TokenIdentifier, name)},
	}
}

// Property creates an access of the named property of expr.
func (b *Builder) Property(expr Node, name string) Node {
	return &PropertyExpr{
		span: span{expr.Start(), b.token(TokenIdentifier, name)},
		Expr: expr,
	}
}

// Index creates a single-element index into expr.
func (b *Builder) Index(expr, index Node) Node {
	return &IndexExpr{
		span:  span{expr.Start(), b.token(TokenRightBracket, "]")},
		Expr:  expr,
		Index: index,
	}
}

// Slice creates a slice of expr. Either bound may be nil.
func (b *Builder) Slice(expr, low, high Node) Node {
	return &IndexExpr{
		span:  span{expr.Start(), b.token(TokenRightBracket, "]")},
		Expr:  expr,
		Low:   low,
		High:  high,
		Slice: true,
	}
}

// Unary creates a prefix operation. Operator op must be [TokenMinus] or
// [TokenBang] to evaluate with the built-in operators.
func (b *Builder) Unary(op TokenType, right Node) Node {
	tok := b.token(op, "")

	return &UnaryExpr{span: span{tok, right.End()}, Operator: tok, Right: right}
}

// Binary creates an infix operation.
func (b *Builder) Binary(op TokenType, left, right Node) Node {
	return &BinaryExpr{
		span:     span{left.Start(), right.End()},
		Operator: b.token(op, ""),
		Left:     left,
		Right:    right,
	}
}

// Call creates an invocation of the named function.
func (b *Builder) Call(name string, args ...Node) Node {
	return &CallExpr{
		span: span{b.token(TokenIdentifier, name), b.token(TokenRightParen, ")")},
		Args: args,
	}
}
