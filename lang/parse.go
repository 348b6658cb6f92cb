package lang

import (
	"slices"
)

// DefaultMaxDepth is the default limit on expression nesting accepted by
// the parser.
const DefaultMaxDepth = 256

// Parse lexes and parses source into a syntax tree.
func Parse(source string) (Node, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}

	return ParseTokens(tokens)
}

// ParseTokens parses a token sequence produced by [Lex]. The sequence must
// be terminated by an EOF token.
func ParseTokens(tokens []Token) (Node, error) {
	return parseTokens(tokens, DefaultMaxDepth)
}

func parseTokens(tokens []Token, maxDepth int) (Node, error) {
	if n := len(tokens); n == 0 || tokens[n-1].Type != TokenEOF {
		tokens = append(slices.Clip(tokens), Token{Type: TokenEOF})
	}

	p := &parser{tokens: tokens, maxDepth: maxDepth}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		tok := p.peek()

		return nil, parserError(tok, "Unexpected token %s", tok.Name())
	}

	return expr, nil
}

// parser holds the parser state.
type parser struct {
	tokens   []Token
	current  int
	depth    int
	maxDepth int
}

func (p *parser) peek() Token { return p.tokens[p.current] }

func (p *parser) previous() Token { return p.tokens[p.current-1] }

func (p *parser) eof() bool { return p.peek().Type == TokenEOF }

func (p *parser) check(typ TokenType) bool {
	return !p.eof() && p.peek().Type == typ
}

func (p *parser) advance() Token {
	if !p.eof() {
		p.current++
	}

	return p.previous()
}

func (p *parser) match(types ...TokenType) bool {
	if slices.ContainsFunc(types, p.check) {
		p.advance()

		return true
	}

	return false
}

func (p *parser) consume(typ TokenType) (Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}

	return Token{}, parserError(p.peek(), "Expected token %s", typ)
}

// args parses a comma-separated expression list and its closing delimiter.
func (p *parser) args(end TokenType) ([]Node, error) {
	var list []Node

	for !p.check(end) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		list = append(list, expr)

		if !p.match(TokenComma) {
			break
		}
	}

	if _, err := p.consume(end); err != nil {
		return nil, err
	}

	return list, nil
}

func (p *parser) expression() (Node, error) {
	if p.depth >= p.maxDepth {
		return nil, parserError(p.peek(), "Expression exceeds maximum depth %d", p.maxDepth)
	}

	p.depth++
	defer func() { p.depth-- }()

	return p.boolean()
}

func (p *parser) boolean() (Node, error) {
	return p.binary(p.comparison, TokenAmpersand, TokenPipe, TokenCaret)
}

func (p *parser) comparison() (Node, error) {
	return p.binary(p.term,
		TokenEqualEqual, TokenBangEqual,
		TokenLesser, TokenLesserEqual,
		TokenGreater, TokenGreaterEqual,
	)
}

func (p *parser) term() (Node, error) {
	return p.binary(p.factor, TokenMinus, TokenPlus)
}

func (p *parser) factor() (Node, error) {
	return p.binary(p.unary, TokenSlash, TokenStar, TokenStarStar, TokenPercent)
}

// binary parses a left-associative chain of operands joined by operators.
func (p *parser) binary(operand func() (Node, error), operators ...TokenType) (Node, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(operators...) {
		op := p.previous()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		expr = &BinaryExpr{
			span:     span{expr.Start(), right.End()},
			Left:     expr,
			Operator: op,
			Right:    right,
		}
	}

	return expr, nil
}

func (p *parser) unary() (Node, error) {
	if p.match(TokenBang, TokenMinus) {
		op := p.previous()

		if p.depth >= p.maxDepth {
			return nil, parserError(op, "Expression exceeds maximum depth %d", p.maxDepth)
		}

		p.depth++
		right, err := p.unary()
		p.depth--

		if err != nil {
			return nil, err
		}

		return &UnaryExpr{span: span{op, right.End()}, Operator: op, Right: right}, nil
	}

	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(TokenLeftBracket):
			expr, err = p.index(expr)

		case p.match(TokenPeriod):
			var ident Token

			ident, err = p.consume(TokenIdentifier)
			if err == nil {
				expr = &PropertyExpr{span: span{expr.Start(), ident}, Expr: expr}
			}

		default:
			return expr, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

// index parses the remainder of an index or slice after its opening
// bracket.
func (p *parser) index(expr Node) (Node, error) {
	var (
		low, high Node
		slice     bool
		err       error
	)

	if p.match(TokenColon) {
		slice = true
	} else {
		if low, err = p.expression(); err != nil {
			return nil, err
		}

		slice = p.match(TokenColon)
	}

	if slice && !p.check(TokenRightBracket) {
		if high, err = p.expression(); err != nil {
			return nil, err
		}
	}

	end, err := p.consume(TokenRightBracket)
	if err != nil {
		return nil, err
	}

	n := &IndexExpr{span: span{expr.Start(), end}, Expr: expr, Slice: slice}

	if slice {
		n.Low, n.High = low, high
	} else {
		n.Index = low
	}

	return n, nil
}

func (p *parser) literal() (Node, bool) {
	var v Value

	switch p.peek().Type {
	case TokenInteger:
		v = IntegerVal(p.peek().Literal.(int64))
	case TokenFloat:
		v = FloatVal(p.peek().Literal.(float64))
	case TokenString:
		v = StringVal(p.peek().Literal.(string))
	case TokenTrue:
		v = True
	case TokenFalse:
		v = False
	case TokenNull:
		v = Null
	default:
		return nil, false
	}

	tok := p.advance()

	return &LiteralExpr{span: span{tok, tok}, Value: v}, true
}

func (p *parser) primary() (Node, error) {
	if lit, ok := p.literal(); ok {
		return lit, nil
	}

	switch {
	case p.match(TokenIdentifier):
		ident := p.previous()

		if _, err := p.consume(TokenLeftParen); err != nil {
			return nil, err
		}

		args, err := p.args(TokenRightParen)
		if err != nil {
			return nil, err
		}

		return &CallExpr{span: span{ident, p.previous()}, Args: args}, nil

	case p.match(TokenLeftParen):
		start := p.previous()

		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		end, err := p.consume(TokenRightParen)
		if err != nil {
			return nil, err
		}

		return &GroupingExpr{span: span{start, end}, Expr: expr}, nil

	case p.match(TokenLeftBracket):
		start := p.previous()

		elems, err := p.args(TokenRightBracket)
		if err != nil {
			return nil, err
		}

		return &ListExpr{span: span{start, p.previous()}, Elements: elems}, nil

	case p.match(TokenDollar):
		ident, err := p.consume(TokenIdentifier)
		if err != nil {
			return nil, err
		}

		return &VariableExpr{span: span{ident, ident}}, nil
	}

	tok := p.peek()

	return nil, parserError(tok, "Unexpected token %s", tok.Name())
}
