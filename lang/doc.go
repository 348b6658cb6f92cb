// Package lang implements BEXL, a small expression language for business
// rules. An expression is lexed into tokens, parsed into a syntax tree and
// interpreted against a registry of operators and functions and a set of
// caller-supplied variables.
//
// # Grammar
//
// Informal EBNF, lowest precedence first:
//
//	expr       → boolean
//	boolean    → comparison (('&' | '|' | '^') comparison)*
//	comparison → term (('==' | '!=' | '<' | '<=' | '>' | '>=') term)*
//	term       → factor (('+' | '-') factor)*
//	factor     → unary (('/' | '*' | '**' | '%') unary)*
//	unary      → ('!' | '-') unary | postfix
//	postfix    → primary ('[' index ']' | '.' IDENT)*
//	index      → expr | expr? ':' expr?
//	primary    → INTEGER | FLOAT | STRING | 'True' | 'False' | 'Null'
//	           | IDENT '(' args? ')' | '(' expr ')' | '[' args? ']'
//	           | '$' IDENT
//	args       → expr (',' expr)*
//
// Strings are single-quoted; a quote inside a string is escaped as \'.
// Binary operators of equal precedence associate to the left, and every
// operand is evaluated before the operator is applied.
//
// # Types
//
// Every [Value] has one of the types UNTYPED, STRING, FLOAT, INTEGER,
// BOOLEAN, DATE, TIME, DATETIME, LIST or RECORD, and any type may be null.
// Operators and functions select an implementation by the exact types of
// their arguments; see [Dispatcher].
//
// # Example
//
//	v, err := lang.Evaluate(ctx, `round($price * 1.08, 2) > 100`,
//	    lang.WithVariables(map[string]any{"price": 95.5}),
//	)
//
// Errors match [ErrBEXL] and one of its kinds with errors.Is. Use
// [FormatError] to render an error beneath the offending source.
package lang
