package syntax

import (
	"bufio"
	"strings"

	"plcc/ast"
	"plcc/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is a recursive descent parser for the expression and type reference
// text embedded in declaration manifests: array bounds, initializers and
// member types.  All parsing functions assume that they begin with the parser
// centered on the first token of their production and must consume all tokens
// of their production, leaving the parser on the next token.
type Parser struct {
	// lexer is the Lexer this parser is using to lex the text.
	lexer *Lexer

	// tok is the current token the parser is positioned on.
	tok *Token
}

// NewParser creates a new parser for the given text.  The origin is the
// position the text begins at in its file and may be nil.
func NewParser(text string, origin *report.TextSpan) *Parser {
	return &Parser{
		lexer: NewLexer(bufio.NewReader(strings.NewReader(text)), origin),
	}
}

// ParseExpr parses a comma separated list of expressions.  A list containing a
// single expression is returned as that expression.
func ParseExpr(text string, origin *report.TextSpan) (ast.Expr, error) {
	p := NewParser(text, origin)
	if err := p.next(); err != nil {
		return nil, err
	}

	expr, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	if err := p.assert(TOK_EOF); err != nil {
		return nil, err
	}

	return expr, nil
}

// ParseTypeRef parses a type reference.
func ParseTypeRef(text string, origin *report.TextSpan) (*ast.TypeRef, error) {
	p := NewParser(text, origin)
	if err := p.next(); err != nil {
		return nil, err
	}

	ref, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}

	if err := p.assert(TOK_EOF); err != nil {
		return nil, err
	}

	return ref, nil
}

// -----------------------------------------------------------------------------

// type_ref := ['REF_TO'] 'IDENT' ;
func (p *Parser) parseTypeRef() (*ast.TypeRef, error) {
	start := p.tok.Span

	isRef := p.got(TOK_REFTO)
	if isRef {
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if err := p.assert(TOK_IDENT); err != nil {
		return nil, err
	}

	ref := &ast.TypeRef{
		ASTBase: ast.NewASTBaseOver(start, p.tok.Span),
		Name:    p.tok.Value,
		IsRef:   isRef,
	}

	return ref, p.next()
}

// expr_list := range_expr {',' range_expr} ;
func (p *Parser) parseExprList() (ast.Expr, error) {
	first, err := p.parseRangeExpr()
	if err != nil {
		return nil, err
	}

	if !p.got(TOK_COMMA) {
		return first, nil
	}

	exprs := []ast.Expr{first}
	for p.got(TOK_COMMA) {
		if err := p.next(); err != nil {
			return nil, err
		}

		expr, err := p.parseRangeExpr()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, expr)
	}

	return &ast.ExprList{
		ASTBase: ast.NewASTBaseOver(first.Span(), exprs[len(exprs)-1].Span()),
		Exprs:   exprs,
	}, nil
}

// range_expr := additive ['..' additive] ;
func (p *Parser) parseRangeExpr() (ast.Expr, error) {
	start, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if !p.got(TOK_RANGETO) {
		return start, nil
	}

	if err := p.next(); err != nil {
		return nil, err
	}

	end, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	return &ast.Range{
		ASTBase: ast.NewASTBaseOver(start.Span(), end.Span()),
		Start:   start,
		End:     end,
	}, nil
}

// additive := term {('+' | '-') term} ;
func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.parseBinaryLevel(p.parseTerm, map[int]int{TOK_PLUS: ast.OpAdd, TOK_MINUS: ast.OpSub})
}

// term := unary {('*' | '/') unary} ;
func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.parseBinaryLevel(p.parseUnary, map[int]int{TOK_STAR: ast.OpMul, TOK_DIV: ast.OpDiv})
}

// parseBinaryLevel parses a left associative chain of binary operators of the
// same precedence.
func (p *Parser) parseBinaryLevel(operand func() (ast.Expr, error), ops map[int]int) (ast.Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := ops[p.tok.Kind]
		if !ok {
			return lhs, nil
		}

		if err := p.next(); err != nil {
			return nil, err
		}

		rhs, err := operand()
		if err != nil {
			return nil, err
		}

		lhs = &ast.BinaryOp{
			ASTBase: ast.NewASTBaseOver(lhs.Span(), rhs.Span()),
			Op:      op,
			Lhs:     lhs,
			Rhs:     rhs,
		}
	}
}

// unary := ('+' | '-' | 'NOT') unary | atom ;
func (p *Parser) parseUnary() (ast.Expr, error) {
	var op int
	switch p.tok.Kind {
	case TOK_PLUS:
		op = ast.OpAdd
	case TOK_MINUS:
		op = ast.OpSub
	case TOK_NOT:
		op = ast.OpNot
	default:
		return p.parseAtom()
	}

	start := p.tok.Span
	if err := p.next(); err != nil {
		return nil, err
	}

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &ast.UnaryOp{
		ASTBase: ast.NewASTBaseOver(start, operand.Span()),
		Op:      op,
		Operand: operand,
	}, nil
}

// atom := 'INTLIT' | 'REALLIT' | 'BOOLLIT' | 'IDENT' | '(' range_expr ')' ;
func (p *Parser) parseAtom() (ast.Expr, error) {
	var expr ast.Expr

	switch p.tok.Kind {
	case TOK_INTLIT:
		expr = &ast.Literal{ASTBase: ast.NewASTBaseOn(p.tok.Span), Kind: ast.LitInt, Value: p.tok.Value}
	case TOK_REALLIT:
		expr = &ast.Literal{ASTBase: ast.NewASTBaseOn(p.tok.Span), Kind: ast.LitReal, Value: p.tok.Value}
	case TOK_BOOLLIT:
		expr = &ast.Literal{ASTBase: ast.NewASTBaseOn(p.tok.Span), Kind: ast.LitBool, Value: p.tok.Value}
	case TOK_IDENT:
		expr = &ast.Identifier{ASTBase: ast.NewASTBaseOn(p.tok.Span), Name: p.tok.Value}
	case TOK_LPAREN:
		if err := p.next(); err != nil {
			return nil, err
		}

		inner, err := p.parseRangeExpr()
		if err != nil {
			return nil, err
		}

		if err := p.assert(TOK_RPAREN); err != nil {
			return nil, err
		}

		expr = inner
	default:
		return nil, p.reject()
	}

	return expr, p.next()
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}

	p.tok = tok
	return nil
}

// got returns true if the parser is on a token of a given kind.
func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

// assert checks if the parser is on a token of a given kind and rejects the
// token if not.
func (p *Parser) assert(kind int) error {
	if p.got(kind) {
		return nil
	}

	return p.reject()
}

// reject returns an unexpected token error on the current token.
func (p *Parser) reject() error {
	if p.got(TOK_EOF) {
		return report.Raise(report.SyntaxError, p.tok.Span, "unexpected end of text")
	}

	return report.Raise(report.SyntaxError, p.tok.Span, "unexpected token: `%s`", p.tok.Value)
}
