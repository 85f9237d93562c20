package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"plcc/report"
)

// Lexer is responsible for tokenizing the text of an expression or a type
// reference.  Keywords are case-insensitive.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer reading from r.  Positions are counted from
// origin, the position of the first rune of the text, which may be nil.
func NewLexer(r *bufio.Reader, origin *report.TextSpan) *Lexer {
	l := &Lexer{
		file:    r,
		tokBuff: &strings.Builder{},
	}

	if origin != nil {
		l.line = origin.StartLine
		l.col = origin.StartCol
	}

	return l
}

// NextToken retrieves the next token from the input.  If the input has ended,
// this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '(':
			if tok, err := l.lexCommentOrParen(); tok != nil || err != nil {
				return tok, err
			}
		default:
			if isDecimalDigit(c) {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+":  TOK_PLUS,
	"-":  TOK_MINUS,
	"*":  TOK_STAR,
	"/":  TOK_DIV,
	")":  TOK_RPAREN,
	",":  TOK_COMMA,
	"..": TOK_RANGETO,
}

// lexPunctOrOper lexes a punctuation or operator symbol.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		if _, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
			l.eat()
		} else {
			break
		}
	}

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "unknown symbol `%s`", l.tokBuff.String())
	}

	return l.makeToken(kind), nil
}

// lexCommentOrParen lexes a `(* ... *)` comment or an opening parenthesis.
// Comments produce no token.
func (l *Lexer) lexCommentOrParen() (*Token, error) {
	l.mark()
	l.eat()

	c, err := l.peek()
	if err != nil {
		return nil, err
	} else if c != '*' {
		return l.makeToken(TOK_LPAREN), nil
	}

	l.tokBuff.Reset()
	l.skip()

	for {
		c, err = l.skip()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(report.SyntaxError, l.getSpan(), "unclosed comment")
		case '*':
			c, err = l.peek()
			if err != nil {
				return nil, err
			} else if c == ')' {
				l.skip()
				return nil, nil
			}
		}
	}
}

// -----------------------------------------------------------------------------

// keywordPatterns maps upper-cased keyword strings to their token kind.
var keywordPatterns = map[string]int{
	"NOT":    TOK_NOT,
	"REF_TO": TOK_REFTO,
	"TRUE":   TOK_BOOLLIT,
	"FALSE":  TOK_BOOLLIT,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	if kind, ok := keywordPatterns[strings.ToUpper(l.tokBuff.String())]; ok {
		tok := l.makeToken(kind)
		tok.Value = strings.ToUpper(tok.Value)
		return tok, nil
	}

	return l.makeToken(TOK_IDENT), nil
}

// -----------------------------------------------------------------------------

// lexNumericLit lexes an integer or real literal.  Underscores may be used to
// separate digits and are kept in the token value.  A `.` followed by another
// `.` is a range and ends the literal.
func (l *Lexer) lexNumericLit() (*Token, error) {
	l.mark()
	l.eat()

	isReal, hasExp, mustHaveDigit := false, false, false

numLexLoop:
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch {
		case isDecimalDigit(c):
			l.eat()
			mustHaveDigit = false
		case c == '_':
			if mustHaveDigit {
				break numLexLoop
			}

			l.eat()
		case c == '.':
			if isReal || mustHaveDigit {
				break numLexLoop
			}

			next, err := l.peekSecond()
			if err != nil {
				return nil, err
			} else if next == '.' {
				break numLexLoop
			}

			l.eat()
			isReal = true
			mustHaveDigit = true
		case c == 'e' || c == 'E':
			if hasExp || mustHaveDigit {
				break numLexLoop
			}

			l.eat()
			isReal = true
			hasExp = true
			mustHaveDigit = true

			if c, err = l.peek(); err != nil {
				return nil, err
			} else if c == '+' || c == '-' {
				l.eat()
			}
		default:
			break numLexLoop
		}
	}

	if mustHaveDigit {
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "incomplete numeric literal `%s`", l.tokBuff.String())
	}

	if isReal {
		return l.makeToken(TOK_REALLIT), nil
	}

	return l.makeToken(TOK_INTLIT), nil
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, err := l.skip()
	if err == nil && c != -1 {
		l.tokBuff.WriteRune(c)
	}

	return c, err
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)
	return c, nil
}

// peek returns the next rune without moving the lexer forward.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// peekSecond returns the rune after the next one.  It is only used to look past
// an ASCII `.`, so a single byte of lookahead suffices.
func (l *Lexer) peekSecond() (rune, error) {
	buf, err := l.file.Peek(2)
	if len(buf) < 2 {
		if err == nil || err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	return rune(buf[1]), nil
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}
