// Package scanner implements the lexer: a simple longest-match tokenizer
// that produces a lazy sequence of tokens from Lox source text. It has no
// knowledge of the grammar beyond individual lexemes.
package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/loxlang/lox/lang/token"
)

// ErrorHandler is called for every lexical error encountered while
// scanning. line is the 1-based source line where the error starts.
type ErrorHandler func(line int, msg string)

// Scanner tokenizes a single source buffer for the compiler to consume one
// token at a time via Scan.
type Scanner struct {
	src []byte
	err ErrorHandler

	cur  rune // current character, -1 at end of file
	off  int  // byte offset of cur
	roff int  // byte offset just past cur
	line int  // line of cur
}

// Init prepares the scanner to tokenize src from the beginning.
func (s *Scanner) Init(src []byte, errHandler ErrorHandler) {
	s.src = src
	s.err = errHandler
	s.off = 0
	s.roff = 0
	s.line = 1
	s.cur = ' '
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) match(want byte) bool {
	if s.cur == rune(want) {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(line int, msg string) {
	if s.err != nil {
		s.err(line, msg)
	}
}

// Scan returns the next token from the source. EOF is sticky: once reached,
// every subsequent call returns another EOF token.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespaceAndComments()

	start := s.off
	line := s.line

	switch cur := s.cur; {
	case cur == -1:
		return token.Token{Kind: token.EOF, Line: line}

	case isAlpha(cur):
		for isAlpha(s.cur) || isDigit(s.cur) {
			s.advance()
		}
		lit := string(s.src[start:s.off])
		kind := token.IDENT
		if kw, ok := token.Keywords[lit]; ok {
			kind = kw
		}
		return token.Token{Kind: kind, Lexeme: lit, Line: line}

	case isDigit(cur):
		return s.number(start, line)

	case cur == '"':
		return s.string(start, line)
	}

	ch := s.cur
	s.advance()
	mk := func(k token.Kind) token.Token {
		return token.Token{Kind: k, Lexeme: string(s.src[start:s.off]), Line: line}
	}
	switch ch {
	case '(':
		return mk(token.LPAREN)
	case ')':
		return mk(token.RPAREN)
	case '{':
		return mk(token.LBRACE)
	case '}':
		return mk(token.RBRACE)
	case ',':
		return mk(token.COMMA)
	case '.':
		return mk(token.DOT)
	case '-':
		return mk(token.MINUS)
	case '+':
		return mk(token.PLUS)
	case ';':
		return mk(token.SEMICOLON)
	case '*':
		return mk(token.STAR)
	case '/':
		return mk(token.SLASH)
	case '!':
		if s.match('=') {
			return mk(token.BANG_EQUAL)
		}
		return mk(token.BANG)
	case '=':
		if s.match('=') {
			return mk(token.EQUAL_EQUAL)
		}
		return mk(token.EQUAL)
	case '<':
		if s.match('=') {
			return mk(token.LESS_EQUAL)
		}
		return mk(token.LESS)
	case '>':
		if s.match('=') {
			return mk(token.GREATER_EQUAL)
		}
		return mk(token.GREATER)
	}

	s.error(line, "unexpected character")
	return token.Token{Kind: token.ILLEGAL, Lexeme: "unexpected character", Line: line}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.cur {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peek() != '/' {
				return
			}
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) number(start, line int) token.Token {
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(rune(s.peek())) {
		s.advance() // consume '.'
		for isDigit(s.cur) {
			s.advance()
		}
	}
	return token.Token{Kind: token.NUMBER, Lexeme: string(s.src[start:s.off]), Line: line}
}

// string scans a (possibly multi-line) string literal; the opening quote is
// at s.cur on entry.
func (s *Scanner) string(start, line int) token.Token {
	s.advance() // consume opening quote
	var sb strings.Builder
	for s.cur != '"' && s.cur != -1 {
		sb.WriteRune(s.cur)
		s.advance()
	}
	if s.cur == -1 {
		s.error(line, "unterminated string")
		return token.Token{Kind: token.ILLEGAL, Lexeme: "unterminated string", Line: line}
	}
	s.advance() // consume closing quote
	return token.Token{Kind: token.STRING, Lexeme: sb.String(), Line: line}
}

func isAlpha(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
