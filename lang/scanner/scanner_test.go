package scanner_test

import (
	"testing"

	"github.com/loxlang/lox/lang/scanner"
	"github.com/loxlang/lox/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()
	var errs []string
	var s scanner.Scanner
	s.Init([]byte(src), func(line int, msg string) {
		errs = append(errs, msg)
	})

	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, errs
}

func TestScanPunctAndOperators(t *testing.T) {
	toks, errs := scanAll(t, "(){},.-+;*/!!====<<=>>=")
	require.Empty(t, errs)
	want := []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR,
		token.SLASH, token.BANG, token.BANG_EQUAL, token.EQUAL_EQUAL,
		token.EQUAL, token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		require.Equalf(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks, errs := scanAll(t, "var x = nil; fun f() { print x; } class C {}")
	require.Empty(t, errs)
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Contains(t, kinds, token.VAR)
	require.Contains(t, kinds, token.IDENT)
	require.Contains(t, kinds, token.NIL)
	require.Contains(t, kinds, token.FUN)
	require.Contains(t, kinds, token.PRINT)
	require.Contains(t, kinds, token.CLASS)
}

func TestScanNumbers(t *testing.T) {
	toks, errs := scanAll(t, "123 3.14 0.5 7.")
	require.Empty(t, errs)
	require.Equal(t, "123", toks[0].Lexeme)
	require.Equal(t, "3.14", toks[1].Lexeme)
	require.Equal(t, "0.5", toks[2].Lexeme)
	// trailing dot with no following digit is NOT part of the number
	require.Equal(t, "7", toks[3].Lexeme)
	require.Equal(t, token.DOT, toks[4].Kind)
}

func TestScanStrings(t *testing.T) {
	toks, errs := scanAll(t, `"hello world" "multi
line"`)
	require.Empty(t, errs)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].Lexeme)
	require.Equal(t, "multi\nline", toks[1].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	toks, errs := scanAll(t, `"oops`)
	require.Len(t, errs, 1)
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
}

func TestScanLineComment(t *testing.T) {
	toks, errs := scanAll(t, "1 // a comment\n2")
	require.Empty(t, errs)
	require.Equal(t, "1", toks[0].Lexeme)
	require.Equal(t, "2", toks[1].Lexeme)
	require.Equal(t, 2, toks[1].Line)
}

func TestScanLineTracking(t *testing.T) {
	toks, _ := scanAll(t, "1\n2\n\n3")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 4, toks[2].Line)
}

func TestEOFIsSticky(t *testing.T) {
	var s scanner.Scanner
	s.Init([]byte(""), nil)
	require.Equal(t, token.EOF, s.Scan().Kind)
	require.Equal(t, token.EOF, s.Scan().Kind)
}
