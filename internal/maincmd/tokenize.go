package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/loxlang/lox/lang/token"
)

// Tokenize runs the lexer over args[0] and prints one line per token,
// useful for debugging the scanner independently of the rest of the
// pipeline.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	if len(args) == 0 {
		printError(stdio, fmt.Errorf("tokenize: a script path is required"))
		return exitUsageError
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		printError(stdio, fmt.Errorf("can't read file %q: %w", args[0], err))
		return exitIOError
	}

	var hadError bool
	var s scanner.Scanner
	s.Init(src, func(line int, msg string) {
		hadError = true
		fmt.Fprintf(stdio.Stderr, "[line %d] Error: %s\n", line, msg)
	})

	for {
		tok := s.Scan()
		fmt.Fprintf(stdio.Stdout, "%4d %-14s '%s'\n", tok.Line, tok.Kind, tok.Lexeme)
		if tok.Kind == token.EOF {
			break
		}
	}
	if hadError {
		return exitCompileError
	}
	return mainer.Success
}
