package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/loxlang/lox/lang/compiler"
	"github.com/loxlang/lox/lang/vm"
)

// Run compiles and executes the script named by args[0], or starts an
// interactive REPL if no path is given.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	if len(args) == 0 {
		return c.repl(ctx, stdio)
	}
	return c.runFile(stdio, args[0])
}

func (c *Cmd) runFile(stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		printError(stdio, fmt.Errorf("can't read file %q: %w", path, err))
		return exitIOError
	}

	fn, err := compiler.Compile(src)
	if err != nil {
		printError(stdio, err)
		return exitCompileError
	}

	th := vm.NewThread()
	th.Stdout = stdio.Stdout
	th.Stderr = stdio.Stderr
	if err := th.Interpret(fn); err != nil {
		printError(stdio, err)
		return exitRuntimeError
	}
	return mainer.Success
}

// repl runs a read-eval-print loop, one line of Lox at a time, sharing a
// single Thread (and therefore a single global environment) across
// lines, the way the book's clox REPL does.
func (c *Cmd) repl(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	th := vm.NewThread()
	th.Stdout = stdio.Stdout
	th.Stderr = stdio.Stderr

	scan := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		select {
		case <-ctx.Done():
			return mainer.Success
		default:
		}
		if !scan.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return mainer.Success
		}
		line := scan.Text()
		if line == "" {
			continue
		}

		fn, err := compiler.Compile([]byte(line))
		if err != nil {
			printError(stdio, err)
			continue
		}
		if err := th.Interpret(fn); err != nil {
			printError(stdio, err)
		}
	}
}
