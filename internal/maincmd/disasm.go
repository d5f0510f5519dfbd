package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"
	"github.com/loxlang/lox/lang/compiler"
)

// Disassemble compiles args[0] and prints its bytecode listing instead
// of running it, recursing into every nested function's Funcode found in
// the constant pool so a single invocation shows the whole program.
func (c *Cmd) Disassemble(ctx context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	if len(args) == 0 {
		printError(stdio, fmt.Errorf("disassemble: a script path is required"))
		return exitUsageError
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		printError(stdio, fmt.Errorf("can't read file %q: %w", args[0], err))
		return exitIOError
	}

	fn, err := compiler.Compile(src)
	if err != nil {
		printError(stdio, err)
		return exitCompileError
	}

	disassembleRecursive(stdio.Stdout, fn)
	return mainer.Success
}

func disassembleRecursive(w io.Writer, fn *compiler.Funcode) {
	name := fn.Name
	if name == "" {
		name = "<script>"
	}
	compiler.Disassemble(w, fn, name)
	for _, c := range fn.Constants {
		if nested, ok := c.(*compiler.Funcode); ok {
			fmt.Fprintln(w)
			disassembleRecursive(w, nested)
		}
	}
}
