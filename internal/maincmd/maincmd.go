package maincmd

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "lox"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<command>] [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<command>] [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and bytecode virtual machine for the Lox programming language.

With no command and no path, starts an interactive REPL. With a path and
no command, compiles and runs that script.

The <command> can be one of:
       run                       Compile and run the given script (the
                                 default when only a path is given).
       tokenize                  Run the lexer over the given script and
                                 print its tokens, one per line.
       disassemble               Compile the given script and print its
                                 bytecode listing instead of running it.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Exit status is 0 on success, 64 on a command-line usage error, 65 if the
script fails to compile, 70 if it raises a runtime error, and 74 if the
script file cannot be read.
`, binName)
)

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args  []string
	cmdFn func(context.Context, mainer.Stdio, []string) mainer.ExitCode
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	cmdName := "run"
	rest := c.args
	if len(c.args) > 0 {
		if _, isCmd := buildCmds(c)[c.args[0]]; isCmd {
			cmdName = c.args[0]
			rest = c.args[1:]
		}
	}
	if len(rest) > 1 {
		return fmt.Errorf("%s: at most one script path may be given", cmdName)
	}

	commands := buildCmds(c)
	fn := commands[cmdName]
	if fn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	c.args = rest
	c.cmdFn = func(ctx context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
		return fn(c, ctx, stdio, args)
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return exitUsageError
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	return c.cmdFn(ctx, stdio, c.args)
}

// Exit codes follow the BSD sysexits.h convention clox itself uses: 64
// for a command-line usage error, 65 when the script fails to compile,
// 70 for an uncaught runtime error, 74 when the script file can't be
// read.
const (
	exitUsageError    mainer.ExitCode = 64
	exitCompileError  mainer.ExitCode = 65
	exitRuntimeError  mainer.ExitCode = 70
	exitIOError       mainer.ExitCode = 74
)

func printError(stdio mainer.Stdio, err error) {
	fmt.Fprintf(stdio.Stderr, "%s\n", err)
}

// buildCmds reflects over v's methods to find the ones matching the
// (receiver, context.Context, mainer.Stdio, []string) -> mainer.ExitCode
// shape, keyed by lower-cased method name, exactly as the upstream CLI
// this one is adapted from does for its own subcommands.
func buildCmds(v interface{}) map[string]func(*Cmd, context.Context, mainer.Stdio, []string) mainer.ExitCode {
	cmds := make(map[string]func(*Cmd, context.Context, mainer.Stdio, []string) mainer.ExitCode)

	vt := reflect.TypeOf(v)
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Name() != "ExitCode" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		name := strings.ToLower(m.Name)
		fn := m.Func
		cmds[name] = func(c *Cmd, ctx context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
			out := fn.Call([]reflect.Value{reflect.ValueOf(c), reflect.ValueOf(ctx), reflect.ValueOf(stdio), reflect.ValueOf(args)})
			return out[0].Interface().(mainer.ExitCode)
		}
	}
	return cmds
}
