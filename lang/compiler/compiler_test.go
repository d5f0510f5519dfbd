package compiler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxlang/lox/lang/compiler"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *compiler.Funcode {
	t.Helper()
	fn, err := compiler.Compile([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, fn)
	return fn
}

func disasm(t *testing.T, fn *compiler.Funcode) string {
	t.Helper()
	var buf bytes.Buffer
	compiler.Disassemble(&buf, fn, fn.Name)
	return buf.String()
}

func TestCompileLiteralsAndPrint(t *testing.T) {
	fn := mustCompile(t, `print 1 + 2;`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_CONSTANT")
	require.Contains(t, out, "OP_ADD")
	require.Contains(t, out, "OP_PRINT")
	require.Contains(t, out, "OP_RETURN")
}

func TestCompileVarDeclAndGlobals(t *testing.T) {
	fn := mustCompile(t, `var x = 1; x = 2; print x;`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_DEFINE_GLOBAL")
	require.Contains(t, out, "OP_SET_GLOBAL")
	require.Contains(t, out, "OP_GET_GLOBAL")
}

func TestCompileLocalsDoNotEmitGlobalOps(t *testing.T) {
	fn := mustCompile(t, `{ var x = 1; x = 2; print x; }`)
	out := disasm(t, fn)
	require.NotContains(t, out, "OP_DEFINE_GLOBAL")
	require.Contains(t, out, "OP_GET_LOCAL")
	require.Contains(t, out, "OP_SET_LOCAL")
}

func TestCompileIfElse(t *testing.T) {
	fn := mustCompile(t, `if (true) { print 1; } else { print 2; }`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_JUMP_IF_FALSE")
	require.Contains(t, out, "OP_JUMP")
}

func TestCompileWhileLoop(t *testing.T) {
	fn := mustCompile(t, `var i = 0; while (i < 5) { i = i + 1; }`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_LOOP")
	require.Contains(t, out, "OP_JUMP_IF_FALSE")
}

func TestCompileForLoopDesugars(t *testing.T) {
	fn := mustCompile(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_LOOP")
}

func TestCompileFunctionAndClosure(t *testing.T) {
	fn := mustCompile(t, `
		fun outer() {
			var x = 1;
			fun inner() { return x; }
			return inner;
		}
	`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_CLOSURE")

	var nested *compiler.Funcode
	for _, c := range fn.Constants {
		if f, ok := c.(*compiler.Funcode); ok && f.Name == "outer" {
			nested = f
		}
	}
	require.NotNil(t, nested)
	require.Equal(t, 0, nested.Arity)

	var innerFn *compiler.Funcode
	for _, c := range nested.Constants {
		if f, ok := c.(*compiler.Funcode); ok && f.Name == "inner" {
			innerFn = f
		}
	}
	require.NotNil(t, innerFn)
	require.Len(t, innerFn.Upvalues, 1)
	require.True(t, innerFn.Upvalues[0].IsLocal)
}

func TestCompileClassWithMethodsAndInit(t *testing.T) {
	fn := mustCompile(t, `
		class Greeter {
			init(name) { this.name = name; }
			hello() { print this.name; }
		}
	`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_CLASS")
	require.Contains(t, out, "OP_METHOD")

	var class *compiler.Funcode
	for _, c := range fn.Constants {
		if f, ok := c.(*compiler.Funcode); ok && (f.Name == "init" || f.Name == "hello") {
			class = f
		}
	}
	require.NotNil(t, class)
}

func TestCompileInheritanceAndSuper(t *testing.T) {
	fn := mustCompile(t, `
		class A { greet() { print "a"; } }
		class B < A {
			greet() {
				super.greet();
				print "b";
			}
		}
	`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_INHERIT")
	require.Contains(t, out, "OP_SUPER_INVOKE")
}

func TestCompileSelfInheritanceIsError(t *testing.T) {
	_, err := compiler.Compile([]byte(`class A < A {}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "inherit from itself")
}

func TestCompileReturnFromTopLevelIsError(t *testing.T) {
	_, err := compiler.Compile([]byte(`return 1;`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "top-level")
}

func TestCompileReturnValueFromInitializerIsError(t *testing.T) {
	_, err := compiler.Compile([]byte(`
		class A { init() { return 1; } }
	`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "initializer")
}

func TestCompileThisOutsideClassIsError(t *testing.T) {
	_, err := compiler.Compile([]byte(`print this;`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "'this'")
}

func TestCompileInvalidAssignmentTargetIsError(t *testing.T) {
	_, err := compiler.Compile([]byte(`1 + 2 = 3;`))
	require.Error(t, err)
}

func TestCompileMultipleErrorsAreAllReported(t *testing.T) {
	_, err := compiler.Compile([]byte(`
		print this;
		return 1;
	`))
	require.Error(t, err)
	lines := strings.Split(err.Error(), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
}

func TestCompileAndOrShortCircuit(t *testing.T) {
	fn := mustCompile(t, `print true and false or true;`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_JUMP_IF_FALSE")
	require.Contains(t, out, "OP_JUMP")
}

func TestCompileCallAndMethodInvoke(t *testing.T) {
	fn := mustCompile(t, `
		class C { m() { return 1; } }
		var c = C();
		c.m();
	`)
	out := disasm(t, fn)
	require.Contains(t, out, "OP_INVOKE")
}
