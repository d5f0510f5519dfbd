package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxlang/lox/internal/difftest"
	"github.com/loxlang/lox/lang/compiler"
	"github.com/loxlang/lox/lang/vm"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	fn, err := compiler.Compile([]byte(src))
	require.NoError(t, err)

	var out bytes.Buffer
	th := vm.NewThread()
	th.Stdout = &out
	th.Stderr = &out
	runErr := th.Interpret(fn)
	return out.String(), runErr
}

func TestEndToEndArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3; print (1 + 2) * 3;`)
	require.NoError(t, err)
	difftest.Equal(t, "stdout", "7\n9\n", out)
}

func TestEndToEndStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	difftest.Equal(t, "stdout", "foobar\n", out)
}

func TestEndToEndGlobalsAndLocals(t *testing.T) {
	out, err := run(t, `
		var greeting = "hi";
		{
			var greeting = "bye";
			print greeting;
		}
		print greeting;
	`)
	require.NoError(t, err)
	difftest.Equal(t, "stdout", "bye\nhi\n", out)
}

func TestEndToEndControlFlow(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			if (i == 1) {
				print "one";
			} else {
				print i;
			}
		}
	`)
	require.NoError(t, err)
	difftest.Equal(t, "stdout", "0\none\n2\n", out)
}

func TestEndToEndClosures(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	require.NoError(t, err)
	difftest.Equal(t, "stdout", "1\n2\n", out)
}

func TestEndToEndClassesInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class Animal {
			init(name) {
				this.name = name;
			}
			speak() {
				print this.name + " makes a sound.";
			}
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print this.name + " barks.";
			}
		}
		var d = Dog("Rex");
		d.speak();
	`)
	require.NoError(t, err)
	difftest.Equal(t, "stdout", "Rex makes a sound.\nRex barks.\n", out)
}

func TestEndToEndRuntimeErrorUndefinedVariable(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined variable 'nope'")
}

func TestEndToEndRuntimeErrorTypeMismatch(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "operands must be two numbers or two strings")
}

func TestEndToEndRuntimeErrorStackTrace(t *testing.T) {
	_, err := run(t, `
		fun a() { b(); }
		fun b() { c(); }
		fun c() { c_undefined(); }
		a();
	`)
	require.Error(t, err)
	lines := strings.Split(err.Error(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	require.Contains(t, err.Error(), "in c()")
	require.Contains(t, err.Error(), "in b()")
	require.Contains(t, err.Error(), "in a()")
	require.Contains(t, err.Error(), "in script")
}

func TestEndToEndClockNativeReturnsNumber(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	difftest.Equal(t, "stdout", "true\n", out)
}
