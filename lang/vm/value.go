// Package vm implements the value model, heap object graph, hash table,
// garbage collector and bytecode interpreter for Lox. It consumes the
// compiler.Funcode produced by lang/compiler and turns it into running
// programs.
package vm

import "fmt"

// Value is the interface implemented by every value the VM can hold on its
// stack, store in a local slot, or put in a Table. Nil, Bool and Number are
// plain Go values compared by Go's native `==`, which already gives them
// value semantics; every heap-allocated kind (String, Function, Closure,
// Class, Instance, ...) is represented by a pointer type, so the same `==`
// on the Value interface gives reference-identity semantics for them
// without any bespoke Equals method. valuesEqual below is just that
// comparison; for Number it is IEEE `==`, so NaN is not equal to itself.
type Value interface {
	// Type returns a short name for the value's kind ("number", "string",
	// "function", ...).
	Type() string
	String() string
}

// Nil is Lox's nil value. There is exactly one Nil value in the sense that
// every Nil{} compares equal to every other, which is already true of the
// empty struct under Go's `==`.
type Nil struct{}

func (Nil) Type() string   { return "nil" }
func (Nil) String() string { return "nil" }

// Bool is Lox's boolean value.
type Bool bool

func (Bool) Type() string     { return "boolean" }
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }

// Number is Lox's only numeric type, a double-precision float.
type Number float64

func (Number) Type() string { return "number" }
func (n Number) String() string {
	f := float64(n)
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// isFalsey implements Lox's truthiness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func isFalsey(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return true
	case Bool:
		return !bool(v)
	default:
		return false
	}
}

// valuesEqual implements Lox's `==`. Values of different dynamic types are
// never equal. Two heap objects are equal only if they are the same
// object (or, for strings, interned to the same object through
// Table.findString) — so this is a plain `==` on the interface. Numbers
// compare with Go's float64 `==`, which already makes NaN unequal to
// everything, itself included, so no special case is needed. It is kept as a named
// function so call sites read like the language spec rather than raw Go
// operator soup.
func valuesEqual(a, b Value) bool {
	return a == b
}
