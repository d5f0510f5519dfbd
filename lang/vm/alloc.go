package vm

import "github.com/loxlang/lox/lang/compiler"

// Rough per-object accounting units fed to gcState.track; Go does not
// expose real allocation sizes, so these are nominal weights (bigger for
// objects with more fields) good enough to drive the heap-growth
// heuristic collectGarbage uses.
const (
	sizeString      = 32
	sizeFunction    = 48
	sizeClosure     = 32
	sizeUpvalue     = 24
	sizeNative      = 32
	sizeClass       = 48
	sizeInstance    = 48
	sizeBoundMethod = 32
)

// internString returns the canonical *String for chars, allocating one
// only the first time chars is seen. Every subsequent literal or
// computed string with the same bytes returns the same pointer, which is
// what lets valuesEqual compare strings with a plain `==`.
func (th *Thread) internString(chars string) *String {
	hash := hashString(chars)
	if s := th.gc.strings.findString(chars, hash); s != nil {
		return s
	}
	s := &String{chars: chars, hash: hash}
	th.gc.track(&s.objHeader, s, sizeString+len(chars))
	th.gc.strings.Set(s, Nil{})
	return s
}

func (th *Thread) newFunction(fc *compiler.Funcode) *Function {
	fn := &Function{Funcode: fc}
	th.gc.track(&fn.objHeader, fn, sizeFunction)
	return fn
}

func (th *Thread) newClosure(fn *Function, upvalues []*Upvalue) *Closure {
	c := &Closure{Fn: fn, Upvalues: upvalues}
	th.gc.track(&c.objHeader, c, sizeClosure)
	return c
}

func (th *Thread) newUpvalue(stackIndex int) *Upvalue {
	uv := &Upvalue{Index: stackIndex, Open: true}
	th.gc.track(&uv.objHeader, uv, sizeUpvalue)
	return uv
}

func (th *Thread) newNative(name string, fn func(*Thread, []Value) (Value, error)) *Native {
	n := &Native{Name: name, Fn: fn}
	th.gc.track(&n.objHeader, n, sizeNative)
	return n
}

func (th *Thread) newClass(name string) *Class {
	c := newClass(name)
	th.gc.track(&c.objHeader, c, sizeClass)
	return c
}

func (th *Thread) newInstance(class *Class) *Instance {
	i := newInstance(class)
	th.gc.track(&i.objHeader, i, sizeInstance)
	return i
}

func (th *Thread) newBoundMethod(receiver Value, method *Closure) *BoundMethod {
	b := &BoundMethod{Receiver: receiver, Method: method}
	th.gc.track(&b.objHeader, b, sizeBoundMethod)
	return b
}
