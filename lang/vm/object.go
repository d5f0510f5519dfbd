package vm

import (
	"fmt"

	"github.com/loxlang/lox/lang/compiler"
)

// objHeader is the header every heap-allocated value embeds, standing in
// for the tagged union header of a C implementation: it links the object
// into the GC's all-objects list and carries the mark bit the collector
// flips during the mark phase. Embedding it gives every object type an
// object() method for free through Go's method promotion, so the
// collector can walk a homogeneous list of *objHeader regardless of the
// concrete type behind it.
type objHeader struct {
	marked bool
	next   *objHeader
	self   any // the concrete *String / *Closure / ... holding this header
}

func (h *objHeader) object() *objHeader { return h }

type heapObject interface {
	object() *objHeader
}

// String is Lox's interned string type. Two String values with the same
// bytes are always the same *String (see Table.findString), so
// string equality is pointer equality and hashing a string is computed
// once, at creation.
type String struct {
	objHeader
	chars string
	hash  uint32
}

func (*String) Type() string     { return "string" }
func (s *String) String() string { return s.chars }

// Function is the runtime counterpart of a compiler.Funcode: the static,
// shared, immutable description of a function's code. Closure is the
// value that actually gets called, pairing a Function with the upvalues
// it closed over at the point its OP_CLOSURE ran.
type Function struct {
	objHeader
	Funcode *compiler.Funcode
}

func (*Function) Type() string { return "function" }
func (f *Function) String() string {
	if f.Funcode.Name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Funcode.Name)
}

// Upvalue indirects to a captured variable. While Open, Index is the slot
// in the owning Thread's value stack the variable still lives in; closing
// it (Thread.closeUpvalues) copies the value out of the stack into Closed and switches the upvalue
// to reading from there, which is what must happen when the stack frame
// that owns the slot returns. Using a stack index rather than a raw
// pointer (*Value into a Go slice) avoids relying on the stack's backing
// array never moving; the VM allocates its value stack once, at a fixed
// size, precisely so this index stays valid for the upvalue's lifetime.
type Upvalue struct {
	objHeader
	Index  int
	Open   bool
	Closed Value
	next   *Upvalue // next in the thread's open-upvalues list, sorted by Index
}

func (*Upvalue) Type() string   { return "upvalue" }
func (*Upvalue) String() string { return "upvalue" }

// Closure is a Function together with the upvalues it captured. It is
// this value, never the underlying Function, that Lox code actually
// calls.
type Closure struct {
	objHeader
	Fn       *Function
	Upvalues []*Upvalue
}

func (*Closure) Type() string { return "function" }
func (c *Closure) String() string { return c.Fn.String() }

// Native is a builtin function implemented in Go, such as clock().
type Native struct {
	objHeader
	Name string
	Fn   func(th *Thread, args []Value) (Value, error)
}

func (*Native) Type() string     { return "native function" }
func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }

// Class is a Lox class: a name and its method table (mapping method name to
// the Closure compiled for it). No link to the superclass is kept: OP_INHERIT
// copies the superclass's methods into this table instead. Method tables are
// plain Go maps rather than the hand-rolled Table used for globals and
// instance fields: a class's method table is filled once, while its class
// declaration executes (OP_INHERIT, then one OP_METHOD per method), and never
// resized under GC pressure the way the
// globals table or an instance's field table are, so there is no need for
// the tombstone/weak-reference machinery table.go exists for.
type Class struct {
	objHeader
	Name    string
	Methods map[string]*Closure
}

func newClass(name string) *Class {
	return &Class{Name: name, Methods: map[string]*Closure{}}
}

func (*Class) Type() string     { return "class" }
func (c *Class) String() string { return c.Name }

// Instance is an instance of a Class, with its own field table.
type Instance struct {
	objHeader
	Class  *Class
	Fields *Table
}

func newInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: newTable()}
}

func (*Instance) Type() string     { return "instance" }
func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.Class.Name) }

// BoundMethod is the value produced by a GET_PROPERTY that resolves to a
// method: the receiver travels with the method so that a later call sees
// `this` bound correctly even if the bound method is stored away and
// invoked later, detached from the `obj.method` expression that produced
// it.
type BoundMethod struct {
	objHeader
	Receiver Value
	Method   *Closure
}

func (*BoundMethod) Type() string     { return "function" }
func (b *BoundMethod) String() string { return b.Method.String() }
