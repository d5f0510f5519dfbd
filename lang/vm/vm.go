package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/loxlang/lox/lang/compiler"
)

// FramesMax bounds the depth of nested Lox calls; StackMax bounds the
// total number of value slots (locals and operands together) live across
// every frame at once. Both are fixed at Thread creation and never grow,
// which is what lets Upvalue.Index be a stable index rather than a
// pointer: the backing array never reallocates out from under it.
const (
	FramesMax = 64
	StackMax  = FramesMax * 256
)

// CallFrame records one active call: the Closure being executed, the
// instruction pointer within its Funcode, and the base slot in the
// Thread's value stack where its locals (parameters first) begin.
type CallFrame struct {
	closure   *Closure
	ip        int
	slotsBase int
}

// Thread is a single Lox call stack plus the heap and garbage collector
// backing it. Running a program means pushing its toplevel function as a
// Closure and driving the frame/operand stacks until the outermost call
// returns.
type Thread struct {
	Stdout io.Writer
	Stderr io.Writer

	stack [StackMax]Value
	sp    int

	frames     [FramesMax]CallFrame
	frameCount int

	openUpvalues *Upvalue

	globals *Table
	gc      *gcState

	initString *String
}

// NewThread creates a Thread ready to Interpret a compiled program. The
// clock() builtin and the globals table are wired up here; further
// natives can be registered with DefineNative before the first Interpret
// call.
func NewThread() *Thread {
	th := &Thread{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	th.gc = newGCState(th)
	th.globals = newTable()
	th.initString = th.internString("init")
	registerNatives(th)
	return th
}

// DefineNative installs a Go function as a global Lox callable.
func (th *Thread) DefineNative(name string, fn func(th *Thread, args []Value) (Value, error)) {
	native := th.newNative(name, fn)
	th.globals.Set(th.internString(name), native)
}

// Interpret wraps the compiled fc in a top-level closure and runs it to
// completion, returning the first runtime error encountered (already
// formatted with a stack trace by runtimeError), or nil on normal exit.
func (th *Thread) Interpret(fc *compiler.Funcode) error {
	fn := th.newFunction(fc)
	th.push(fn)
	closure := th.newClosure(fn, nil)
	th.pop()
	th.push(closure)
	if err := th.call(closure, 0); err != nil {
		return err
	}
	return th.run()
}

func (th *Thread) push(v Value) {
	th.stack[th.sp] = v
	th.sp++
}

func (th *Thread) pop() Value {
	th.sp--
	return th.stack[th.sp]
}

func (th *Thread) peek(distance int) Value {
	return th.stack[th.sp-1-distance]
}

func (th *Thread) resetStack() {
	th.sp = 0
	th.frameCount = 0
	th.openUpvalues = nil
}

// run is the bytecode dispatch loop: fetch, decode, execute, one
// instruction at a time, against whatever the top call frame is at the
// start of each iteration. Frame switches on OP_CALL/OP_RETURN just
// change which frame the next iteration reads, rather than recursing the
// Go call stack, so Lox recursion depth is bounded by FramesMax, not by
// Go's own stack.
func (th *Thread) run() error {
	for {
		frame := &th.frames[th.frameCount-1]
		fc := frame.closure.Fn.Funcode
		op := compiler.Op(fc.Code[frame.ip])
		frame.ip++

		switch op {
		case compiler.OpConstant:
			idx := fc.Code[frame.ip]
			frame.ip++
			th.push(th.constantValue(fc, idx))

		case compiler.OpNil:
			th.push(Nil{})
		case compiler.OpTrue:
			th.push(Bool(true))
		case compiler.OpFalse:
			th.push(Bool(false))
		case compiler.OpPop:
			th.pop()

		case compiler.OpGetLocal:
			slot := fc.Code[frame.ip]
			frame.ip++
			th.push(th.stack[frame.slotsBase+int(slot)])
		case compiler.OpSetLocal:
			slot := fc.Code[frame.ip]
			frame.ip++
			th.stack[frame.slotsBase+int(slot)] = th.peek(0)

		case compiler.OpGetGlobal:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			v, ok := th.globals.Get(name)
			if !ok {
				return th.runtimeError("undefined variable '%s'", name.chars)
			}
			th.push(v)
		case compiler.OpDefGlobal:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			th.globals.Set(name, th.peek(0))
			th.pop()
		case compiler.OpSetGlobal:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			if th.globals.Set(name, th.peek(0)) {
				th.globals.Delete(name)
				return th.runtimeError("undefined variable '%s'", name.chars)
			}

		case compiler.OpGetUpvalue:
			slot := fc.Code[frame.ip]
			frame.ip++
			th.push(th.upvalueValue(frame.closure.Upvalues[slot]))
		case compiler.OpSetUpvalue:
			slot := fc.Code[frame.ip]
			frame.ip++
			th.setUpvalueValue(frame.closure.Upvalues[slot], th.peek(0))

		case compiler.OpGetProperty:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			inst, ok := th.peek(0).(*Instance)
			if !ok {
				return th.runtimeError("only instances have properties")
			}
			if v, ok := inst.Fields.Get(name); ok {
				th.pop()
				th.push(v)
				break
			}
			if err := th.bindMethod(inst.Class, name); err != nil {
				return err
			}

		case compiler.OpSetProperty:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			inst, ok := th.peek(1).(*Instance)
			if !ok {
				return th.runtimeError("only instances have fields")
			}
			inst.Fields.Set(name, th.peek(0))
			v := th.pop()
			th.pop()
			th.push(v)

		case compiler.OpGetSuper:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			superclass, ok := th.pop().(*Class)
			if !ok {
				return th.runtimeError("superclass must be a class")
			}
			if err := th.bindMethod(superclass, name); err != nil {
				return err
			}

		case compiler.OpEqual:
			b := th.pop()
			a := th.pop()
			th.push(Bool(valuesEqual(a, b)))
		case compiler.OpGreater:
			if err := th.numericBinary(op); err != nil {
				return err
			}
		case compiler.OpLess:
			if err := th.numericBinary(op); err != nil {
				return err
			}

		case compiler.OpAdd:
			if err := th.add(); err != nil {
				return err
			}
		case compiler.OpSubtract, compiler.OpMultiply, compiler.OpDivide:
			if err := th.numericBinary(op); err != nil {
				return err
			}

		case compiler.OpNegate:
			n, ok := th.peek(0).(Number)
			if !ok {
				return th.runtimeError("operand must be a number")
			}
			th.pop()
			th.push(-n)
		case compiler.OpNot:
			th.push(Bool(isFalsey(th.pop())))

		case compiler.OpPrint:
			fmt.Fprintln(th.Stdout, th.pop().String())

		case compiler.OpJump:
			offset := readU16(fc, &frame.ip)
			frame.ip += offset
		case compiler.OpJumpIfFalse:
			offset := readU16(fc, &frame.ip)
			if isFalsey(th.peek(0)) {
				frame.ip += offset
			}
		case compiler.OpLoop:
			offset := readU16(fc, &frame.ip)
			frame.ip -= offset

		case compiler.OpCall:
			argCount := int(fc.Code[frame.ip])
			frame.ip++
			if err := th.callValue(th.peek(argCount), argCount); err != nil {
				return err
			}
		case compiler.OpInvoke:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			argCount := int(fc.Code[frame.ip])
			frame.ip++
			if err := th.invoke(name, argCount); err != nil {
				return err
			}
		case compiler.OpSuperInvoke:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			argCount := int(fc.Code[frame.ip])
			frame.ip++
			superclass, ok := th.pop().(*Class)
			if !ok {
				return th.runtimeError("superclass must be a class")
			}
			if err := th.invokeFromClass(superclass, name, argCount); err != nil {
				return err
			}

		case compiler.OpClosure:
			idx := fc.Code[frame.ip]
			frame.ip++
			nested, ok := fc.Constants[idx].(*compiler.Funcode)
			if !ok {
				return th.runtimeError("malformed closure constant")
			}
			fn := th.newFunction(nested)
			closure := th.newClosure(fn, make([]*Upvalue, len(nested.Upvalues)))
			for i := range nested.Upvalues {
				isLocal := fc.Code[frame.ip]
				frame.ip++
				index := fc.Code[frame.ip]
				frame.ip++
				if isLocal != 0 {
					closure.Upvalues[i] = th.captureUpvalue(frame.slotsBase + int(index))
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
			th.push(closure)
		case compiler.OpCloseUpvalue:
			th.closeUpvalues(th.sp - 1)
			th.pop()

		case compiler.OpReturn:
			result := th.pop()
			th.closeUpvalues(frame.slotsBase)
			th.frameCount--
			if th.frameCount == 0 {
				th.pop()
				return nil
			}
			th.sp = frame.slotsBase
			th.push(result)

		case compiler.OpClass:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			th.push(th.newClass(name.chars))
		case compiler.OpInherit:
			superclass, ok := th.peek(1).(*Class)
			if !ok {
				return th.runtimeError("superclass must be a class")
			}
			subclass := th.peek(0).(*Class)
			for name, m := range superclass.Methods {
				subclass.Methods[name] = m
			}
			th.pop()
		case compiler.OpMethod:
			name := th.constantString(fc, fc.Code[frame.ip])
			frame.ip++
			method := th.peek(0).(*Closure)
			class := th.peek(1).(*Class)
			class.Methods[name.chars] = method
			th.pop()

		default:
			return th.runtimeError("unhandled opcode %s", op)
		}
	}
}

func readU16(fc *compiler.Funcode, ip *int) int {
	hi := fc.Code[*ip]
	lo := fc.Code[*ip+1]
	*ip += 2
	return int(hi)<<8 | int(lo)
}

func (th *Thread) constantValue(fc *compiler.Funcode, idx byte) Value {
	switch c := fc.Constants[idx].(type) {
	case float64:
		return Number(c)
	case string:
		return th.internString(c)
	default:
		return Nil{}
	}
}

func (th *Thread) constantString(fc *compiler.Funcode, idx byte) *String {
	return th.internString(fc.Constants[idx].(string))
}

func (th *Thread) numericBinary(op compiler.Op) error {
	b, bok := th.peek(0).(Number)
	a, aok := th.peek(1).(Number)
	if !aok || !bok {
		return th.runtimeError("operands must be numbers")
	}
	th.pop()
	th.pop()
	switch op {
	case compiler.OpGreater:
		th.push(Bool(a > b))
	case compiler.OpLess:
		th.push(Bool(a < b))
	case compiler.OpSubtract:
		th.push(a - b)
	case compiler.OpMultiply:
		th.push(a * b)
	case compiler.OpDivide:
		th.push(a / b)
	}
	return nil
}

// add implements OP_ADD, which is overloaded: number + number adds,
// string + string concatenates (producing a freshly interned string),
// anything else is a runtime error.
func (th *Thread) add() error {
	bVal, aVal := th.peek(0), th.peek(1)
	switch b := bVal.(type) {
	case Number:
		a, ok := aVal.(Number)
		if !ok {
			return th.runtimeError("operands must be two numbers or two strings")
		}
		th.pop()
		th.pop()
		th.push(a + b)
		return nil
	case *String:
		a, ok := aVal.(*String)
		if !ok {
			return th.runtimeError("operands must be two numbers or two strings")
		}
		th.pop()
		th.pop()
		th.push(th.internString(a.chars + b.chars))
		return nil
	default:
		return th.runtimeError("operands must be two numbers or two strings")
	}
}

func (th *Thread) callValue(callee Value, argCount int) error {
	switch c := callee.(type) {
	case *BoundMethod:
		th.stack[th.sp-argCount-1] = c.Receiver
		return th.call(c.Method, argCount)
	case *Class:
		inst := th.newInstance(c)
		th.stack[th.sp-argCount-1] = inst
		if init, ok := c.Methods["init"]; ok {
			return th.call(init, argCount)
		}
		if argCount != 0 {
			return th.runtimeError("expected 0 arguments but got %d", argCount)
		}
		return nil
	case *Closure:
		return th.call(c, argCount)
	case *Native:
		args := th.stack[th.sp-argCount : th.sp]
		result, err := c.Fn(th, args)
		if err != nil {
			return th.runtimeError("%s", err.Error())
		}
		th.sp -= argCount + 1
		th.push(result)
		return nil
	default:
		return th.runtimeError("can only call functions and classes")
	}
}

func (th *Thread) call(closure *Closure, argCount int) error {
	if argCount != closure.Fn.Funcode.Arity {
		return th.runtimeError("expected %d arguments but got %d", closure.Fn.Funcode.Arity, argCount)
	}
	if th.frameCount == FramesMax {
		return th.runtimeError("stack overflow")
	}
	fr := &th.frames[th.frameCount]
	th.frameCount++
	fr.closure = closure
	fr.ip = 0
	fr.slotsBase = th.sp - argCount - 1
	return nil
}

func (th *Thread) invoke(name *String, argCount int) error {
	receiver := th.peek(argCount)
	inst, ok := receiver.(*Instance)
	if !ok {
		return th.runtimeError("only instances have methods")
	}
	if v, ok := inst.Fields.Get(name); ok {
		th.stack[th.sp-argCount-1] = v
		return th.callValue(v, argCount)
	}
	return th.invokeFromClass(inst.Class, name, argCount)
}

func (th *Thread) invokeFromClass(class *Class, name *String, argCount int) error {
	method, ok := class.Methods[name.chars]
	if !ok {
		return th.runtimeError("undefined property '%s'", name.chars)
	}
	return th.call(method, argCount)
}

func (th *Thread) bindMethod(class *Class, name *String) error {
	method, ok := class.Methods[name.chars]
	if !ok {
		return th.runtimeError("undefined property '%s'", name.chars)
	}
	bound := th.newBoundMethod(th.peek(0), method)
	th.pop()
	th.push(bound)
	return nil
}

func (th *Thread) captureUpvalue(stackIndex int) *Upvalue {
	var prev *Upvalue
	uv := th.openUpvalues
	for uv != nil && uv.Index > stackIndex {
		prev = uv
		uv = uv.next
	}
	if uv != nil && uv.Index == stackIndex {
		return uv
	}
	created := th.newUpvalue(stackIndex)
	created.next = uv
	if prev == nil {
		th.openUpvalues = created
	} else {
		prev.next = created
	}
	return created
}

func (th *Thread) closeUpvalues(last int) {
	for th.openUpvalues != nil && th.openUpvalues.Index >= last {
		uv := th.openUpvalues
		uv.Closed = th.stack[uv.Index]
		uv.Open = false
		th.openUpvalues = uv.next
	}
}

func (th *Thread) upvalueValue(uv *Upvalue) Value {
	if uv.Open {
		return th.stack[uv.Index]
	}
	return uv.Closed
}

func (th *Thread) setUpvalueValue(uv *Upvalue, v Value) {
	if uv.Open {
		th.stack[uv.Index] = v
	} else {
		uv.Closed = v
	}
}

// runtimeError formats msg and walks the live call frames, innermost
// first, building the "[line L] in <fn|script>" trace described in the
// error-reporting section of the language, then resets the stack so the
// Thread is usable again (e.g. by a REPL) after an error.
func (th *Thread) runtimeError(format string, args ...any) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, format, args...)

	for i := th.frameCount - 1; i >= 0; i-- {
		fr := &th.frames[i]
		fcode := fr.closure.Fn.Funcode
		line := fcode.Line(fr.ip - 1)
		name := "script"
		if fcode.Name != "" {
			name = fcode.Name + "()"
		}
		fmt.Fprintf(&sb, "\n[line %d] in %s", line, name)
	}

	th.resetStack()
	return errors.New(sb.String())
}
