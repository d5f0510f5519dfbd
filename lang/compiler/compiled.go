package compiler

import "sort"

// UpvalueRef tells the VM, for one upvalue slot of a Funcode, whether to
// capture it from the immediately enclosing function's locals (IsLocal) or
// to forward one of the enclosing function's own upvalues.
type UpvalueRef struct {
	IsLocal bool
	Index   uint8
}

// lineRun records that byte offset StartPC and every following byte, up to
// the next run's StartPC, belongs to source Line. This is the run-length
// encoded alternative to a per-byte line array mentioned in spec §9(c):
// cheaper to build and to carry around, at the cost of a binary search on
// lookup instead of a direct index.
type lineRun struct {
	StartPC int
	Line    int
}

// A Funcode is the compiled code of a single function (or of the top-level
// script, which is compiled as an implicit function of arity 0). One Funcode
// exists per function appearing in the source, nested functions included;
// nested Funcodes live in their enclosing Funcode's Constants slice and are
// turned into runtime closures by OP_CLOSURE.
type Funcode struct {
	Name          string
	Arity         int
	Upvalues      []UpvalueRef
	IsInitializer bool

	Code      []byte
	lines     []lineRun
	Constants []any // float64 | string | *Funcode
}

func (fc *Funcode) addLine(line int) {
	if n := len(fc.lines); n == 0 || fc.lines[n-1].Line != line {
		fc.lines = append(fc.lines, lineRun{StartPC: len(fc.Code), Line: line})
	}
}

// Line returns the source line of the instruction at byte offset pc.
func (fc *Funcode) Line(pc int) int {
	i := sort.Search(len(fc.lines), func(i int) bool {
		return fc.lines[i].StartPC > pc
	})
	if i == 0 {
		return 0
	}
	return fc.lines[i-1].Line
}

// addConstant appends v to the constant pool and returns its index. It is
// the caller's responsibility to check the pool has not exceeded 256
// entries (see parser.makeConstant).
func (fc *Funcode) addConstant(v any) int {
	fc.Constants = append(fc.Constants, v)
	return len(fc.Constants) - 1
}
