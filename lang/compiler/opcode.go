// Package compiler implements the single-pass Pratt parser that walks Lox
// source tokens once and emits bytecode directly into a Funcode, along with
// the bytecode instruction set itself (this file) and a debug-only
// disassembler.
package compiler

import "fmt"

// Op is a single bytecode instruction opcode. Opcodes annotated with operands
// below are followed by that many inline operand bytes (big-endian where
// wider than one byte); the others carry none.
type Op uint8

//nolint:revive
const (
	OpConstant Op = iota // u8 idx      : push K[idx]
	OpNil                //             : push nil
	OpTrue               //             : push true
	OpFalse              //             : push false
	OpPop                //             : pop top

	OpGetLocal  // u8 slot
	OpSetLocal  // u8 slot
	OpGetGlobal // u8 nameIdx
	OpDefGlobal // u8 nameIdx
	OpSetGlobal // u8 nameIdx

	OpGetUpvalue // u8 slot
	OpSetUpvalue // u8 slot

	OpGetProperty // u8 nameIdx
	OpSetProperty // u8 nameIdx
	OpGetSuper    // u8 nameIdx

	OpEqual
	OpGreater
	OpLess

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNegate
	OpNot

	OpPrint

	OpJump        // u16 offset (forward)
	OpJumpIfFalse // u16 offset (forward, does not pop)
	OpLoop        // u16 offset (backward)

	OpCall        // u8 argc
	OpInvoke      // u8 nameIdx, u8 argc
	OpSuperInvoke // u8 nameIdx, u8 argc

	OpClosure      // u8 fnIdx, then 2*upvalueCount bytes {isLocal u8, index u8}
	OpCloseUpvalue //

	OpReturn

	OpClass // u8 nameIdx
	OpInherit
	OpMethod // u8 nameIdx

	maxOp
)

// OpArgMin is the first of the slot/name-operand opcodes (OpGetLocal).
// OpConstant, which comes before it, also carries an operand, and not every
// opcode after it does.
const OpArgMin = OpGetLocal

var opNames = [...]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefGlobal:    "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpGetSuper:     "OP_GET_SUPER",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNegate:       "OP_NEGATE",
	OpNot:          "OP_NOT",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpInvoke:       "OP_INVOKE",
	OpSuperInvoke:  "OP_SUPER_INVOKE",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
	OpClass:        "OP_CLASS",
	OpInherit:      "OP_INHERIT",
	OpMethod:       "OP_METHOD",
}

func (op Op) String() string {
	if op < maxOp {
		if s := opNames[op]; s != "" {
			return s
		}
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// isJump reports whether op carries a 2-byte jump offset operand.
func isJump(op Op) bool {
	return op == OpJump || op == OpJumpIfFalse || op == OpLoop
}
