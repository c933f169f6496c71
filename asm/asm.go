// Package asm provides the instruction record and operation vocabulary for
// the Tomasulo simulator. It has no dependency on the scheduler: it describes
// what a decoded instruction looks like, not how it is scheduled.
package asm

// Operation is a tagged variant over the instruction set this simulator
// supports.
type Operation uint8

// The supported operations. Add/Sub/Mul/Div are arithmetic; Load/Store are
// the stubbed memory operations; Nop occupies a station without doing work.
const (
	OpNop Operation = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLoad
	OpStore
)

// String renders the operation using its assembly mnemonic.
func (op Operation) String() string {
	switch op {
	case OpAdd:
		return "ADD"
	case OpSub:
		return "SUB"
	case OpMul:
		return "MUL"
	case OpDiv:
		return "DIV"
	case OpLoad:
		return "LOAD"
	case OpStore:
		return "STORE"
	case OpNop:
		return "NOP"
	default:
		return "UNKNOWN"
	}
}

// Bank identifies which reservation-station bank an operation is scheduled
// into.
type Bank uint8

// The four reservation-station banks.
const (
	BankAddSub Bank = iota
	BankMulDiv
	BankLoad
	BankStore
)

// Bank returns the reservation-station bank this operation is issued into.
// Nop is treated as an add/sub-bank occupant since it carries no operands.
func (op Operation) Bank() Bank {
	switch op {
	case OpMul, OpDiv:
		return BankMulDiv
	case OpLoad:
		return BankLoad
	case OpStore:
		return BankStore
	default:
		return BankAddSub
	}
}

// UnsetTimestamp is the sentinel for a phase timestamp that has not yet been
// recorded. Cycle 0 is a legitimate value for Issued (see scenario S1), so
// the unset sentinel cannot be 0 the way the tag-0 "no producer" sentinel is;
// this is kept as a value distinct from a valid station tag so the two
// concepts are never confused.
const UnsetTimestamp = -1

// Instruction is one decoded line of the input program. It is created once
// by the parser and appended in program order; after decode only its four
// timestamp fields are ever mutated, and only by the scheduler.
type Instruction struct {
	Op Operation

	// Dest is the destination register index. Meaningful for every op
	// except Store and Nop.
	Dest uint8

	// Src1, Src2 are source register indices. Interpretation depends on Op:
	// Add/Sub/Mul/Div read both; Load reads neither (Imm carries the
	// address); Store reads Src1 as the value to store and Src2 as the
	// (already-resolved) base register.
	Src1 uint8
	Src2 uint8

	// Imm is the address-offset immediate used by Load/Store.
	Imm int

	// Phase timestamps, in the order they become set. UnsetTimestamp until
	// recorded by the scheduler.
	Issued    int
	Executed  int
	Written   int
	Completed int
}

// NewInstruction returns an Instruction with all four timestamps unset.
func NewInstruction(op Operation, dest, src1, src2 uint8, imm int) Instruction {
	return Instruction{
		Op:        op,
		Dest:      dest,
		Src1:      src1,
		Src2:      src2,
		Imm:       imm,
		Issued:    UnsetTimestamp,
		Executed:  UnsetTimestamp,
		Written:   UnsetTimestamp,
		Completed: UnsetTimestamp,
	}
}

// UsesSrc1 reports whether this op consumes a Src1 operand register.
func (op Operation) UsesSrc1() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpStore:
		return true
	default:
		return false
	}
}

// UsesSrc2 reports whether this op consumes a Src2 register as a renamed
// operand. Store's Src2 is the base register, but the base
// is treated as already resolved and is not renamed, so Store reports false
// here even though it records Src2 in the decoded instruction.
func (op Operation) UsesSrc2() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	default:
		return false
	}
}

// WritesDest reports whether this op renames a destination register. Store
// has no destination; Nop is decoded with Dest left at its zero value and
// must not be allowed to rename R0 as a side effect of occupying a station.
func (op Operation) WritesDest() bool {
	switch op {
	case OpStore, OpNop:
		return false
	default:
		return true
	}
}

// HasResult reports whether completing this op produces a CDB value at all.
// Store and Nop finish silently: no commit, no broadcast.
func (op Operation) HasResult() bool {
	return op.WritesDest()
}
