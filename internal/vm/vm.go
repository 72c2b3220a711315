// Package vm implements the stack machine of spec §4.7, executing a
// bytecode.Chunk the compiler produced.
package vm

import (
	"golox/internal/bytecode"
	"golox/internal/diagnostics"
)

// Result is the outcome of one Interpret call.
type Result int

const (
	Ok Result = iota
	CompileError
	RuntimeError
)

// VM owns a value stack for the lifetime of one Interpret call (spec §5).
type VM struct {
	stack []bytecode.Value
	chunk *bytecode.Chunk
	ip    int
	diag  *diagnostics.Bag
}

func New(diag *diagnostics.Bag) *VM {
	return &VM{diag: diag, stack: make([]bytecode.Value, 0, 256)}
}

func (vm *VM) push(v bytecode.Value) { vm.stack = append(vm.stack, v) }

// pop removes and returns the top of the stack. An empty pop is the "stack
// under/overflow is a fatal internal error" case spec §4.7 names — it
// indicates a malformed chunk, never a Lox-level runtime error, so it
// panics rather than reporting a diagnostic.
func (vm *VM) pop() bytecode.Value {
	if len(vm.stack) == 0 {
		panic("vm: stack underflow")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) bytecode.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

// Top returns the value left on the stack by the expression chunk that just
// finished. Valid only immediately after Interpret returns Ok — OpReturn
// ends execution without popping, so the result sits at the top.
func (vm *VM) Top() bytecode.Value {
	return vm.peek(0)
}

// Interpret runs chunk to completion (or to its first runtime error). The
// chunk is assumed already free of compile errors (cmd/loxconform checks
// diag.HasErrors() between compiling and interpreting).
func (vm *VM) Interpret(chunk *bytecode.Chunk) Result {
	vm.chunk = chunk
	vm.ip = 0
	vm.stack = vm.stack[:0]

	for {
		op := bytecode.OpCode(vm.chunk.Code[vm.ip])
		line := vm.chunk.Lines[vm.ip]
		vm.ip++

		switch op {
		case bytecode.OpConstant:
			idx := vm.chunk.Code[vm.ip]
			vm.ip++
			vm.push(vm.chunk.Constants[idx])

		case bytecode.OpNil:
			vm.push(bytecode.Nil)
		case bytecode.OpTrue:
			vm.push(bytecode.NewBool(true))
		case bytecode.OpFalse:
			vm.push(bytecode.NewBool(false))

		case bytecode.OpAdd:
			if !vm.binaryNumberOp(line, func(a, b float64) bytecode.Value { return bytecode.NewNumber(a + b) }) {
				return RuntimeError
			}
		case bytecode.OpSubtract:
			if !vm.binaryNumberOp(line, func(a, b float64) bytecode.Value { return bytecode.NewNumber(a - b) }) {
				return RuntimeError
			}
		case bytecode.OpMultiply:
			if !vm.binaryNumberOp(line, func(a, b float64) bytecode.Value { return bytecode.NewNumber(a * b) }) {
				return RuntimeError
			}
		case bytecode.OpDivide:
			if !vm.binaryNumberOp(line, func(a, b float64) bytecode.Value { return bytecode.NewNumber(a / b) }) {
				return RuntimeError
			}

		case bytecode.OpGreater:
			if !vm.binaryNumberOp(line, func(a, b float64) bytecode.Value { return bytecode.NewBool(a > b) }) {
				return RuntimeError
			}
		case bytecode.OpGreaterEqual:
			if !vm.binaryNumberOp(line, func(a, b float64) bytecode.Value { return bytecode.NewBool(a >= b) }) {
				return RuntimeError
			}
		case bytecode.OpLess:
			if !vm.binaryNumberOp(line, func(a, b float64) bytecode.Value { return bytecode.NewBool(a < b) }) {
				return RuntimeError
			}
		case bytecode.OpLessEqual:
			if !vm.binaryNumberOp(line, func(a, b float64) bytecode.Value { return bytecode.NewBool(a <= b) }) {
				return RuntimeError
			}

		case bytecode.OpNegate:
			v := vm.peek(0)
			if v.Kind != bytecode.KindNumber {
				vm.fail(line, "Operand must be a number.")
				return RuntimeError
			}
			vm.pop()
			vm.push(bytecode.NewNumber(-v.Number))

		case bytecode.OpNot:
			v := vm.peek(0)
			if v.Kind != bytecode.KindBool {
				vm.fail(line, "Operand must be a boolean.")
				return RuntimeError
			}
			vm.pop()
			vm.push(bytecode.NewBool(!v.Bool))

		case bytecode.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(bytecode.NewBool(a.Equal(b)))
		case bytecode.OpNotEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(bytecode.NewBool(!a.Equal(b)))

		case bytecode.OpAnd:
			b, a := vm.pop(), vm.pop()
			if a.Kind != bytecode.KindBool || b.Kind != bytecode.KindBool {
				vm.fail(line, "Operands must be booleans.")
				return RuntimeError
			}
			vm.push(bytecode.NewBool(a.Bool && b.Bool))
		case bytecode.OpOr:
			b, a := vm.pop(), vm.pop()
			if a.Kind != bytecode.KindBool || b.Kind != bytecode.KindBool {
				vm.fail(line, "Operands must be booleans.")
				return RuntimeError
			}
			vm.push(bytecode.NewBool(a.Bool || b.Bool))

		case bytecode.OpJumpIfFalse:
			offset := vm.readJumpOffset()
			if !vm.peek(0).IsTruthy() {
				vm.ip += offset
			}
		case bytecode.OpJump:
			offset := vm.readJumpOffset()
			vm.ip += offset

		case bytecode.OpReturn:
			return Ok

		default:
			panic("vm: unreachable opcode")
		}
	}
}

func (vm *VM) readJumpOffset() int {
	hi, lo := vm.chunk.Code[vm.ip], vm.chunk.Code[vm.ip+1]
	vm.ip += 2
	return int(hi)<<8 | int(lo)
}

func (vm *VM) binaryNumberOp(line int, apply func(a, b float64) bytecode.Value) bool {
	b, a := vm.pop(), vm.pop()
	if a.Kind != bytecode.KindNumber || b.Kind != bytecode.KindNumber {
		vm.fail(line, "Operands must be numbers.")
		return false
	}
	vm.push(apply(a.Number, b.Number))
	return true
}

func (vm *VM) fail(line int, msg string) {
	vm.diag.ReportError(diagnostics.Context{
		Kind: diagnostics.InvalidOperands, Message: msg, Line: line,
	})
}
