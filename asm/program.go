package asm

import (
	"encoding/binary"
	"fmt"
	"iter"
	"strings"
)

// Opcode is one assembled word with its source location.
type Opcode struct {
	LineNo  int
	Address int64
	Words   []string
	Code    uint32
}

func (op *Opcode) String() string {
	return fmt.Sprintf("%08x: %08x  %s", op.Address, op.Code, strings.Join(op.Words, " "))
}

// Program is an assembled program in address order.
type Program struct {
	Opcodes []Opcode
	Labels  Labels
}

// Debug locates the source of an opcode. Opcode is nil when no
// opcode was found.
type Debug struct {
	*Opcode
}

// Debug finds the opcode located at pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	index := int(pc / INSTRUCTION_SIZE)
	if pc%INSTRUCTION_SIZE != 0 || index >= len(prog.Opcodes) {
		return
	}

	dbg = Debug{
		Opcode: &prog.Opcodes[index],
	}

	return
}

// Binary returns the program image, one big-endian word per opcode.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, 0, len(prog.Opcodes)*INSTRUCTION_SIZE)
	for _, code := range prog.Codes() {
		bin = binary.BigEndian.AppendUint32(bin, code)
	}

	return
}

// Codes iterates over the address and machine word of each opcode.
func (prog *Program) Codes() iter.Seq2[uint32, uint32] {
	return func(yield func(pc uint32, code uint32) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint32(op.Address), op.Code) {
				return
			}
		}
	}
}

// String returns the program listing.
func (prog *Program) String() string {
	var buff strings.Builder
	for n := range prog.Opcodes {
		op := &prog.Opcodes[n]
		for _, name := range prog.Labels.Names() {
			if prog.Labels[name] == op.Address {
				fmt.Fprintf(&buff, "%s:\n", name)
			}
		}
		fmt.Fprintf(&buff, "%4d  %v\n", op.LineNo, op)
	}
	return buff.String()
}
