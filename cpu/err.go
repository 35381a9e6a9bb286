package cpu

import (
	"errors"

	"github.com/ezrec/toast/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIllegalInstruction = errors.New(f("illegal instruction"))
	ErrMemoryBounds       = errors.New(f("memory out of bounds"))
	ErrPcAlignment        = errors.New(f("pc misaligned"))
	ErrStepLimit          = errors.New(f("step limit exceeded"))
)

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x %v", uint32(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAddress is a memory access outside of the CPU memory.
type ErrAddress struct {
	Address uint32
	Size    uint32
}

func (err ErrAddress) Error() string {
	return f("memory access 0x%08x (%d bytes) out of bounds", err.Address, err.Size)
}

func (err ErrAddress) Is(target error) bool {
	return target == ErrMemoryBounds
}
