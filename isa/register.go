package isa

import (
	"fmt"
	"strings"
)

// REGISTER_COUNT is the size of both the integer and floating point register files.
const REGISTER_COUNT = 32

// Register indexes with a calling convention role.
const (
	REG_ZERO = 0
	REG_RA   = 1
	REG_SP   = 2
	REG_FP   = 8
	REG_A0   = 10
	REG_A7   = 17 // Syscall number.
)

// ABI names of the integer registers, by index.
var abiNames = [REGISTER_COUNT]string{
	"zero", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

// ABI names of the floating point registers, by index.
var floatAbiNames = [REGISTER_COUNT]string{
	"ft0", "ft1", "ft2", "ft3", "ft4", "ft5", "ft6", "ft7",
	"fs0", "fs1",
	"fa0", "fa1", "fa2", "fa3", "fa4", "fa5", "fa6", "fa7",
	"fs2", "fs3", "fs4", "fs5", "fs6", "fs7", "fs8", "fs9", "fs10", "fs11",
	"ft8", "ft9", "ft10", "ft11",
}

// registerMap builds the name to index map of all register names.
func registerMap() (regs map[string]uint32) {
	regs = make(map[string]uint32, 4*REGISTER_COUNT+1)
	for n := range REGISTER_COUNT {
		regs[fmt.Sprintf("x%d", n)] = uint32(n)
		regs[fmt.Sprintf("f%d", n)] = uint32(n)
		regs[abiNames[n]] = uint32(n)
		regs[floatAbiNames[n]] = uint32(n)
	}
	regs["fp"] = REG_FP

	return
}

// RegisterName returns the canonical assembly name of a register index.
func RegisterName(index uint32, float bool) string {
	if float {
		return fmt.Sprintf("f%d", index&0x1f)
	}
	return fmt.Sprintf("x%d", index&0x1f)
}

// AbiName returns the ABI alias of an integer register index.
func AbiName(index uint32) string {
	return abiNames[index&0x1f]
}

// IsFloatRegister reports whether name belongs to the floating point
// register file.
func IsFloatRegister(name string) bool {
	return name != "fp" && strings.HasPrefix(name, "f")
}
