package cpu

import (
	"fmt"

	"github.com/ezrec/toast/isa"
)

// Code is a single 32-bit machine word.
type Code uint32

func (code Code) Opcode() uint32 { return uint32(code) & 0x7f }
func (code Code) Rd() uint32     { return (uint32(code) >> 7) & 0x1f }
func (code Code) Funct3() uint32 { return (uint32(code) >> 12) & 0x7 }
func (code Code) Rs1() uint32    { return (uint32(code) >> 15) & 0x1f }
func (code Code) Rs2() uint32    { return (uint32(code) >> 20) & 0x1f }
func (code Code) Funct7() uint32 { return uint32(code) >> 25 }

// ImmI is the sign-extended I format immediate.
func (code Code) ImmI() int32 {
	return int32(code) >> 20
}

// ImmS is the sign-extended S format immediate.
func (code Code) ImmS() int32 {
	return (int32(code)>>25)<<5 | int32((uint32(code)>>7)&0x1f)
}

// ImmB is the sign-extended B format byte displacement.
func (code Code) ImmB() int32 {
	word := uint32(code)
	imm := ((word >> 31) & 0x1) << 12
	imm |= ((word >> 7) & 0x1) << 11
	imm |= ((word >> 25) & 0x3f) << 5
	imm |= ((word >> 8) & 0xf) << 1
	return int32(imm<<19) >> 19
}

// ImmU is the U format immediate, in place at bits 31..12.
func (code Code) ImmU() uint32 {
	return uint32(code) & 0xfffff000
}

// ImmJ is the sign-extended J format byte displacement.
func (code Code) ImmJ() int32 {
	word := uint32(code)
	imm := ((word >> 31) & 0x1) << 20
	imm |= ((word >> 12) & 0xff) << 12
	imm |= ((word >> 20) & 0x1) << 11
	imm |= ((word >> 21) & 0x3ff) << 1
	return int32(imm<<11) >> 11
}

// String disassembles the code.
func (code Code) String() string {
	in, ok := isa.Default().Decode(uint32(code))
	if !ok {
		return fmt.Sprintf(".word 0x%08x", uint32(code))
	}

	rd := isa.RegisterName(code.Rd(), in.Float&isa.FLOAT_RD != 0)
	rs1 := isa.RegisterName(code.Rs1(), in.Float&isa.FLOAT_RS1 != 0)
	rs2 := isa.RegisterName(code.Rs2(), in.Float&isa.FLOAT_RS2 != 0)
	base := isa.RegisterName(code.Rs1(), false)

	switch in.Operands {
	case isa.OPERANDS_RD_RS1_RS2:
		return fmt.Sprintf("%s %s, %s, %s", in.Mnemonic, rd, rs1, rs2)
	case isa.OPERANDS_RD_RS1:
		return fmt.Sprintf("%s %s, %s", in.Mnemonic, rd, rs1)
	case isa.OPERANDS_RD_RS1_IMM:
		return fmt.Sprintf("%s %s, %s, %d", in.Mnemonic, rd, rs1, code.ImmI())
	case isa.OPERANDS_RD_RS1_SHAMT:
		return fmt.Sprintf("%s %s, %s, %d", in.Mnemonic, rd, rs1, code.Rs2())
	case isa.OPERANDS_RD_MEM:
		return fmt.Sprintf("%s %s, %d(%s)", in.Mnemonic, rd, code.ImmI(), base)
	case isa.OPERANDS_RS2_MEM:
		return fmt.Sprintf("%s %s, %d(%s)", in.Mnemonic, rs2, code.ImmS(), base)
	case isa.OPERANDS_RS1_RS2_IMM:
		return fmt.Sprintf("%s %s, %s, %d", in.Mnemonic, rs1, rs2, code.ImmB())
	case isa.OPERANDS_RD_IMM:
		if in.Format == isa.FORMAT_J {
			return fmt.Sprintf("%s %s, %d", in.Mnemonic, rd, code.ImmJ())
		}
		return fmt.Sprintf("%s %s, %d", in.Mnemonic, rd, int32(code)>>12)
	case isa.OPERANDS_RD_CSR_RS1:
		return fmt.Sprintf("%s %s, %d, %s", in.Mnemonic, rd, uint32(code)>>20, rs1)
	case isa.OPERANDS_RD_CSR_UIMM:
		return fmt.Sprintf("%s %s, %d, %d", in.Mnemonic, rd, uint32(code)>>20, code.Rs1())
	case isa.OPERANDS_IMM:
		return fmt.Sprintf("%s %d", in.Mnemonic, code.ImmI())
	}

	return in.Mnemonic
}
