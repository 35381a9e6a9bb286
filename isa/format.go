package isa

// Format is one of the RISC-V machine word bit-field layouts.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_R     = Format(0) // R
	FORMAT_I     = Format(1) // I
	FORMAT_S     = Format(2) // S
	FORMAT_B     = Format(3) // B
	FORMAT_U     = Format(4) // U
	FORMAT_J     = Format(5) // J
	FORMAT_FIXED = Format(6) // fixed
)

// Operands is the assembly operand syntax of an instruction.
type Operands int

//go:generate go tool stringer -linecomment -type=Operands
const (
	OPERANDS_NONE         = Operands(0)  // none
	OPERANDS_RD_RS1_RS2   = Operands(1)  // rd,rs1,rs2
	OPERANDS_RD_RS1       = Operands(2)  // rd,rs1
	OPERANDS_RD_RS1_IMM   = Operands(3)  // rd,rs1,imm
	OPERANDS_RD_RS1_SHAMT = Operands(4)  // rd,rs1,shamt
	OPERANDS_RD_MEM       = Operands(5)  // rd,imm(rs1)
	OPERANDS_RS2_MEM      = Operands(6)  // rs2,imm(rs1)
	OPERANDS_RS1_RS2_IMM  = Operands(7)  // rs1,rs2,imm
	OPERANDS_RD_IMM       = Operands(8)  // rd,imm
	OPERANDS_RD_CSR_RS1   = Operands(9)  // rd,csr,rs1
	OPERANDS_RD_CSR_UIMM  = Operands(10) // rd,csr,uimm
	OPERANDS_IMM          = Operands(11) // imm
)

// Count returns the number of assembly operands the syntax expects.
func (ops Operands) Count() int {
	switch ops {
	case OPERANDS_NONE:
		return 0
	case OPERANDS_IMM:
		return 1
	case OPERANDS_RD_RS1, OPERANDS_RD_MEM, OPERANDS_RS2_MEM, OPERANDS_RD_IMM:
		return 2
	default:
		return 3
	}
}

// Float marks the register fields of an instruction that name floating
// point registers.
type Float uint8

const (
	FLOAT_RD  = Float(1 << 0)
	FLOAT_RS1 = Float(1 << 1)
	FLOAT_RS2 = Float(1 << 2)

	FLOAT_ALL = FLOAT_RD | FLOAT_RS1 | FLOAT_RS2
)
