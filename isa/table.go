package isa

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Instruction is the metadata of a single mnemonic.
type Instruction struct {
	Mnemonic string
	Format   Format
	Operands Operands
	Opcode   uint32
	Funct3   uint32
	Funct7   uint32
	Rs2      uint32 // Fixed rs2 field of the two-operand R format instructions.
	Rm       bool   // Funct3 is a rounding mode rather than an opcode selector.
	Float    Float  // Register fields that are floating point registers.
	Word     uint32 // Complete encoding of FORMAT_FIXED instructions.
}

// Table is the immutable instruction and register lookup service.
type Table struct {
	instruction map[string]*Instruction
	byOpcode    map[uint32][]*Instruction
	register    map[string]uint32
}

// instructions is the source list of the table, in decode preference order.
var instructions = []Instruction{
	// RV32I register-register
	{Mnemonic: "add", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b000, Funct7: FUNCT7_BASE},
	{Mnemonic: "sub", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b000, Funct7: FUNCT7_ALT},
	{Mnemonic: "sll", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b001, Funct7: FUNCT7_BASE},
	{Mnemonic: "slt", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b010, Funct7: FUNCT7_BASE},
	{Mnemonic: "sltu", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b011, Funct7: FUNCT7_BASE},
	{Mnemonic: "xor", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b100, Funct7: FUNCT7_BASE},
	{Mnemonic: "srl", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b101, Funct7: FUNCT7_BASE},
	{Mnemonic: "sra", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b101, Funct7: FUNCT7_ALT},
	{Mnemonic: "or", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b110, Funct7: FUNCT7_BASE},
	{Mnemonic: "and", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b111, Funct7: FUNCT7_BASE},

	// RV32M
	{Mnemonic: "mul", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b000, Funct7: FUNCT7_MULDIV},
	{Mnemonic: "mulh", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b001, Funct7: FUNCT7_MULDIV},
	{Mnemonic: "mulhsu", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b010, Funct7: FUNCT7_MULDIV},
	{Mnemonic: "mulhu", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b011, Funct7: FUNCT7_MULDIV},
	{Mnemonic: "div", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b100, Funct7: FUNCT7_MULDIV},
	{Mnemonic: "divu", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b101, Funct7: FUNCT7_MULDIV},
	{Mnemonic: "rem", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b110, Funct7: FUNCT7_MULDIV},
	{Mnemonic: "remu", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP, Funct3: 0b111, Funct7: FUNCT7_MULDIV},

	// RV32I register-immediate
	{Mnemonic: "addi", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_IMM, Opcode: OPCODE_OP_IMM, Funct3: 0b000},
	{Mnemonic: "slti", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_IMM, Opcode: OPCODE_OP_IMM, Funct3: 0b010},
	{Mnemonic: "sltiu", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_IMM, Opcode: OPCODE_OP_IMM, Funct3: 0b011},
	{Mnemonic: "xori", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_IMM, Opcode: OPCODE_OP_IMM, Funct3: 0b100},
	{Mnemonic: "ori", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_IMM, Opcode: OPCODE_OP_IMM, Funct3: 0b110},
	{Mnemonic: "andi", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_IMM, Opcode: OPCODE_OP_IMM, Funct3: 0b111},
	{Mnemonic: "slli", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_SHAMT, Opcode: OPCODE_OP_IMM, Funct3: 0b001, Funct7: FUNCT7_BASE},
	{Mnemonic: "srli", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_SHAMT, Opcode: OPCODE_OP_IMM, Funct3: 0b101, Funct7: FUNCT7_BASE},
	{Mnemonic: "srai", Format: FORMAT_I, Operands: OPERANDS_RD_RS1_SHAMT, Opcode: OPCODE_OP_IMM, Funct3: 0b101, Funct7: FUNCT7_ALT},

	// Loads and stores
	{Mnemonic: "lb", Format: FORMAT_I, Operands: OPERANDS_RD_MEM, Opcode: OPCODE_LOAD, Funct3: 0b000},
	{Mnemonic: "lh", Format: FORMAT_I, Operands: OPERANDS_RD_MEM, Opcode: OPCODE_LOAD, Funct3: 0b001},
	{Mnemonic: "lw", Format: FORMAT_I, Operands: OPERANDS_RD_MEM, Opcode: OPCODE_LOAD, Funct3: 0b010},
	{Mnemonic: "lbu", Format: FORMAT_I, Operands: OPERANDS_RD_MEM, Opcode: OPCODE_LOAD, Funct3: 0b100},
	{Mnemonic: "lhu", Format: FORMAT_I, Operands: OPERANDS_RD_MEM, Opcode: OPCODE_LOAD, Funct3: 0b101},
	{Mnemonic: "sb", Format: FORMAT_S, Operands: OPERANDS_RS2_MEM, Opcode: OPCODE_STORE, Funct3: 0b000},
	{Mnemonic: "sh", Format: FORMAT_S, Operands: OPERANDS_RS2_MEM, Opcode: OPCODE_STORE, Funct3: 0b001},
	{Mnemonic: "sw", Format: FORMAT_S, Operands: OPERANDS_RS2_MEM, Opcode: OPCODE_STORE, Funct3: 0b010},

	// Control transfer
	{Mnemonic: "beq", Format: FORMAT_B, Operands: OPERANDS_RS1_RS2_IMM, Opcode: OPCODE_BRANCH, Funct3: 0b000},
	{Mnemonic: "bne", Format: FORMAT_B, Operands: OPERANDS_RS1_RS2_IMM, Opcode: OPCODE_BRANCH, Funct3: 0b001},
	{Mnemonic: "blt", Format: FORMAT_B, Operands: OPERANDS_RS1_RS2_IMM, Opcode: OPCODE_BRANCH, Funct3: 0b100},
	{Mnemonic: "bge", Format: FORMAT_B, Operands: OPERANDS_RS1_RS2_IMM, Opcode: OPCODE_BRANCH, Funct3: 0b101},
	{Mnemonic: "bltu", Format: FORMAT_B, Operands: OPERANDS_RS1_RS2_IMM, Opcode: OPCODE_BRANCH, Funct3: 0b110},
	{Mnemonic: "bgeu", Format: FORMAT_B, Operands: OPERANDS_RS1_RS2_IMM, Opcode: OPCODE_BRANCH, Funct3: 0b111},
	{Mnemonic: "jal", Format: FORMAT_J, Operands: OPERANDS_RD_IMM, Opcode: OPCODE_JAL},
	{Mnemonic: "jalr", Format: FORMAT_I, Operands: OPERANDS_RD_MEM, Opcode: OPCODE_JALR, Funct3: 0b000},
	{Mnemonic: "lui", Format: FORMAT_U, Operands: OPERANDS_RD_IMM, Opcode: OPCODE_LUI},
	{Mnemonic: "auipc", Format: FORMAT_U, Operands: OPERANDS_RD_IMM, Opcode: OPCODE_AUIPC},

	// System
	{Mnemonic: "ecall", Format: FORMAT_FIXED, Opcode: OPCODE_SYSTEM, Word: WORD_ECALL},
	{Mnemonic: "ebreak", Format: FORMAT_FIXED, Opcode: OPCODE_SYSTEM, Word: WORD_EBREAK},
	{Mnemonic: "fence", Format: FORMAT_FIXED, Opcode: OPCODE_MISC_MEM, Word: WORD_FENCE},
	{Mnemonic: "csrrw", Format: FORMAT_I, Operands: OPERANDS_RD_CSR_RS1, Opcode: OPCODE_SYSTEM, Funct3: 0b001},
	{Mnemonic: "csrrs", Format: FORMAT_I, Operands: OPERANDS_RD_CSR_RS1, Opcode: OPCODE_SYSTEM, Funct3: 0b010},
	{Mnemonic: "csrrc", Format: FORMAT_I, Operands: OPERANDS_RD_CSR_RS1, Opcode: OPCODE_SYSTEM, Funct3: 0b011},
	{Mnemonic: "csrrwi", Format: FORMAT_I, Operands: OPERANDS_RD_CSR_UIMM, Opcode: OPCODE_SYSTEM, Funct3: 0b101},
	{Mnemonic: "csrrsi", Format: FORMAT_I, Operands: OPERANDS_RD_CSR_UIMM, Opcode: OPCODE_SYSTEM, Funct3: 0b110},
	{Mnemonic: "csrrci", Format: FORMAT_I, Operands: OPERANDS_RD_CSR_UIMM, Opcode: OPCODE_SYSTEM, Funct3: 0b111},

	// RV32F
	{Mnemonic: "flw", Format: FORMAT_I, Operands: OPERANDS_RD_MEM, Opcode: OPCODE_LOAD_FP, Funct3: 0b010, Float: FLOAT_RD},
	{Mnemonic: "fsw", Format: FORMAT_S, Operands: OPERANDS_RS2_MEM, Opcode: OPCODE_STORE_FP, Funct3: 0b010, Float: FLOAT_RS2},
	{Mnemonic: "fadd.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FADD, Rm: true, Float: FLOAT_ALL},
	{Mnemonic: "fsub.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FSUB, Rm: true, Float: FLOAT_ALL},
	{Mnemonic: "fmul.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FMUL, Rm: true, Float: FLOAT_ALL},
	{Mnemonic: "fdiv.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FDIV, Rm: true, Float: FLOAT_ALL},
	{Mnemonic: "fsqrt.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FSQRT, Rs2: 0, Rm: true, Float: FLOAT_RD | FLOAT_RS1},
	{Mnemonic: "fsgnj.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: 0b000, Funct7: FUNCT7_FSGNJ, Float: FLOAT_ALL},
	{Mnemonic: "fsgnjn.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: 0b001, Funct7: FUNCT7_FSGNJ, Float: FLOAT_ALL},
	{Mnemonic: "fsgnjx.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: 0b010, Funct7: FUNCT7_FSGNJ, Float: FLOAT_ALL},
	{Mnemonic: "fmin.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: 0b000, Funct7: FUNCT7_FMINMAX, Float: FLOAT_ALL},
	{Mnemonic: "fmax.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: 0b001, Funct7: FUNCT7_FMINMAX, Float: FLOAT_ALL},
	{Mnemonic: "fcvt.w.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FCVT_W_S, Rs2: 0, Rm: true, Float: FLOAT_RS1},
	{Mnemonic: "fcvt.wu.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FCVT_W_S, Rs2: 1, Rm: true, Float: FLOAT_RS1},
	{Mnemonic: "fmv.x.w", Format: FORMAT_R, Operands: OPERANDS_RD_RS1, Opcode: OPCODE_OP_FP, Funct3: 0b000, Funct7: FUNCT7_FMV_X_W, Rs2: 0, Float: FLOAT_RS1},
	{Mnemonic: "fclass.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1, Opcode: OPCODE_OP_FP, Funct3: 0b001, Funct7: FUNCT7_FMV_X_W, Rs2: 0, Float: FLOAT_RS1},
	{Mnemonic: "feq.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: 0b010, Funct7: FUNCT7_FCMP, Float: FLOAT_RS1 | FLOAT_RS2},
	{Mnemonic: "flt.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: 0b001, Funct7: FUNCT7_FCMP, Float: FLOAT_RS1 | FLOAT_RS2},
	{Mnemonic: "fle.s", Format: FORMAT_R, Operands: OPERANDS_RD_RS1_RS2, Opcode: OPCODE_OP_FP, Funct3: 0b000, Funct7: FUNCT7_FCMP, Float: FLOAT_RS1 | FLOAT_RS2},
	{Mnemonic: "fcvt.s.w", Format: FORMAT_R, Operands: OPERANDS_RD_RS1, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FCVT_S_W, Rs2: 0, Rm: true, Float: FLOAT_RD},
	{Mnemonic: "fcvt.s.wu", Format: FORMAT_R, Operands: OPERANDS_RD_RS1, Opcode: OPCODE_OP_FP, Funct3: RM_DYN, Funct7: FUNCT7_FCVT_S_W, Rs2: 1, Rm: true, Float: FLOAT_RD},
	{Mnemonic: "fmv.w.x", Format: FORMAT_R, Operands: OPERANDS_RD_RS1, Opcode: OPCODE_OP_FP, Funct3: 0b000, Funct7: FUNCT7_FMV_W_X, Rs2: 0, Float: FLOAT_RD},

	// GPIO peripheral extension. gpio.set is followed by a data word
	// holding the address of the configuration record.
	{Mnemonic: "gpio.set", Format: FORMAT_I, Operands: OPERANDS_IMM, Opcode: OPCODE_GPIO, Funct3: 0b000},
	{Mnemonic: "gpio.reset", Format: FORMAT_I, Operands: OPERANDS_IMM, Opcode: OPCODE_GPIO, Funct3: 0b001},
}

// NewTable builds the instruction and register lookup table.
func NewTable() (tbl *Table) {
	tbl = &Table{
		instruction: make(map[string]*Instruction, len(instructions)),
		byOpcode:    make(map[uint32][]*Instruction),
		register:    registerMap(),
	}

	for n := range instructions {
		in := &instructions[n]
		tbl.instruction[in.Mnemonic] = in
		tbl.byOpcode[in.Opcode] = append(tbl.byOpcode[in.Opcode], in)
	}

	return
}

// Default returns the shared table, built on first use.
var Default = sync.OnceValue(NewTable)

// Lookup returns the metadata of a mnemonic.
func (tbl *Table) Lookup(mnemonic string) (in *Instruction, ok bool) {
	in, ok = tbl.instruction[mnemonic]
	return
}

// Register returns the index of a register name.
func (tbl *Table) Register(name string) (index uint32, ok bool) {
	index, ok = tbl.register[name]
	return
}

// Mnemonics returns the sorted mnemonics of the table.
func (tbl *Table) Mnemonics() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(tbl.instruction)))
}

// Decode finds the instruction metadata that matches a machine word.
func (tbl *Table) Decode(word uint32) (in *Instruction, ok bool) {
	opcode := word & 0x7f
	funct3 := (word >> 12) & 0x7
	funct7 := word >> 25
	rs2 := (word >> 20) & 0x1f

	for _, cand := range tbl.byOpcode[opcode] {
		switch cand.Format {
		case FORMAT_FIXED:
			if word != cand.Word {
				continue
			}
		case FORMAT_U, FORMAT_J:
			// opcode alone selects
		case FORMAT_R:
			if cand.Funct7 != funct7 {
				continue
			}
			if !cand.Rm && cand.Funct3 != funct3 {
				continue
			}
			if cand.Operands == OPERANDS_RD_RS1 && cand.Rs2 != rs2 {
				continue
			}
		default:
			if cand.Funct3 != funct3 {
				continue
			}
			if cand.Operands == OPERANDS_RD_RS1_SHAMT && cand.Funct7 != funct7 {
				continue
			}
		}
		return cand, true
	}

	return
}
