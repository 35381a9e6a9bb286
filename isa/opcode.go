package isa

// Major opcodes, the low 7 bits of every instruction word.
const (
	OPCODE_LOAD     = uint32(0b0000011)
	OPCODE_LOAD_FP  = uint32(0b0000111)
	OPCODE_MISC_MEM = uint32(0b0001111)
	OPCODE_OP_IMM   = uint32(0b0010011)
	OPCODE_AUIPC    = uint32(0b0010111)
	OPCODE_STORE    = uint32(0b0100011)
	OPCODE_STORE_FP = uint32(0b0100111)
	OPCODE_OP       = uint32(0b0110011)
	OPCODE_LUI      = uint32(0b0110111)
	OPCODE_OP_FP    = uint32(0b1010011)
	OPCODE_BRANCH   = uint32(0b1100011)
	OPCODE_JALR     = uint32(0b1100111)
	OPCODE_JAL      = uint32(0b1101111)
	OPCODE_SYSTEM   = uint32(0b1110011)
	OPCODE_GPIO     = uint32(0b1111000) // Custom GPIO peripheral extension.
)

// funct7 selectors for OPCODE_OP and the OPCODE_OP_IMM shifts.
const (
	FUNCT7_BASE   = uint32(0b0000000)
	FUNCT7_ALT    = uint32(0b0100000) // sub, sra, srai
	FUNCT7_MULDIV = uint32(0b0000001) // M extension
)

// funct7 selectors for OPCODE_OP_FP.
const (
	FUNCT7_FADD     = uint32(0b0000000)
	FUNCT7_FSUB     = uint32(0b0000100)
	FUNCT7_FMUL     = uint32(0b0001000)
	FUNCT7_FDIV     = uint32(0b0001100)
	FUNCT7_FSQRT    = uint32(0b0101100)
	FUNCT7_FSGNJ    = uint32(0b0010000)
	FUNCT7_FMINMAX  = uint32(0b0010100)
	FUNCT7_FCVT_W_S = uint32(0b1100000)
	FUNCT7_FMV_X_W  = uint32(0b1110000) // also fclass.s
	FUNCT7_FCMP     = uint32(0b1010000)
	FUNCT7_FCVT_S_W = uint32(0b1101000)
	FUNCT7_FMV_W_X  = uint32(0b1111000)
)

// Rounding modes, carried in funct3 of the floating point arithmetic ops.
const (
	RM_RNE = uint32(0b000) // Round to nearest, ties to even.
	RM_RTZ = uint32(0b001) // Round towards zero.
	RM_RDN = uint32(0b010) // Round down.
	RM_RUP = uint32(0b011) // Round up.
	RM_RMM = uint32(0b100) // Round to nearest, ties to max magnitude.
	RM_DYN = uint32(0b111) // Dynamic; no fcsr is modelled, so RNE.
)

// Fixed encodings.
const (
	WORD_ECALL  = uint32(0x00000073)
	WORD_EBREAK = uint32(0x00100073)
	WORD_FENCE  = uint32(0x0ff0000f)
)

// EXIT_SYSCALL is the a7 value that makes an ecall terminate the program.
const EXIT_SYSCALL = 10
