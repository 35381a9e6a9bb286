// Package isa holds the instruction metadata table for the RV32I/M/F
// instruction set plus the custom GPIO extension.
//
// The table maps each mnemonic to its machine format, operand syntax and the
// fixed opcode/funct3/funct7 bit fields, and maps every integer and floating
// point register name (including the ABI aliases) to its register index.
// A Table is immutable once built; Default returns a process-wide instance
// that is constructed on first use.
package isa
