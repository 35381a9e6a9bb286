// Package asm implements the RISC-V assembler.
//
// Assembly runs as a pipeline: Preprocess frames the source text as a single
// block of statements, Parse builds a LineList of labels, instructions and
// .word directives, Expand rewrites pseudo-instructions into real ones,
// Resolve assigns each line a 4-byte aligned address and records the label
// table, and an Encoder packs every line into a big-endian machine word.
//
// The assembler supports `.equ NAME VALUE` textual constants and
// compile-time `$(...)` expressions over integer equates.
package asm
