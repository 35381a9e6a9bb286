// Package cpu implements the RV32IMF instruction set simulator.
//
// The CPU consists of a program counter, 32 integer registers (x0 is
// hard-wired to zero), 32 floating point registers held as raw IEEE-754
// single precision bits, a fixed size byte addressable little-endian memory
// and a bank of GPIO peripheral slots configured by the custom GPIO opcode.
//
// Faults are returned as errors from Execute, Tick and Run; no machine word
// can crash the host.
package cpu
