package asm

import (
	"log"
	"strconv"
)

// pseudoOp rewrites the operands of a pseudo-instruction into one or more
// real instructions.
type pseudoOp struct {
	Operands int
	Expand   func(ex *Expander, args []string) (lines [][]string, err error)
}

// pseudoOps maps pseudo-instruction mnemonics to their rewrite.
var pseudoOps = map[string]pseudoOp{
	"li": {2, (*Expander).li},
	"mv": {2, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"addi", args[0], args[1], "0"}}, nil
	}},
	"nop": {0, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"addi", "x0", "x0", "0"}}, nil
	}},
	"not": {2, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"xori", args[0], args[1], "-1"}}, nil
	}},
	"neg": {2, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"sub", args[0], "x0", args[1]}}, nil
	}},
	"j": {1, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"jal", "x0", args[0]}}, nil
	}},
	"jr": {1, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"jalr", "x0", "0(" + args[0] + ")"}}, nil
	}},
	"ret": {0, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"jalr", "x0", "0(ra)"}}, nil
	}},
	"call": {1, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"jal", "ra", args[0]}}, nil
	}},
	"beqz": {2, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"beq", args[0], "x0", args[1]}}, nil
	}},
	"bnez": {2, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"bne", args[0], "x0", args[1]}}, nil
	}},
	"bgt": {3, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"blt", args[1], args[0], args[2]}}, nil
	}},
	"ble": {3, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"bge", args[1], args[0], args[2]}}, nil
	}},
	"bgtu": {3, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"bltu", args[1], args[0], args[2]}}, nil
	}},
	"bleu": {3, func(_ *Expander, args []string) ([][]string, error) {
		return [][]string{{"bgeu", args[1], args[0], args[2]}}, nil
	}},
}

// IsPseudo reports whether mnemonic is a pseudo-instruction.
func IsPseudo(mnemonic string) (ok bool) {
	_, ok = pseudoOps[mnemonic]
	return
}

// Expander rewrites pseudo-instructions into real instructions, and splits
// multi-value .word directives into one line per value.
type Expander struct {
	Verbose bool

	// LiExact selects a carry-corrected `li` expansion that loads every
	// 32-bit value exactly. Otherwise large values load imm>>12 into the
	// upper bits and only imm&0xFF into the lower bits.
	LiExact bool
}

// Expand returns a new LineList with every pseudo-instruction replaced.
// Labels on a pseudo-instruction bind to the first line of its expansion.
func (ex *Expander) Expand(lines LineList) (expanded LineList, err error) {
	expanded = LineList{}
	for _, line := range lines {
		inner, labels := Unlabel(line)

		var out []Line
		switch in := inner.(type) {
		case *Instruction:
			op, ok := pseudoOps[in.Mnemonic()]
			if !ok {
				out = []Line{in}
				break
			}
			args := in.Tokens[1:]
			if len(args) < op.Operands {
				err = &ErrSyntax{LineNo: in.LineNo, Line: in.String(), Err: ErrOpcodeValueMissing}
				return
			}
			if len(args) > op.Operands {
				err = &ErrSyntax{LineNo: in.LineNo, Line: in.String(), Err: ErrOpcodeExtraArgs}
				return
			}
			var rewrite [][]string
			rewrite, err = op.Expand(ex, args)
			if err != nil {
				err = &ErrSyntax{LineNo: in.LineNo, Line: in.String(), Err: err}
				return
			}
			for _, tokens := range rewrite {
				out = append(out, &Instruction{LineNo: in.LineNo, Tokens: tokens})
			}
			if ex.Verbose {
				log.Printf("expand: %v => %v", in, LineList(out))
			}
		case *Word:
			for _, token := range in.Tokens {
				out = append(out, &Word{LineNo: in.LineNo, Tokens: []string{token}})
			}
		default:
			out = []Line{inner}
		}

		out[0] = Relabel(out[0], labels)
		expanded = append(expanded, out...)
	}

	return
}

// li loads an immediate into a register.
func (ex *Expander) li(args []string) (lines [][]string, err error) {
	rd := args[0]
	imm, err := parseNumber(args[1])
	if err != nil {
		if isIdentifier(args[1]) {
			// Label addresses are not known until after Resolve.
			lines = [][]string{
				{"lui", rd, "%hi(" + args[1] + ")"},
				{"addi", rd, rd, "%lo(" + args[1] + ")"},
			}
			err = nil
		}
		return
	}

	if imm >= -2048 && imm < 2048 {
		lines = [][]string{{"addi", rd, "x0", strconv.FormatInt(imm, 10)}}
		return
	}

	hi := imm >> 12
	lo := imm & 0xFF
	if ex.LiExact {
		lo = imm & 0xFFF
		if lo >= 0x800 {
			lo -= 0x1000
			hi++
		}
		hi &= 0xFFFFF
	}

	lines = [][]string{
		{"lui", rd, strconv.FormatInt(hi, 10)},
		{"addi", rd, rd, strconv.FormatInt(lo, 10)},
	}

	return
}
