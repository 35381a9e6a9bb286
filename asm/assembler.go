// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"io"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/toast/isa"
)

// Assembler converts RISC-V assembly text into a Program.
type Assembler struct {
	Verbose bool // Log each stage of assembly.
	Strict  bool // Reject out of range immediates.
	LiExact bool // Exact `li` expansion for large values.

	Isa *isa.Table // Instruction set; isa.Default() when nil.

	Label  Labels
	Equate map[string]string

	predefine map[string]string
}

// Predefine sets an equate that is defined before every assembly.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = make(map[string]string)
	}
	asm.predefine[equ] = value
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	text, err := io.ReadAll(input)
	if err != nil {
		return
	}

	block, lineNos := Preprocess(string(text))
	if asm.Verbose {
		log.Printf("preprocess: %v", block)
	}

	asm.Equate = map[string]string{"LINENO": "0"}
	maps.Copy(asm.Equate, asm.predefine)

	lines, err := Parse(block, lineNos, asm.Equate)
	if err != nil {
		return
	}

	ex := &Expander{Verbose: asm.Verbose, LiExact: asm.LiExact}
	lines, err = ex.Expand(lines)
	if err != nil {
		return
	}

	flat, labels, err := Resolve(lines)
	if err != nil {
		return
	}
	asm.Label = labels

	enc := &Encoder{Isa: asm.Isa, Labels: labels, Strict: asm.Strict}

	prog = &Program{
		Opcodes: make([]Opcode, 0, len(flat)),
		Labels:  labels,
	}
	for n, line := range flat {
		address := int64(n * INSTRUCTION_SIZE)
		var code uint32
		code, err = enc.Encode(line, address)
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineNo(line), Line: line.String(), Err: err}
			return
		}

		op := Opcode{
			LineNo:  lineNo(line),
			Address: address,
			Words:   strings.Fields(line.String()),
			Code:    code,
		}
		if asm.Verbose {
			log.Printf("%v", &op)
		}
		prog.Opcodes = append(prog.Opcodes, op)
	}

	return
}

// Assemble converts assembly text into a big-endian program image.
func (asm *Assembler) Assemble(text string) (bin []byte, err error) {
	prog, err := asm.Parse(strings.NewReader(text))
	if err != nil {
		return
	}

	bin = prog.Binary()

	return
}
