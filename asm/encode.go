package asm

import (
	"strconv"
	"strings"

	"github.com/ezrec/toast/isa"
)

// fields holds the operand values of one instruction.
type fields struct {
	rd  uint32
	rs1 uint32
	rs2 uint32
	imm int64
}

type packer func(in *isa.Instruction, fl fields) uint32

var packers = [...]packer{
	isa.FORMAT_R:     packR,
	isa.FORMAT_I:     packI,
	isa.FORMAT_S:     packS,
	isa.FORMAT_B:     packB,
	isa.FORMAT_U:     packU,
	isa.FORMAT_J:     packJ,
	isa.FORMAT_FIXED: packFixed,
}

func packR(in *isa.Instruction, fl fields) uint32 {
	return (in.Funct7&0x7f)<<25 |
		(fl.rs2&0x1f)<<20 |
		(fl.rs1&0x1f)<<15 |
		(in.Funct3&0x7)<<12 |
		(fl.rd&0x1f)<<7 |
		(in.Opcode & 0x7f)
}

func packI(in *isa.Instruction, fl fields) uint32 {
	imm := uint32(fl.imm)
	return (imm&0xfff)<<20 |
		(fl.rs1&0x1f)<<15 |
		(in.Funct3&0x7)<<12 |
		(fl.rd&0x1f)<<7 |
		(in.Opcode & 0x7f)
}

func packS(in *isa.Instruction, fl fields) uint32 {
	imm := uint32(fl.imm)
	return ((imm>>5)&0x7f)<<25 |
		(fl.rs2&0x1f)<<20 |
		(fl.rs1&0x1f)<<15 |
		(in.Funct3&0x7)<<12 |
		(imm&0x1f)<<7 |
		(in.Opcode & 0x7f)
}

func packB(in *isa.Instruction, fl fields) uint32 {
	imm := uint32(fl.imm)
	return ((imm>>12)&0x1)<<31 |
		((imm>>5)&0x3f)<<25 |
		(fl.rs2&0x1f)<<20 |
		(fl.rs1&0x1f)<<15 |
		(in.Funct3&0x7)<<12 |
		((imm>>1)&0xf)<<8 |
		((imm>>11)&0x1)<<7 |
		(in.Opcode & 0x7f)
}

func packU(in *isa.Instruction, fl fields) uint32 {
	imm := uint32(fl.imm)
	return (imm&0xfffff)<<12 |
		(fl.rd&0x1f)<<7 |
		(in.Opcode & 0x7f)
}

func packJ(in *isa.Instruction, fl fields) uint32 {
	imm := uint32(fl.imm)
	return ((imm>>20)&0x1)<<31 |
		((imm>>1)&0x3ff)<<21 |
		((imm>>11)&0x1)<<20 |
		((imm>>12)&0xff)<<12 |
		(fl.rd&0x1f)<<7 |
		(in.Opcode & 0x7f)
}

func packFixed(in *isa.Instruction, fl fields) uint32 {
	return in.Word
}

// Encoder packs resolved lines into machine words.
type Encoder struct {
	Isa    *isa.Table
	Labels Labels

	// Strict rejects immediates that do not fit their field, instead of
	// silently truncating them.
	Strict bool
}

// Encode packs a single unlabeled line located at address.
func (enc *Encoder) Encode(line Line, address int64) (code uint32, err error) {
	switch in := line.(type) {
	case *Word:
		code, err = enc.encodeWord(in)
	case *Instruction:
		code, err = enc.encodeInstruction(in, address)
	case *Label:
		inner, _ := Unlabel(in)
		code, err = enc.Encode(inner, address)
	default:
		err = ErrInstructionInvalid
	}
	return
}

func (enc *Encoder) table() *isa.Table {
	if enc.Isa == nil {
		return isa.Default()
	}
	return enc.Isa
}

func (enc *Encoder) encodeWord(wd *Word) (code uint32, err error) {
	if len(wd.Tokens) == 0 {
		err = ErrWordEmpty
		return
	}
	if len(wd.Tokens) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	token := wd.Tokens[0]
	value, ok := enc.Labels[token]
	if !ok {
		value, err = enc.immediate(token)
		if err != nil {
			return
		}
	}

	if enc.Strict && (value < -(1<<31) || value >= (1<<32)) {
		err = ErrImmediateRange(value)
		return
	}

	code = uint32(value)

	return
}

// substitute replaces label operands with their values. Branch and jump
// targets become PC-relative offsets; all other uses are absolute.
func (enc *Encoder) substitute(format isa.Format, args []string, address int64) (out []string) {
	out = make([]string, len(args))
	for n, arg := range args {
		out[n] = arg
		if value, ok := enc.relocation(arg); ok {
			out[n] = value
		} else if value, ok := enc.Labels[arg]; ok {
			if format == isa.FORMAT_B || format == isa.FORMAT_J {
				value -= address
			}
			out[n] = strconv.FormatInt(value, 10)
		} else if head, tail, ok := strings.Cut(arg, "("); ok {
			if value, ok := enc.Labels[head]; ok {
				out[n] = strconv.FormatInt(value, 10) + "(" + tail
			}
		}
	}
	return
}

// relocation resolves `%hi(label)` and `%lo(label)` to the upper and
// lower parts of the label address. The lower part is sign-extended, so
// `lui` of the upper part plus `addi` of the lower part is the address.
// An unknown label resolves to its bare name.
func (enc *Encoder) relocation(arg string) (out string, ok bool) {
	for _, part := range []string{"%hi(", "%lo("} {
		name, found := strings.CutPrefix(arg, part)
		if !found {
			continue
		}
		name, found = strings.CutSuffix(name, ")")
		if !found {
			return
		}

		ok = true
		value, known := enc.Labels[name]
		if !known {
			out = name
			return
		}

		lo := value & 0xFFF
		if lo >= 0x800 {
			lo -= 0x1000
		}
		if part == "%hi(" {
			out = strconv.FormatInt(((value-lo)>>12)&0xFFFFF, 10)
		} else {
			out = strconv.FormatInt(lo, 10)
		}
		return
	}

	return
}

func (enc *Encoder) encodeInstruction(in *Instruction, address int64) (code uint32, err error) {
	mnemonic := in.Mnemonic()
	inst, ok := enc.table().Lookup(mnemonic)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := enc.substitute(inst.Format, in.Tokens[1:], address)

	want := inst.Operands.Count()
	if inst.Operands == isa.OPERANDS_RD_MEM && len(args) == 3 {
		want = 3
	}
	switch {
	case len(args) < want:
		err = ErrOpcodeValueMissing
		return
	case len(args) > want:
		err = ErrOpcodeExtraArgs
		return
	}

	var fl fields
	switch inst.Operands {
	case isa.OPERANDS_NONE:
	case isa.OPERANDS_RD_RS1_RS2:
		fl.rd, fl.rs1, fl.rs2, err = enc.registers3(inst, args[0], args[1], args[2])
	case isa.OPERANDS_RD_RS1:
		fl.rd, fl.rs1, _, err = enc.registers3(inst, args[0], args[1], "")
		fl.rs2 = inst.Rs2
	case isa.OPERANDS_RD_RS1_IMM:
		fl.rd, fl.rs1, _, err = enc.registers3(inst, args[0], args[1], "")
		if err == nil {
			fl.imm, err = enc.immediate(args[2])
		}
	case isa.OPERANDS_RD_RS1_SHAMT:
		fl.rd, fl.rs1, _, err = enc.registers3(inst, args[0], args[1], "")
		if err == nil {
			fl.imm, err = enc.immediate(args[2])
		}
		if err == nil {
			if enc.Strict && (fl.imm < 0 || fl.imm > 31) {
				err = ErrImmediateRange(fl.imm)
				return
			}
			fl.imm = (fl.imm & 0x1f) | int64(inst.Funct7)<<5
		}
	case isa.OPERANDS_RD_MEM:
		fl.rd, _, _, err = enc.registers3(inst, args[0], "", "")
		if err != nil {
			break
		}
		if len(args) == 3 {
			fl.rs1, err = enc.register(args[1], inst.Float&isa.FLOAT_RS1 != 0)
			if err == nil {
				fl.imm, err = enc.immediate(args[2])
			}
		} else {
			fl.imm, fl.rs1, err = enc.memory(args[1])
		}
	case isa.OPERANDS_RS2_MEM:
		fl.rs2, err = enc.register(args[0], inst.Float&isa.FLOAT_RS2 != 0)
		if err == nil {
			fl.imm, fl.rs1, err = enc.memory(args[1])
		}
	case isa.OPERANDS_RS1_RS2_IMM:
		fl.rs1, err = enc.register(args[0], false)
		if err == nil {
			fl.rs2, err = enc.register(args[1], false)
		}
		if err == nil {
			fl.imm, err = enc.immediate(args[2])
		}
	case isa.OPERANDS_RD_IMM:
		fl.rd, err = enc.register(args[0], false)
		if err == nil {
			fl.imm, err = enc.immediate(args[1])
		}
	case isa.OPERANDS_RD_CSR_RS1, isa.OPERANDS_RD_CSR_UIMM:
		fl.rd, err = enc.register(args[0], false)
		if err == nil {
			fl.imm, err = enc.immediate(args[1])
		}
		if err == nil && enc.Strict && (fl.imm < 0 || fl.imm > 0xfff) {
			err = ErrImmediateRange(fl.imm)
		}
		if err != nil {
			break
		}
		if inst.Operands == isa.OPERANDS_RD_CSR_RS1 {
			fl.rs1, err = enc.register(args[2], false)
		} else {
			var uimm int64
			uimm, err = enc.immediate(args[2])
			if err == nil && enc.Strict && (uimm < 0 || uimm > 31) {
				err = ErrImmediateRange(uimm)
			}
			fl.rs1 = uint32(uimm) & 0x1f
		}
		// CSR numbers are unsigned; skip the signed range check below.
		if err == nil {
			code = packers[inst.Format](inst, fl)
		}
		return
	case isa.OPERANDS_IMM:
		fl.imm, err = enc.immediate(args[0])
	}
	if err != nil {
		return
	}

	if enc.Strict && inst.Operands != isa.OPERANDS_RD_RS1_SHAMT {
		err = checkRange(inst.Format, fl.imm)
		if err != nil {
			return
		}
	}

	code = packers[inst.Format](inst, fl)

	return
}

// checkRange verifies an immediate fits the field of its format.
func checkRange(format isa.Format, imm int64) (err error) {
	ok := true
	switch format {
	case isa.FORMAT_I, isa.FORMAT_S:
		ok = imm >= -2048 && imm <= 2047
	case isa.FORMAT_B:
		ok = imm >= -4096 && imm <= 4095 && imm%2 == 0
	case isa.FORMAT_U:
		ok = imm >= -(1<<19) && imm < (1<<20)
	case isa.FORMAT_J:
		ok = imm >= -(1<<20) && imm < (1<<20) && imm%2 == 0
	}
	if !ok {
		err = ErrImmediateRange(imm)
	}
	return
}

// registers3 parses up to three register operands, honoring the float
// operand mask of the instruction. Empty names are skipped.
func (enc *Encoder) registers3(inst *isa.Instruction, rd, rs1, rs2 string) (ird, irs1, irs2 uint32, err error) {
	if rd != "" {
		ird, err = enc.register(rd, inst.Float&isa.FLOAT_RD != 0)
		if err != nil {
			return
		}
	}
	if rs1 != "" {
		irs1, err = enc.register(rs1, inst.Float&isa.FLOAT_RS1 != 0)
		if err != nil {
			return
		}
	}
	if rs2 != "" {
		irs2, err = enc.register(rs2, inst.Float&isa.FLOAT_RS2 != 0)
		if err != nil {
			return
		}
	}
	return
}

// register resolves a register name of the required file.
func (enc *Encoder) register(name string, float bool) (index uint32, err error) {
	index, ok := enc.table().Register(name)
	if !ok || isa.IsFloatRegister(name) != float {
		err = ErrRegisterInvalid(name)
		return
	}
	return
}

// immediate parses a numeric literal.
func (enc *Encoder) immediate(token string) (value int64, err error) {
	value, err = parseNumber(token)
	if err != nil {
		if _, ok := enc.table().Register(token); !ok && isIdentifier(token) {
			err = ErrLabelMissing(token)
		}
	}
	return
}

// memory parses an `imm(reg)` operand. A bare immediate uses x0 as base.
func (enc *Encoder) memory(token string) (imm int64, rs1 uint32, err error) {
	head, tail, ok := strings.Cut(token, "(")
	if !ok {
		imm, err = enc.immediate(token)
		return
	}

	reg, ok := strings.CutSuffix(tail, ")")
	if !ok {
		err = ErrMemorySyntax
		return
	}

	if len(head) > 0 {
		imm, err = enc.immediate(head)
		if err != nil {
			return
		}
	}

	rs1, err = enc.register(reg, false)

	return
}
