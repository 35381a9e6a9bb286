package cpu

import (
	"errors"
	"log"
	"math"

	"github.com/ezrec/toast/gpio"
	"github.com/ezrec/toast/isa"
)

// Execute executes a single instruction word at the current pc.
// halted is set by an ecall with the exit syscall number in a7; pc has
// already advanced past the ecall. On error the pc is left unchanged.
func (cpu *Cpu) Execute(code Code) (halted bool, err error) {
	defer func() {
		cpu.Register[isa.REG_ZERO] = 0
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.Pc, code)
	}

	next := cpu.Pc + 4

	rd := code.Rd()
	a := cpu.Register[code.Rs1()]
	b := cpu.Register[code.Rs2()]

	switch code.Opcode() {
	case isa.OPCODE_OP:
		var value uint32
		value, err = aluOp(code.Funct7(), code.Funct3(), a, b)
		if err != nil {
			return
		}
		cpu.Register[rd] = value
	case isa.OPCODE_OP_IMM:
		var value uint32
		value, err = aluImmOp(code, a)
		if err != nil {
			return
		}
		cpu.Register[rd] = value
	case isa.OPCODE_LOAD:
		var value uint32
		value, err = cpu.load(code.Funct3(), a+uint32(code.ImmI()))
		if err != nil {
			return
		}
		cpu.Register[rd] = value
	case isa.OPCODE_STORE:
		err = cpu.store(code.Funct3(), a+uint32(code.ImmS()), b)
		if err != nil {
			return
		}
	case isa.OPCODE_BRANCH:
		var taken bool
		taken, err = branch(code.Funct3(), a, b)
		if err != nil {
			return
		}
		if taken {
			next = cpu.Pc + uint32(code.ImmB())
		}
	case isa.OPCODE_JALR:
		if code.Funct3() != 0 {
			err = ErrIllegalInstruction
			return
		}
		next = (a + uint32(code.ImmI())) &^ 1
		cpu.Register[rd] = cpu.Pc + 4
	case isa.OPCODE_JAL:
		cpu.Register[rd] = cpu.Pc + 4
		next = cpu.Pc + uint32(code.ImmJ())
	case isa.OPCODE_LUI:
		cpu.Register[rd] = code.ImmU()
	case isa.OPCODE_AUIPC:
		cpu.Register[rd] = cpu.Pc + code.ImmU()
	case isa.OPCODE_MISC_MEM:
		// fence and fence.i are no-ops on a single hart.
		if code.Funct3() > 1 {
			err = ErrIllegalInstruction
			return
		}
	case isa.OPCODE_SYSTEM:
		halted, err = cpu.system(code)
		if err != nil {
			return
		}
	case isa.OPCODE_LOAD_FP:
		if code.Funct3() != 0b010 {
			err = ErrIllegalInstruction
			return
		}
		var value uint32
		value, err = cpu.ReadMem(a + uint32(code.ImmI()))
		if err != nil {
			return
		}
		cpu.Float[rd] = value
	case isa.OPCODE_STORE_FP:
		if code.Funct3() != 0b010 {
			err = ErrIllegalInstruction
			return
		}
		err = cpu.SetMem(a+uint32(code.ImmS()), cpu.Float[code.Rs2()])
		if err != nil {
			return
		}
	case isa.OPCODE_OP_FP:
		err = cpu.executeFp(code)
		if err != nil {
			return
		}
	case isa.OPCODE_GPIO:
		next, err = cpu.peripheral(code)
		if err != nil {
			return
		}
	default:
		err = ErrIllegalInstruction
		return
	}

	cpu.Pc = next

	return
}

// aluOp performs the register-register operations, including RV32M.
func aluOp(funct7, funct3 uint32, a, b uint32) (value uint32, err error) {
	switch funct7 {
	case isa.FUNCT7_BASE:
		switch funct3 {
		case 0b000:
			value = a + b
		case 0b001:
			value = a << (b & 0x1f)
		case 0b010:
			value = boolValue(int32(a) < int32(b))
		case 0b011:
			value = boolValue(a < b)
		case 0b100:
			value = a ^ b
		case 0b101:
			value = a >> (b & 0x1f)
		case 0b110:
			value = a | b
		case 0b111:
			value = a & b
		}
	case isa.FUNCT7_ALT:
		switch funct3 {
		case 0b000:
			value = a - b
		case 0b101:
			value = uint32(int32(a) >> (b & 0x1f))
		default:
			err = ErrIllegalInstruction
		}
	case isa.FUNCT7_MULDIV:
		value = mulDiv(funct3, a, b)
	default:
		err = ErrIllegalInstruction
	}

	return
}

// mulDiv performs the RV32M operations. Division by zero and signed
// overflow produce the architectural results.
func mulDiv(funct3 uint32, a, b uint32) (value uint32) {
	sa, sb := int32(a), int32(b)

	switch funct3 {
	case 0b000: // mul
		value = a * b
	case 0b001: // mulh
		value = uint32((int64(sa) * int64(sb)) >> 32)
	case 0b010: // mulhsu
		value = uint32((int64(sa) * int64(b)) >> 32)
	case 0b011: // mulhu
		value = uint32((uint64(a) * uint64(b)) >> 32)
	case 0b100: // div
		switch {
		case b == 0:
			value = math.MaxUint32
		case sa == math.MinInt32 && sb == -1:
			value = a
		default:
			value = uint32(sa / sb)
		}
	case 0b101: // divu
		if b == 0 {
			value = math.MaxUint32
		} else {
			value = a / b
		}
	case 0b110: // rem
		switch {
		case b == 0:
			value = a
		case sa == math.MinInt32 && sb == -1:
			value = 0
		default:
			value = uint32(sa % sb)
		}
	case 0b111: // remu
		if b == 0 {
			value = a
		} else {
			value = a % b
		}
	}

	return
}

// aluImmOp performs the register-immediate operations.
func aluImmOp(code Code, a uint32) (value uint32, err error) {
	imm := uint32(code.ImmI())
	shamt := code.Rs2()

	switch code.Funct3() {
	case 0b000:
		value = a + imm
	case 0b010:
		value = boolValue(int32(a) < int32(imm))
	case 0b011:
		value = boolValue(a < imm)
	case 0b100:
		value = a ^ imm
	case 0b110:
		value = a | imm
	case 0b111:
		value = a & imm
	case 0b001:
		if code.Funct7() != isa.FUNCT7_BASE {
			err = ErrIllegalInstruction
			return
		}
		value = a << shamt
	case 0b101:
		switch code.Funct7() {
		case isa.FUNCT7_BASE:
			value = a >> shamt
		case isa.FUNCT7_ALT:
			value = uint32(int32(a) >> shamt)
		default:
			err = ErrIllegalInstruction
		}
	}

	return
}

// load reads memory, sign extending lb and lh.
func (cpu *Cpu) load(funct3 uint32, address uint32) (value uint32, err error) {
	switch funct3 {
	case 0b000: // lb
		var data uint8
		data, err = cpu.ReadMem8(address)
		value = uint32(int32(int8(data)))
	case 0b001: // lh
		var data uint16
		data, err = cpu.ReadMem16(address)
		value = uint32(int32(int16(data)))
	case 0b010: // lw
		value, err = cpu.ReadMem(address)
	case 0b100: // lbu
		var data uint8
		data, err = cpu.ReadMem8(address)
		value = uint32(data)
	case 0b101: // lhu
		var data uint16
		data, err = cpu.ReadMem16(address)
		value = uint32(data)
	default:
		err = ErrIllegalInstruction
	}

	return
}

// store writes the low bytes of value to memory.
func (cpu *Cpu) store(funct3 uint32, address uint32, value uint32) (err error) {
	switch funct3 {
	case 0b000: // sb
		err = cpu.SetMem8(address, uint8(value))
	case 0b001: // sh
		err = cpu.SetMem16(address, uint16(value))
	case 0b010: // sw
		err = cpu.SetMem(address, value)
	default:
		err = ErrIllegalInstruction
	}

	return
}

// branch evaluates a branch condition.
func branch(funct3 uint32, a, b uint32) (taken bool, err error) {
	switch funct3 {
	case 0b000:
		taken = a == b
	case 0b001:
		taken = a != b
	case 0b100:
		taken = int32(a) < int32(b)
	case 0b101:
		taken = int32(a) >= int32(b)
	case 0b110:
		taken = a < b
	case 0b111:
		taken = a >= b
	default:
		err = ErrIllegalInstruction
	}

	return
}

// system handles ecall, ebreak and the CSR instructions. CSR accesses
// are accepted and have no effect.
func (cpu *Cpu) system(code Code) (halted bool, err error) {
	switch code.Funct3() {
	case 0b000:
		switch uint32(code) >> 20 {
		case 0: // ecall
			if cpu.Register[isa.REG_A7] == isa.EXIT_SYSCALL {
				if cpu.Verbose {
					log.Printf("%08x: exit", cpu.Pc)
				}
				halted = true
			}
		case 1: // ebreak
		default:
			err = ErrIllegalInstruction
		}
	case 0b100:
		err = ErrIllegalInstruction
	}

	return
}

// peripheral executes the GPIO peripheral extension. gpio.set reads the address
// of a configuration record from the word following the instruction.
func (cpu *Cpu) peripheral(code Code) (next uint32, err error) {
	index := uint32(code.ImmI())

	switch code.Funct3() {
	case 0b000:
		var address uint32
		address, err = cpu.ReadMem(cpu.Pc + 4)
		if err != nil {
			return
		}
		err = cpu.check(address, gpio.STATE_SIZE)
		if err != nil {
			return
		}
		var state gpio.State
		err = state.UnmarshalBinary(cpu.Memory[address : address+gpio.STATE_SIZE])
		if err != nil {
			return
		}
		err = cpu.Gpio.Set(index, state)
		if err != nil {
			return
		}
		if cpu.Verbose {
			log.Printf("gpio%d: %v", index, state)
		}
		next = cpu.Pc + 8
	case 0b001:
		err = cpu.Gpio.ResetSlot(index)
		if err != nil {
			return
		}
		next = cpu.Pc + 4
	default:
		err = ErrIllegalInstruction
	}

	return
}

func boolValue(cond bool) uint32 {
	if cond {
		return 1
	}
	return 0
}
