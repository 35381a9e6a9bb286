package cpu

import (
	"math"

	"github.com/ezrec/toast/isa"
)

const (
	CANONICAL_NAN = uint32(0x7fc00000) // Canonical quiet NaN.
	SIGN_BIT      = uint32(0x80000000)
)

// FCLASS result bits.
const (
	CLASS_NEG_INF       = uint32(1 << 0)
	CLASS_NEG_NORMAL    = uint32(1 << 1)
	CLASS_NEG_SUBNORMAL = uint32(1 << 2)
	CLASS_NEG_ZERO      = uint32(1 << 3)
	CLASS_POS_ZERO      = uint32(1 << 4)
	CLASS_POS_SUBNORMAL = uint32(1 << 5)
	CLASS_POS_NORMAL    = uint32(1 << 6)
	CLASS_POS_INF       = uint32(1 << 7)
	CLASS_SIGNALING_NAN = uint32(1 << 8)
	CLASS_QUIET_NAN     = uint32(1 << 9)
)

// Classify returns the FCLASS.S mask of a single precision bit pattern.
func Classify(bits uint32) (mask uint32) {
	negative := bits&SIGN_BIT != 0
	exponent := (bits >> 23) & 0xff
	fraction := bits & 0x7fffff

	pick := func(neg, pos uint32) uint32 {
		if negative {
			return neg
		}
		return pos
	}

	switch {
	case exponent == 0xff && fraction != 0:
		if fraction&0x400000 != 0 {
			mask = CLASS_QUIET_NAN
		} else {
			mask = CLASS_SIGNALING_NAN
		}
	case exponent == 0xff:
		mask = pick(CLASS_NEG_INF, CLASS_POS_INF)
	case exponent == 0 && fraction == 0:
		mask = pick(CLASS_NEG_ZERO, CLASS_POS_ZERO)
	case exponent == 0:
		mask = pick(CLASS_NEG_SUBNORMAL, CLASS_POS_SUBNORMAL)
	default:
		mask = pick(CLASS_NEG_NORMAL, CLASS_POS_NORMAL)
	}

	return
}

// validRm reports whether funct3 is a usable rounding mode.
func validRm(rm uint32) bool {
	return rm <= isa.RM_RMM || rm == isa.RM_DYN
}

// roundRm rounds to an integral value by rounding mode. The dynamic mode
// rounds to nearest, ties to even.
func roundRm(value float64, rm uint32) float64 {
	switch rm {
	case isa.RM_RTZ:
		return math.Trunc(value)
	case isa.RM_RDN:
		return math.Floor(value)
	case isa.RM_RUP:
		return math.Ceil(value)
	case isa.RM_RMM:
		return math.Round(value)
	}
	return math.RoundToEven(value)
}

// canonical replaces any NaN result with the canonical NaN.
func canonical(value float32) uint32 {
	if math.IsNaN(float64(value)) {
		return CANONICAL_NAN
	}
	return math.Float32bits(value)
}

// convertW converts to a saturated 32-bit integer.
func convertW(value float32, rm uint32, unsigned bool) uint32 {
	v := float64(value)
	if math.IsNaN(v) {
		if unsigned {
			return math.MaxUint32
		}
		return math.MaxInt32
	}

	r := roundRm(v, rm)
	if unsigned {
		switch {
		case r <= 0:
			return 0
		case r >= math.MaxUint32:
			return math.MaxUint32
		}
		return uint32(r)
	}

	switch {
	case r <= math.MinInt32:
		return uint32(1) << 31
	case r >= math.MaxInt32:
		return math.MaxInt32
	}
	return uint32(int32(r))
}

// minMax implements FMIN.S and FMAX.S, where -0 orders below +0 and a
// single NaN operand yields the other operand.
func minMax(a, b uint32, isMax bool) uint32 {
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	nanA, nanB := math.IsNaN(float64(fa)), math.IsNaN(float64(fb))

	switch {
	case nanA && nanB:
		return CANONICAL_NAN
	case nanA:
		return b
	case nanB:
		return a
	case fa == fb:
		if isMax {
			return a & b
		}
		return a | b
	case (fa < fb) != isMax:
		return a
	}
	return b
}

// executeFp executes the OP-FP opcode group.
func (cpu *Cpu) executeFp(code Code) (err error) {
	rd, rs1, rs2 := code.Rd(), code.Rs1(), code.Rs2()
	a, b := cpu.Float[rs1], cpu.Float[rs2]
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	funct3 := code.Funct3()

	switch code.Funct7() {
	case isa.FUNCT7_FADD, isa.FUNCT7_FSUB, isa.FUNCT7_FMUL, isa.FUNCT7_FDIV:
		if !validRm(funct3) {
			return ErrIllegalInstruction
		}
		var value float32
		switch code.Funct7() {
		case isa.FUNCT7_FADD:
			value = fa + fb
		case isa.FUNCT7_FSUB:
			value = fa - fb
		case isa.FUNCT7_FMUL:
			value = fa * fb
		case isa.FUNCT7_FDIV:
			value = fa / fb
		}
		cpu.Float[rd] = canonical(value)
	case isa.FUNCT7_FSQRT:
		if !validRm(funct3) || rs2 != 0 {
			return ErrIllegalInstruction
		}
		cpu.Float[rd] = canonical(float32(math.Sqrt(float64(fa))))
	case isa.FUNCT7_FSGNJ:
		switch funct3 {
		case 0b000:
			cpu.Float[rd] = (a &^ SIGN_BIT) | (b & SIGN_BIT)
		case 0b001:
			cpu.Float[rd] = (a &^ SIGN_BIT) | (^b & SIGN_BIT)
		case 0b010:
			cpu.Float[rd] = a ^ (b & SIGN_BIT)
		default:
			return ErrIllegalInstruction
		}
	case isa.FUNCT7_FMINMAX:
		if funct3 > 1 {
			return ErrIllegalInstruction
		}
		cpu.Float[rd] = minMax(a, b, funct3 == 1)
	case isa.FUNCT7_FCVT_W_S:
		if !validRm(funct3) || rs2 > 1 {
			return ErrIllegalInstruction
		}
		cpu.Register[rd] = convertW(fa, funct3, rs2 == 1)
	case isa.FUNCT7_FMV_X_W:
		switch {
		case rs2 != 0:
			return ErrIllegalInstruction
		case funct3 == 0b000:
			cpu.Register[rd] = a
		case funct3 == 0b001:
			cpu.Register[rd] = Classify(a)
		default:
			return ErrIllegalInstruction
		}
	case isa.FUNCT7_FCMP:
		switch funct3 {
		case 0b010:
			cpu.Register[rd] = boolValue(fa == fb)
		case 0b001:
			cpu.Register[rd] = boolValue(fa < fb)
		case 0b000:
			cpu.Register[rd] = boolValue(fa <= fb)
		default:
			return ErrIllegalInstruction
		}
	case isa.FUNCT7_FCVT_S_W:
		if !validRm(funct3) || rs2 > 1 {
			return ErrIllegalInstruction
		}
		x := cpu.Register[rs1]
		if rs2 == 1 {
			cpu.Float[rd] = math.Float32bits(float32(x))
		} else {
			cpu.Float[rd] = math.Float32bits(float32(int32(x)))
		}
	case isa.FUNCT7_FMV_W_X:
		if funct3 != 0 || rs2 != 0 {
			return ErrIllegalInstruction
		}
		cpu.Float[rd] = cpu.Register[rs1]
	default:
		return ErrIllegalInstruction
	}

	return
}
