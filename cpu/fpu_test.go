package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/toast/isa"
)

func bits(value float32) uint32 {
	return math.Float32bits(value)
}

func TestExecuteFloat(t *testing.T) {
	assert := assert.New(t)

	cpu := run(t,
		"li x1, 3",
		"fcvt.s.w f1, x1",
		"li x2, 4",
		"fcvt.s.w f2, x2",
		"fadd.s f3, f1, f2",
		"fmul.s f4, f1, f2",
		"fsub.s f5, f1, f2",
		"fsqrt.s f6, f2",
		"fdiv.s f7, f1, f2",
		"fcvt.w.s x3, f3",
		"fmv.x.w x4, f3",
		"fle.s x5, f1, f2",
		"flt.s x6, f2, f1",
		"feq.s x7, f1, f1",
		"fclass.s x8, f5",
		"fsgnjn.s f8, f1, f1",
		"fsgnj.s f9, f1, f5",
		"fsgnjx.s f10, f5, f5",
		"fmin.s f11, f1, f5",
		"fmax.s f12, f1, f2",
		"fmv.w.x f13, x4",
		"li x9, 0x200",
		"fsw f3, 0(x9)",
		"flw f14, 0(x9)",
		"lw x10, 0(x9)",
		"li x11, -1",
		"fcvt.s.wu f15, x11",
		"fcvt.wu.s x12, f15",
	)

	assert.Equal(bits(3), cpu.Float[1])
	assert.Equal(bits(4), cpu.Float[2])
	assert.Equal(bits(7), cpu.Float[3])
	assert.Equal(bits(12), cpu.Float[4])
	assert.Equal(bits(-1), cpu.Float[5])
	assert.Equal(bits(2), cpu.Float[6])
	assert.Equal(bits(0.75), cpu.Float[7])
	assert.Equal(uint32(7), cpu.Register[3])
	assert.Equal(uint32(0x40e00000), cpu.Register[4])
	assert.Equal(uint32(1), cpu.Register[5])
	assert.Equal(uint32(0), cpu.Register[6])
	assert.Equal(uint32(1), cpu.Register[7])
	assert.Equal(CLASS_NEG_NORMAL, cpu.Register[8])
	assert.Equal(bits(-3), cpu.Float[8])
	assert.Equal(bits(-3), cpu.Float[9])
	assert.Equal(bits(1), cpu.Float[10])
	assert.Equal(bits(-1), cpu.Float[11])
	assert.Equal(bits(4), cpu.Float[12])
	assert.Equal(uint32(0x40e00000), cpu.Float[13])
	assert.Equal(bits(7), cpu.Float[14])
	assert.Equal(uint32(0x40e00000), cpu.Register[10])
	assert.Equal(bits(4294967296), cpu.Float[15])
	assert.Equal(uint32(math.MaxUint32), cpu.Register[12])
}

func TestExecuteFloatNaN(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(0)
	_, err := cpu.Execute(encode(t, "fdiv.s f3, f1, f2"))
	assert.NoError(err)
	assert.Equal(CANONICAL_NAN, cpu.Float[3])

	_, err = cpu.Execute(encode(t, "feq.s x1, f3, f3"))
	assert.NoError(err)
	assert.Equal(uint32(0), cpu.Register[1])

	_, err = cpu.Execute(encode(t, "fcvt.w.s x2, f3"))
	assert.NoError(err)
	assert.Equal(uint32(math.MaxInt32), cpu.Register[2])
}

func TestClassify(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		bits uint32
		mask uint32
	}{
		{0xff800000, CLASS_NEG_INF},
		{bits(-1.5), CLASS_NEG_NORMAL},
		{0x80000001, CLASS_NEG_SUBNORMAL},
		{0x80000000, CLASS_NEG_ZERO},
		{0x00000000, CLASS_POS_ZERO},
		{0x00000001, CLASS_POS_SUBNORMAL},
		{bits(1.5), CLASS_POS_NORMAL},
		{0x7f800000, CLASS_POS_INF},
		{0x7f800001, CLASS_SIGNALING_NAN},
		{0x7fc00000, CLASS_QUIET_NAN},
		{0xffc00000, CLASS_QUIET_NAN},
	}

	for _, entry := range table {
		assert.Equal(entry.mask, Classify(entry.bits), "%08x", entry.bits)
	}
}

func TestConvertW(t *testing.T) {
	assert := assert.New(t)

	inf := float32(math.Inf(1))
	nan := float32(math.NaN())

	table := []struct {
		value    float32
		rm       uint32
		unsigned bool
		expected uint32
	}{
		{2.5, isa.RM_RNE, false, 2},
		{3.5, isa.RM_DYN, false, 4},
		{-2.5, isa.RM_RTZ, false, 0xfffffffe},
		{-2.5, isa.RM_RDN, false, 0xfffffffd},
		{2.1, isa.RM_RUP, false, 3},
		{2.5, isa.RM_RMM, false, 3},
		{nan, isa.RM_RNE, false, math.MaxInt32},
		{inf, isa.RM_RNE, false, math.MaxInt32},
		{-inf, isa.RM_RNE, false, 0x80000000},
		{3e9, isa.RM_RNE, false, math.MaxInt32},
		{-1, isa.RM_RNE, true, 0},
		{5e9, isa.RM_RNE, true, math.MaxUint32},
		{nan, isa.RM_RNE, true, math.MaxUint32},
		{3e9, isa.RM_RNE, true, 3000000000},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, convertW(entry.value, entry.rm, entry.unsigned), "%v %v %v", entry.value, entry.rm, entry.unsigned)
	}
}

func TestMinMax(t *testing.T) {
	assert := assert.New(t)

	posZero, negZero := uint32(0), SIGN_BIT
	nan := uint32(0x7fc00001)

	assert.Equal(negZero, minMax(posZero, negZero, false))
	assert.Equal(posZero, minMax(posZero, negZero, true))
	assert.Equal(bits(1), minMax(nan, bits(1), false))
	assert.Equal(bits(1), minMax(bits(1), nan, true))
	assert.Equal(CANONICAL_NAN, minMax(nan, nan, false))
	assert.Equal(bits(-2), minMax(bits(-2), bits(1), false))
	assert.Equal(bits(1), minMax(bits(-2), bits(1), true))
}
