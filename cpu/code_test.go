package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeFields(t *testing.T) {
	assert := assert.New(t)

	code := Code(0x003100b3) // add x1, x2, x3
	assert.Equal(uint32(0b0110011), code.Opcode())
	assert.Equal(uint32(1), code.Rd())
	assert.Equal(uint32(2), code.Rs1())
	assert.Equal(uint32(3), code.Rs2())
	assert.Equal(uint32(0), code.Funct3())
	assert.Equal(uint32(0), code.Funct7())

	assert.Equal(int32(-16), Code(0xff018393).ImmI())
	assert.Equal(int32(12), Code(0x00c18393).ImmI())
	assert.Equal(int32(-16), Code(0xfe028823).ImmS())
	assert.Equal(int32(12), Code(0x00028623).ImmS())
	assert.Equal(int32(-16), Code(0xfe5008e3).ImmB())
	assert.Equal(int32(12), Code(0x00500663).ImmB())
	assert.Equal(uint32(0xffff0000), Code(0xffff0037).ImmU())
	assert.Equal(int32(-16), Code(0xff1ff06f).ImmJ())
	assert.Equal(int32(12), Code(0x00c0006f).ImmJ())
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		code Code
		text string
	}{
		{0x003100b3, "add x1, x2, x3"},
		{0xff018393, "addi x7, x3, -16"},
		{0x40315093, "srai x1, x2, 3"},
		{0xfe028823, "sb x0, -16(x5)"},
		{0x01c02083, "lw x1, 28(x0)"},
		{0x00008367, "jalr x6, 0(x1)"},
		{0xfe5008e3, "beq x0, x5, -16"},
		{0xff1ff06f, "jal x0, -16"},
		{0xffff0037, "lui x0, -16"},
		{0x00000073, "ecall"},
		{0x00100073, "ebreak"},
		{0x003170d3, "fadd.s f1, f2, f3"},
		{0x00412087, "flw f1, 4(x2)"},
		{0x300110f3, "csrrw x1, 768, x2"},
		{0x00300078, "gpio.set 3"},
		{0xffffffff, ".word 0xffffffff"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String(), "%08x", uint32(entry.code))
	}
}

func TestCodeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"add x1, x2, x3",
		"mulhsu a0, a1, a2",
		"sltiu t0, t1, -1",
		"slli s0, s1, 31",
		"lhu a0, -2(sp)",
		"sw ra, 12(sp)",
		"bgeu a0, a1, -4096",
		"jal ra, 2048",
		"auipc gp, 0xfffff",
		"fsw f2, 8(a0)",
		"fcvt.wu.s t0, f4",
		"fcvt.s.w f4, t0",
		"fmv.w.x f1, a0",
		"fclass.s a0, f1",
		"fmax.s f1, f2, f3",
		"csrrci x0, 1, 31",
		"gpio.reset 2",
		"fence",
	}

	for _, text := range program {
		code := encode(t, text)
		assert.Equal(code, encode(t, code.String()), text)
	}
}
