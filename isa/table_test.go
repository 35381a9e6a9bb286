package isa

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Lookup(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()

	add, ok := tbl.Lookup("add")
	assert.True(ok)
	assert.Equal(FORMAT_R, add.Format)
	assert.Equal(uint32(0b0110011), add.Opcode)
	assert.Equal(uint32(0b000), add.Funct3)
	assert.Equal(uint32(0b0000000), add.Funct7)

	sra, ok := tbl.Lookup("sra")
	assert.True(ok)
	assert.Equal(uint32(0b0100000), sra.Funct7)

	lw, ok := tbl.Lookup("lw")
	assert.True(ok)
	assert.Equal(FORMAT_I, lw.Format)
	assert.Equal(OPERANDS_RD_MEM, lw.Operands)

	ecall, ok := tbl.Lookup("ecall")
	assert.True(ok)
	assert.Equal(FORMAT_FIXED, ecall.Format)
	assert.Equal(uint32(0x00000073), ecall.Word)

	_, ok = tbl.Lookup("li")
	assert.False(ok, "pseudo-ops are not machine instructions")

	_, ok = tbl.Lookup("bogus")
	assert.False(ok)
}

func TestTable_Register(t *testing.T) {
	assert := assert.New(t)

	tbl := Default()

	table := []struct {
		name  string
		index uint32
	}{
		{"x0", 0}, {"zero", 0}, {"x31", 31},
		{"ra", 1}, {"sp", 2},
		{"t0", 5}, {"t1", 6}, {"t2", 7},
		{"fp", 8}, {"s0", 8}, {"s1", 9},
		{"a0", 10}, {"a7", 17},
		{"s2", 18}, {"s8", 24}, {"s9", 25}, {"s10", 26}, {"s11", 27},
		{"t6", 31},
		{"f0", 0}, {"f31", 31}, {"ft0", 0}, {"fa0", 10}, {"fs11", 27},
	}

	for _, entry := range table {
		index, ok := tbl.Register(entry.name)
		assert.True(ok, entry.name)
		assert.Equal(entry.index, index, entry.name)
	}

	_, ok := tbl.Register("x32")
	assert.False(ok)
	_, ok = tbl.Register("12")
	assert.False(ok)
}

func TestTable_Decode(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()

	table := []struct {
		word     uint32
		mnemonic string
	}{
		{0x003100b3, "add"},
		{0x40208033, "sub"},
		{0x00c18393, "addi"},
		{0x40315093, "srai"},
		{0x00315093, "srli"},
		{0x00028623, "sb"},
		{0x0000c037, "lui"},
		{0x00500663, "beq"},
		{0x00c0006f, "jal"},
		{0x00000073, "ecall"},
		{0x00100073, "ebreak"},
		{0x022080b3, "mul"},
		{0x0020f0d3, "fadd.s"},
		{0x000080d3 | (FUNCT7_FSQRT << 25), "fsqrt.s"},
		{0xe0008053, "fmv.x.w"},
		{0xe0009053, "fclass.s"},
		{0xc0108053, "fcvt.wu.s"},
		{0x00300078, "gpio.set"},
		{0x00301078, "gpio.reset"},
	}

	for _, entry := range table {
		in, ok := tbl.Decode(entry.word)
		if assert.True(ok, "%08x", entry.word) {
			assert.Equal(entry.mnemonic, in.Mnemonic, "%08x", entry.word)
		}
	}

	_, ok := tbl.Decode(0xffffffff)
	assert.False(ok)
	_, ok = tbl.Decode(0x00004073)
	assert.False(ok)
}

func TestTable_Roundtrip(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()

	for mnemonic := range tbl.Mnemonics() {
		in, _ := tbl.Lookup(mnemonic)
		var word uint32
		switch in.Format {
		case FORMAT_FIXED:
			word = in.Word
		case FORMAT_U, FORMAT_J:
			word = in.Opcode
		case FORMAT_R:
			word = in.Opcode | (in.Funct3 << 12) | (in.Funct7 << 25) | (in.Rs2 << 20)
		default:
			word = in.Opcode | (in.Funct3 << 12)
			if in.Operands == OPERANDS_RD_RS1_SHAMT {
				word |= in.Funct7 << 25
			}
		}
		decoded, ok := tbl.Decode(word)
		if assert.True(ok, mnemonic) {
			assert.Equal(mnemonic, decoded.Mnemonic)
		}
	}
}

func TestTable_Mnemonics(t *testing.T) {
	assert := assert.New(t)

	names := slices.Collect(NewTable().Mnemonics())
	assert.True(slices.IsSorted(names))
	assert.Contains(names, "fclass.s")
	assert.Contains(names, "gpio.set")
	assert.Equal(len(instructions), len(names))
}

func TestOperands(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("rd,imm(rs1)", OPERANDS_RD_MEM.String())
	assert.Equal("imm", OPERANDS_IMM.String())
	assert.Equal("none", OPERANDS_NONE.String())
	assert.Equal("fixed", FORMAT_FIXED.String())
	assert.Equal("B", FORMAT_B.String())
	assert.Equal(3, OPERANDS_RD_CSR_RS1.Count())
	assert.Equal(2, OPERANDS_RS2_MEM.Count())
	assert.Equal(1, OPERANDS_IMM.Count())
}
