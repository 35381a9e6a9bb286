package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	seeds := []uint32{
		0x00000000, 0xffffffff, // illegal
		0x003100b3, // add x1, x2, x3
		0x0220c1b3, // div x3, x1, x2
		0x00208023, // sb x2, 0(x1)
		0x0000a183, // lw x3, 0(x1)
		0xfe208ee3, // beq x1, x2, -4
		0x000080e7, // jalr x1, 0(x1)
		0x00000073, // ecall
		0x00300078, // gpio.set 3
		0x003170d3, // fadd.s f1, f2, f3
		0xc0011153, // fcvt.w.s x2, f2
		0xe0011153, // fclass.s x2, f2
	}

	for _, seed := range seeds {
		f.Add(seed, uint32(0), uint32(0))
		f.Add(seed, uint32(0x10), uint32(0xffffffff))
		f.Add(seed, uint32(0x80000000), uint32(0x7fc00000))
	}

	f.Fuzz(func(t *testing.T, word uint32, a uint32, b uint32) {
		assert := assert.New(t)

		cpu := NewCpu(64)
		cpu.Pc = 16
		cpu.Register[1] = a
		cpu.Register[2] = b
		cpu.Register[17] = b
		cpu.Float[2] = a
		cpu.Float[3] = b
		for n := range cpu.Memory {
			cpu.Memory[n] = byte(n)
		}
		assert.NoError(cpu.SetMem(20, a))

		_, err := cpu.Execute(Code(word))
		assert.Equal(uint32(0), cpu.Register[0])
		if err != nil {
			assert.True(errors.Is(err, ErrOpcode(0)))
			assert.Equal(uint32(16), cpu.Pc)
		}
	})
}
