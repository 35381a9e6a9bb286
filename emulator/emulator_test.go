package emulator

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/toast/asm"
	"github.com/ezrec/toast/cpu"
	"github.com/ezrec/toast/isa"
)

type fixture struct {
	Name    string           `yaml:"name"`
	Code    string           `yaml:"code"`
	LiExact bool             `yaml:"li_exact"`
	Expect  map[string]int64 `yaml:"expect"`
}

func loadFixtures(t *testing.T) (fixtures []fixture) {
	data, err := os.ReadFile(filepath.Join("testdata", "programs.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	err = yaml.Unmarshal(data, &fixtures)
	if err != nil {
		t.Fatal(err)
	}

	return
}

// register returns the named integer or float register of the emulator.
func register(t *testing.T, emu *Emulator, name string) uint32 {
	index, ok := isa.Default().Register(name)
	if !ok {
		t.Fatalf("%v: unknown register", name)
	}
	if isa.IsFloatRegister(name) {
		return emu.Cpu.Float[index]
	}
	return emu.Cpu.Register[index]
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	assert.False(emu.Verbose)
	assert.Equal(cpu.MEMORY_SIZE, len(emu.Cpu.Memory))
	assert.Equal(MAX_STEPS, emu.MaxSteps)
	assert.Equal(0, emu.LineNo())

	defines := map[string]string{}
	for k, v := range emu.Defines() {
		defines[k] = v
	}
	assert.Equal("10", defines["EXIT"])
	assert.Equal("0x1000", defines["MEMORY_SIZE"])
	assert.Equal("32", defines["GPIO_COUNT"])
}

func TestEmulatorPrograms(t *testing.T) {
	for _, fx := range loadFixtures(t) {
		t.Run(fx.Name, func(t *testing.T) {
			assert := assert.New(t)

			emu := NewEmulator(0)
			emu.Assembler.LiExact = fx.LiExact

			err := emu.Assemble(fx.Code)
			if !assert.NoError(err) {
				return
			}

			_, err = emu.Run()
			if !assert.NoError(err) {
				t.Log(emu.Cpu.String())
				return
			}

			assert.NotEmpty(fx.Expect)
			for name, value := range fx.Expect {
				assert.Equal(uint32(value), register(t, emu, name), name)
			}
		})
	}
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"li x1, 1",
		"",
		"# comment",
		"li x2, 0x3020", // two opcodes
		"add x3, x1, x2",
		"li a7, EXIT",
		"ecall",
	}

	emu := NewEmulator(0)
	assert.NoError(emu.Assemble(strings.Join(program, "\n")))

	lines := []int{1, 4, 4, 5, 6, 7}
	for n, lineno := range lines {
		assert.Equal(uint32(n*4), emu.Cpu.Pc)
		assert.Equal(lineno, emu.LineNo(), program[lineno-1])
		halted, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(n == len(lines)-1, halted)
	}

	assert.Equal(uint32(0x3021), emu.Cpu.Register[3])
	assert.Equal(len(lines), emu.Cpu.Ticks)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	assert.NoError(emu.Assemble("nop\n.word 0xffffffff\necall"))

	steps, err := emu.Run()
	assert.Equal(1, steps)
	assert.ErrorIs(err, cpu.ErrIllegalInstruction)
	assert.ErrorIs(err, cpu.ErrOpcode(0))

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(2, rt.LineNo)
		assert.Equal(uint32(4), rt.Pc)
		assert.True(strings.HasPrefix(rt.Error(), "line 2 (pc 0x00000004) bad opcode 0xffffffff"), rt.Error())
	}
	assert.Equal(uint32(4), emu.Cpu.Pc)
}

func TestEmulatorStepLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	assert.NoError(emu.Assemble("loop: j loop"))

	emu.MaxSteps = 50
	steps, err := emu.Run()
	assert.Equal(50, steps)
	assert.ErrorIs(err, cpu.ErrStepLimit)

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(1, rt.LineNo)
	}
}

func TestEmulatorAssembleError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	err := emu.Assemble("li x1, 1\nbogus x1")

	var syn *asm.ErrSyntax
	if assert.True(errors.As(err, &syn)) {
		assert.Equal(2, syn.LineNo)
	}
	assert.ErrorIs(err, asm.ErrInstructionInvalid)
}

func TestEmulatorInterpret(t *testing.T) {
	assert := assert.New(t)

	as := &asm.Assembler{}
	image, err := as.Assemble(strings.Join([]string{
		"li x3, 42",
		"li a7, 10",
		"ecall",
	}, "\n"))
	assert.NoError(err)
	assert.Equal([]byte{0x02, 0xa0, 0x01, 0x93}, image[:4])

	emu := NewEmulator(0)
	steps, err := emu.Interpret(image, 0)
	assert.NoError(err)
	assert.Equal(3, steps)
	assert.Equal(uint32(42), emu.Cpu.Register[3])
	assert.Equal(uint32(12), emu.Cpu.Pc)

	// Memory holds the words little-endian.
	assert.Equal(uint32(0x02a00193), binary.LittleEndian.Uint32(emu.Cpu.Memory[0:4]))

	// No listing for a raw image.
	assert.Equal(0, emu.LineNo())

	// Too large for memory.
	emu = NewEmulator(8)
	_, err = emu.Interpret(image, 0)
	assert.ErrorIs(err, cpu.ErrMemoryBounds)
}

func TestEmulatorInterpretFile(t *testing.T) {
	assert := assert.New(t)

	as := &asm.Assembler{}
	image, err := as.Assemble(strings.Join([]string{
		"lw x1, start_addr(x0)",
		"jalr x6 0(x1)",
		"li x3 10",
		"j end_program",
		"start: li x3 17",
		"end_program: addi x17, x0, 10",
		"ecall",
		"start_addr:  .word start",
	}, "\n"))
	assert.NoError(err)

	name := filepath.Join(t.TempDir(), "jalr.bin")
	assert.NoError(os.WriteFile(name, image, 0o644))

	emu := NewEmulator(0)
	steps, err := emu.InterpretFile(name)
	assert.NoError(err)
	assert.Equal(5, steps)
	assert.Equal(uint32(17), emu.Cpu.Register[3])
	assert.Equal(uint32(8), emu.Cpu.Register[6])

	_, err = emu.InterpretFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(err, os.ErrNotExist)
}
