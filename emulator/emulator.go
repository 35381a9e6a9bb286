// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"os"
	"strings"

	"github.com/ezrec/toast/asm"
	"github.com/ezrec/toast/cpu"
	"github.com/ezrec/toast/internal"
	"github.com/ezrec/toast/isa"
)

const (
	MAX_STEPS = 100_000 // Default step budget of Run.
)

var _emulator_defines = map[string]string{
	"EXIT":      fmt.Sprintf("%d", isa.EXIT_SYSCALL),
	"MAX_STEPS": fmt.Sprintf("%d", MAX_STEPS),
}

// Emulator state. CPU + assembled program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Listing of the loaded program, if assembled.

	Assembler asm.Assembler // Assembler used by Assemble.
	MaxSteps  int           // Step budget of Run; 0 or less is unbounded.
}

// NewEmulator creates a new emulator with memSize bytes of memory.
// A memSize of 0 selects cpu.MEMORY_SIZE.
func NewEmulator(memSize uint) (emu *Emulator) {
	emu = &Emulator{
		Cpu:      cpu.NewCpu(memSize),
		Program:  &asm.Program{},
		MaxSteps: MAX_STEPS,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Cpu.Gpio.Defines(),
	)
}

// Assemble assembles text with the emulator defines predefined,
// and loads the result.
func (emu *Emulator) Assemble(text string) (err error) {
	for k, v := range emu.Defines() {
		emu.Assembler.Predefine(k, v)
	}
	emu.Assembler.Verbose = emu.Verbose

	prog, err := emu.Assembler.Parse(strings.NewReader(text))
	if err != nil {
		return
	}

	err = emu.Load(prog)

	return
}

// Load resets the emulator and loads an assembled program.
func (emu *Emulator) Load(prog *asm.Program) (err error) {
	err = emu.LoadImage(prog.Binary())
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// LoadImage resets the emulator and loads a big-endian program image at
// address 0. Any previous program listing is discarded.
func (emu *Emulator) LoadImage(image []byte) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Program = &asm.Program{}

	err = emu.Cpu.Load(image)

	return
}

// Interpret loads image and runs it for at most maxSteps instructions.
func (emu *Emulator) Interpret(image []byte, maxSteps int) (steps int, err error) {
	err = emu.LoadImage(image)
	if err != nil {
		return
	}

	emu.MaxSteps = maxSteps
	steps, err = emu.Run()

	return
}

// InterpretFile loads a program image file and runs it.
func (emu *Emulator) InterpretFile(name string) (steps int, err error) {
	image, err := os.ReadFile(name)
	if err != nil {
		return
	}

	steps, err = emu.Interpret(image, emu.MaxSteps)

	return
}

// LineNo returns the source line number of the opcode at the pc,
// or 0 if there is no listing for it.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (halted bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	halted, err = emu.Cpu.Tick()

	return
}

// Run ticks the emulator until the exit syscall, a fault, or the
// step budget is exhausted.
func (emu *Emulator) Run() (steps int, err error) {
	for emu.MaxSteps <= 0 || steps < emu.MaxSteps {
		var halted bool
		halted, err = emu.Tick()
		if err != nil {
			return
		}
		steps++
		if halted {
			if emu.Verbose {
				log.Printf("emulator: halted after %d steps", steps)
			}
			return
		}
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Pc: emu.Cpu.Pc, Err: cpu.ErrStepLimit}

	return
}
