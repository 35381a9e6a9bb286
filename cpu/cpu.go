// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math"
	"strings"

	"github.com/ezrec/toast/gpio"
	"github.com/ezrec/toast/isa"
)

// MEMORY_SIZE is the default memory size in bytes.
const MEMORY_SIZE = 4096

var _cpu_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%d", isa.REGISTER_COUNT),
	"EXIT_SYSCALL":   fmt.Sprintf("%d", isa.EXIT_SYSCALL),
}

// Cpu is the simulation context of a single RV32IMF hart.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       uint32                     // Program counter, a byte address.
	Register [isa.REGISTER_COUNT]uint32 // Integer register file.
	Float    [isa.REGISTER_COUNT]uint32 // Float register file, as IEEE-754 bits.
	Memory   []byte                     // Byte addressable memory.
	Gpio     gpio.Bank                  // GPIO peripheral bank.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU with memSize bytes of memory.
// A memSize of 0 selects MEMORY_SIZE.
func NewCpu(memSize uint) (cpu *Cpu) {
	if memSize == 0 {
		memSize = MEMORY_SIZE
	}

	cpu = &Cpu{
		Memory: make([]byte, memSize),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	defines := maps.Clone(_cpu_defines)
	defines["MEMORY_SIZE"] = fmt.Sprintf("%#x", len(cpu.Memory))
	return maps.All(defines)
}

// Reset the CPU state.
// - Clears the registers, memory and GPIO bank.
// - Zeros statistics counters.
// - Sets the program counter to 0.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	clear(cpu.Register[:])
	clear(cpu.Float[:])
	clear(cpu.Memory)
	cpu.Gpio.Reset()
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var buff strings.Builder

	fmt.Fprintf(&buff, "%5s: %08x\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		name := fmt.Sprintf("x%d/%s", n, isa.AbiName(uint32(n)))
		fmt.Fprintf(&buff, "%9s: %08x\n", name, val)
	}
	for n, val := range cpu.Float {
		if val == 0 {
			continue
		}
		fmt.Fprintf(&buff, "%9s: %08x %g\n", isa.RegisterName(uint32(n), true), val, math.Float32frombits(val))
	}
	for n, state := range cpu.Gpio.Slot {
		if state == (gpio.State{}) {
			continue
		}
		fmt.Fprintf(&buff, "%9s: %v\n", fmt.Sprintf("gpio%d", n), state)
	}

	text = buff.String()

	return
}

// Fetch reads the instruction word at the program counter.
func (cpu *Cpu) Fetch() (code Code, err error) {
	if cpu.Pc%4 != 0 {
		err = ErrPcAlignment
		return
	}

	word, err := cpu.ReadMem(cpu.Pc)
	if err != nil {
		return
	}

	code = Code(word)

	return
}

// Tick executes a single CPU instruction cycle.
// halted is set when the exit syscall was executed.
func (cpu *Cpu) Tick() (halted bool, err error) {
	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	halted, err = cpu.Execute(code)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Run ticks the CPU until the exit syscall, a fault, or maxSteps
// instructions have executed. A maxSteps of 0 or less is unbounded.
func (cpu *Cpu) Run(maxSteps int) (steps int, err error) {
	for maxSteps <= 0 || steps < maxSteps {
		var halted bool
		halted, err = cpu.Tick()
		if err != nil {
			return
		}
		steps++
		if halted {
			return
		}
	}

	err = ErrStepLimit

	return
}
