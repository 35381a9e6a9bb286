// Package gpio models the GPIO peripheral bank of the emulated board.
//
// Each pin slot holds a two byte configuration record: a pull-up enable and
// an output value. Records are loaded from emulated memory with an explicit
// decoder rather than by reinterpreting memory in place.
package gpio

import (
	"fmt"
	"iter"
	"maps"
)

const (
	COUNT      = 32 // Number of GPIO slots in the bank.
	STATE_SIZE = 2  // Size in bytes of a serialized State.
)

var _gpio_defines = map[string]string{
	"GPIO_COUNT":      fmt.Sprintf("%v", COUNT),
	"GPIO_STATE_SIZE": fmt.Sprintf("%v", STATE_SIZE),
}

// State is the configuration of a single GPIO slot.
type State struct {
	PullUp bool
	Value  uint8
}

// UnmarshalBinary decodes a State from its memory layout:
// byte 0 is the pull-up flag (non-zero enables), byte 1 is the value.
func (gs *State) UnmarshalBinary(data []byte) (err error) {
	if len(data) != STATE_SIZE {
		err = ErrStateSize(len(data))
		return
	}

	gs.PullUp = data[0] != 0
	gs.Value = data[1]

	return
}

// MarshalBinary encodes the State in its memory layout.
func (gs State) MarshalBinary() (data []byte, err error) {
	data = make([]byte, STATE_SIZE)
	if gs.PullUp {
		data[0] = 1
	}
	data[1] = gs.Value

	return
}

// String returns the state as text.
func (gs State) String() string {
	pull := "-"
	if gs.PullUp {
		pull = "U"
	}
	return fmt.Sprintf("%s%02X", pull, gs.Value)
}

// Bank is the fixed array of GPIO slots.
type Bank struct {
	Slot [COUNT]State
}

// Defines returns an iter of defines for the bank.
func (bank *Bank) Defines() iter.Seq2[string, string] {
	return maps.All(_gpio_defines)
}

// Reset all slots to their default state.
func (bank *Bank) Reset() {
	clear(bank.Slot[:])
}

// Set configures a slot.
func (bank *Bank) Set(index uint32, state State) (err error) {
	if index >= COUNT {
		err = ErrIndex(index)
		return
	}

	bank.Slot[index] = state

	return
}

// ResetSlot returns a single slot to its default state.
func (bank *Bank) ResetSlot(index uint32) (err error) {
	return bank.Set(index, State{})
}

// Get returns the state of a slot.
func (bank *Bank) Get(index uint32) (state State, err error) {
	if index >= COUNT {
		err = ErrIndex(index)
		return
	}

	state = bank.Slot[index]

	return
}
