package gpio

import (
	"errors"

	"github.com/ezrec/toast/translate"
)

var f = translate.From

var (
	// GPIO errors
	ErrBounds = errors.New(f("gpio out of bounds"))
)

// ErrIndex is an access to a GPIO slot outside of the bank.
type ErrIndex uint32

func (err ErrIndex) Error() string {
	return f("gpio %d out of bounds", uint32(err))
}

func (err ErrIndex) Is(target error) bool {
	return target == ErrBounds
}

// ErrStateSize is a configuration record of the wrong length.
type ErrStateSize int

func (err ErrStateSize) Error() string {
	return f("gpio state is %d bytes, expected %d", int(err), STATE_SIZE)
}
