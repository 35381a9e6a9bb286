package gpio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_UnmarshalBinary(t *testing.T) {
	assert := assert.New(t)

	var gs State
	err := gs.UnmarshalBinary([]byte{1, 0xa5})
	assert.NoError(err)
	assert.True(gs.PullUp)
	assert.Equal(uint8(0xa5), gs.Value)

	err = gs.UnmarshalBinary([]byte{0, 0x10})
	assert.NoError(err)
	assert.False(gs.PullUp)
	assert.Equal(uint8(0x10), gs.Value)

	err = gs.UnmarshalBinary([]byte{1})
	assert.Equal(ErrStateSize(1), err)

	err = gs.UnmarshalBinary([]byte{1, 2, 3})
	assert.Error(err)
}

func TestState_MarshalBinary(t *testing.T) {
	assert := assert.New(t)

	data, err := State{PullUp: true, Value: 7}.MarshalBinary()
	assert.NoError(err)
	assert.Equal([]byte{1, 7}, data)

	var gs State
	assert.NoError(gs.UnmarshalBinary(data))
	assert.Equal(State{PullUp: true, Value: 7}, gs)
	assert.Equal("U07", gs.String())
	assert.Equal("-00", State{}.String())
}

func TestBank(t *testing.T) {
	assert := assert.New(t)

	bank := &Bank{}

	assert.NoError(bank.Set(3, State{PullUp: true, Value: 0x42}))
	state, err := bank.Get(3)
	assert.NoError(err)
	assert.Equal(State{PullUp: true, Value: 0x42}, state)

	assert.NoError(bank.ResetSlot(3))
	state, err = bank.Get(3)
	assert.NoError(err)
	assert.Equal(State{}, state)

	err = bank.Set(COUNT, State{})
	assert.True(errors.Is(err, ErrBounds))
	_, err = bank.Get(COUNT + 5)
	assert.Equal(ErrIndex(COUNT+5), err)

	bank.Slot[1].Value = 9
	bank.Reset()
	assert.Equal(State{}, bank.Slot[1])

	defines := map[string]string{}
	for k, v := range bank.Defines() {
		defines[k] = v
	}
	assert.Equal("32", defines["GPIO_COUNT"])
	assert.Equal("2", defines["GPIO_STATE_SIZE"])
}
