package cpu

import (
	"encoding/binary"
)

// check verifies that an access lies within memory.
func (cpu *Cpu) check(address uint32, size uint32) (err error) {
	if uint64(address)+uint64(size) > uint64(len(cpu.Memory)) {
		err = ErrAddress{Address: address, Size: size}
	}
	return
}

// ReadMem reads the little-endian word at address.
func (cpu *Cpu) ReadMem(address uint32) (value uint32, err error) {
	err = cpu.check(address, 4)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint32(cpu.Memory[address:])
	return
}

// SetMem writes a little-endian word at address.
func (cpu *Cpu) SetMem(address uint32, value uint32) (err error) {
	err = cpu.check(address, 4)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint32(cpu.Memory[address:], value)
	return
}

// ReadMem16 reads the little-endian half word at address.
func (cpu *Cpu) ReadMem16(address uint32) (value uint16, err error) {
	err = cpu.check(address, 2)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint16(cpu.Memory[address:])
	return
}

// SetMem16 writes a little-endian half word at address.
func (cpu *Cpu) SetMem16(address uint32, value uint16) (err error) {
	err = cpu.check(address, 2)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint16(cpu.Memory[address:], value)
	return
}

// ReadMem8 reads the byte at address.
func (cpu *Cpu) ReadMem8(address uint32) (value uint8, err error) {
	err = cpu.check(address, 1)
	if err != nil {
		return
	}
	value = cpu.Memory[address]
	return
}

// SetMem8 writes the byte at address.
func (cpu *Cpu) SetMem8(address uint32, value uint8) (err error) {
	err = cpu.check(address, 1)
	if err != nil {
		return
	}
	cpu.Memory[address] = value
	return
}

// Load copies a big-endian program image into memory at address 0,
// reversing the bytes of each 4-byte group into memory order. A trailing
// partial group is zero padded.
func (cpu *Cpu) Load(image []byte) (err error) {
	size := (len(image) + 3) &^ 3
	err = cpu.check(0, uint32(size))
	if err != nil {
		return
	}

	for n := 0; n < size; n += 4 {
		var group [4]byte
		copy(group[:], image[n:min(n+4, len(image))])
		binary.LittleEndian.PutUint32(cpu.Memory[n:], binary.BigEndian.Uint32(group[:]))
	}

	return
}
