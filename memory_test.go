package ocho_test

import (
	"errors"
	"testing"

	"github.com/guslan/ocho"
	"github.com/retroenv/retrogolib/assert"
)

func TestMemoryFontRegion(t *testing.T) {
	m := ocho.NewMemory()

	// Glyph 0 starts at 0x050 with the 0xF0 0x90 ... pattern.
	b, err := m.ReadByte(ocho.FontStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xF0), b)

	b, err = m.ReadByte(ocho.FontStart + 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x90), b)

	// Last byte of glyph F.
	b, err = m.ReadByte(ocho.FontStart + 16*5 - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x80), b)

	// Everything outside the font region is zeroed.
	b, err = m.ReadByte(ocho.FontStart - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
	b, err = m.ReadByte(ocho.FontStart + 16*5)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestMemoryBounds(t *testing.T) {
	m := ocho.NewMemory()

	b, err := m.ReadByte(ocho.MemorySize - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)

	_, err = m.ReadByte(ocho.MemorySize)
	assert.Error(t, err)
	var bounds ocho.MemoryBoundsError
	assert.True(t, errors.As(err, &bounds))
	assert.Equal(t, uint16(ocho.MemorySize), bounds.Addr)

	assert.Error(t, m.WriteByte(ocho.MemorySize, 1))
	assert.NoError(t, m.WriteByte(ocho.MemorySize-1, 1))
}

func TestMemoryLoadProgram(t *testing.T) {
	m := ocho.NewMemory()

	program := []byte{0x12, 0x34, 0x56}
	assert.NoError(t, m.LoadProgram(program))

	for i, want := range program {
		b, err := m.ReadByte(ocho.ProgramStart + uint16(i))
		assert.NoError(t, err)
		assert.Equal(t, want, b)
	}
}

func TestMemoryLoadProgramTooLarge(t *testing.T) {
	m := ocho.NewMemory()

	fits := make([]byte, ocho.MemorySize-ocho.ProgramStart)
	assert.NoError(t, m.LoadProgram(fits))

	tooLarge := make([]byte, ocho.MemorySize-ocho.ProgramStart+1)
	err := m.LoadProgram(tooLarge)
	assert.True(t, errors.Is(err, ocho.ErrProgramTooLarge))
}
