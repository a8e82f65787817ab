package ocho

import (
	"errors"
	"fmt"
)

var ErrProgramTooLarge = errors.New("the program does not fit into memory")

// MemoryBoundsError reports a read or write past the 4096-byte extent.
type MemoryBoundsError struct {
	Addr uint16
}

func (err MemoryBoundsError) Error() string {
	return fmt.Sprintf("memory access out of bounds: addr=%#04x", err.Addr)
}

const MemorySize = 4096

// ProgramStart is where loaded programs begin; everything below it is
// reserved for the interpreter (including the font glyphs).
const ProgramStart = 0x200

// FontStart is where the hexadecimal glyphs live, 5 bytes per digit.
const FontStart = 0x050

const bytesPerGlyph = 5

// Memory is the flat 4096-byte address space. The font region is
// written once at construction; all other access goes through the
// bounds-checked helpers.
type Memory struct {
	bytes [MemorySize]byte
}

// NewMemory creates a zeroed memory with the font glyphs in place.
func NewMemory() *Memory {
	m := &Memory{}
	copy(m.bytes[FontStart:], font[:])
	return m
}

// ReadByte returns the byte at addr.
func (m *Memory) ReadByte(addr uint16) (byte, error) {
	if addr >= MemorySize {
		return 0, MemoryBoundsError{Addr: addr}
	}
	return m.bytes[addr], nil
}

// WriteByte overwrites the byte at addr.
func (m *Memory) WriteByte(addr uint16, value byte) error {
	if addr >= MemorySize {
		return MemoryBoundsError{Addr: addr}
	}
	m.bytes[addr] = value
	return nil
}

// LoadProgram copies the program verbatim to ProgramStart. Programs
// longer than the space above ProgramStart are rejected before any
// byte is written.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MemorySize-ProgramStart {
		return ErrProgramTooLarge
	}
	copy(m.bytes[ProgramStart:], program)
	return nil
}

// glyphAddr returns the address of the font sprite for digit 0x0-0xF.
func glyphAddr(digit byte) uint16 {
	return FontStart + bytesPerGlyph*uint16(digit&0x0F)
}

var font = [bytesPerGlyph * 16]byte{
	// 0
	0xF0, 0x90, 0x90, 0x90, 0xF0,
	// 1
	0x20, 0x60, 0x20, 0x20, 0x70,
	// 2
	0xF0, 0x10, 0xF0, 0x80, 0xF0,
	// 3
	0xF0, 0x10, 0xF0, 0x10, 0xF0,
	// 4
	0x90, 0x90, 0xF0, 0x10, 0x10,
	// 5
	0xF0, 0x80, 0xF0, 0x10, 0xF0,
	// 6
	0xF0, 0x80, 0xF0, 0x90, 0xF0,
	// 7
	0xF0, 0x10, 0x20, 0x40, 0x40,
	// 8
	0xF0, 0x90, 0xF0, 0x90, 0xF0,
	// 9
	0xF0, 0x90, 0xF0, 0x10, 0xF0,
	// A
	0xF0, 0x90, 0xF0, 0x90, 0x90,
	// B
	0xE0, 0x90, 0xE0, 0x90, 0xE0,
	// C
	0xF0, 0x80, 0x80, 0x80, 0xF0,
	// D
	0xE0, 0x90, 0x90, 0x90, 0xE0,
	// E
	0xF0, 0x80, 0xF0, 0x80, 0xF0,
	// F
	0xF0, 0x80, 0xF0, 0x80, 0x80,
}
