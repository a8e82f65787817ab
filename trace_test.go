package ocho_test

import (
	"testing"

	"github.com/guslan/ocho"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	// Known opcodes resolve to a mnemonic.
	for _, opCode := range []uint16{0x00E0, 0x00EE, 0x1234, 0x2345, 0x6A2A, 0xD015, 0xF533} {
		assert.True(t, ocho.Disassemble(opCode) != "")
	}

	// Patterns outside the instruction set do not.
	assert.Equal(t, "", ocho.Disassemble(0xE0FF))
}
