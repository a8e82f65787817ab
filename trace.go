package ocho

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Disassemble resolves an opcode to its assembler mnemonic using the
// retrogolib chip-8 tables. Unknown opcodes return an empty string.
func Disassemble(opCode uint16) string {
	firstNibble := int(opCode&0xF000) >> 12
	for _, op := range chip8.Opcodes[firstNibble] {
		if op.Instruction != nil && op.Info.Mask&opCode == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}
