package ocho

import (
	"crypto/rand"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

const spriteWidth = 8

// execute dispatches a single decoded instruction. The pc has already
// been advanced past it, so skips add 2 and the key wait rewinds by 2.
//
// Flag-writing instructions read their operand registers before
// touching VF: X or Y may be 0xF, and VF is always written last.
func (e *Emulator) execute(opCode uint16) error {
	x := (opCode & 0x0F00) >> 8
	y := (opCode & 0x00F0) >> 4
	n := byte(opCode & 0x000F)
	kk := byte(opCode & 0x00FF)
	nnn := opCode & 0x0FFF

	switch opCode & 0xF000 {
	case 0x0000:
		switch opCode {
		case 0x00E0:
			// CLS :: Clear the display.
			e.display.Clear()

		case 0x00EE:
			// RET :: Return from a subroutine.
			addr, err := e.stack.Pop()
			if err != nil {
				return err
			}
			e.pc = addr

		default:
			// SYS :: Jump to a machine code routine at nnn. Only used
			// on the original hardware; treated as unimplemented.
			e.unimplemented(opCode)
		}

	case 0x1000:
		// JP addr :: Jump to location nnn.
		e.pc = nnn

	case 0x2000:
		// CALL addr :: Call subroutine at nnn.
		if err := e.stack.Push(e.pc); err != nil {
			return err
		}
		e.pc = nnn

	case 0x3000:
		// SE Vx, byte :: Skip next instruction if Vx = kk.
		if e.v[x] == kk {
			e.pc += instructionLength
		}

	case 0x4000:
		// SNE Vx, byte :: Skip next instruction if Vx != kk.
		if e.v[x] != kk {
			e.pc += instructionLength
		}

	case 0x5000:
		// SE Vx, Vy :: Skip next instruction if Vx = Vy. Only the
		// 5XY0 pattern is defined; other low nibbles are unknown.
		if opCode&0x000F != 0 {
			e.unimplemented(opCode)
			break
		}
		if e.v[x] == e.v[y] {
			e.pc += instructionLength
		}

	case 0x6000:
		// LD Vx, byte :: Set Vx = kk.
		e.v[x] = kk

	case 0x7000:
		// ADD Vx, byte :: Set Vx = Vx + kk. Wraps, no flag.
		e.v[x] = e.v[x] + kk

	case 0x8000:
		e.executeRegisterOp(opCode, x, y)

	case 0x9000:
		// SNE Vx, Vy :: Skip next instruction if Vx != Vy. Only 9XY0
		// is defined, like 5XY0.
		if opCode&0x000F != 0 {
			e.unimplemented(opCode)
			break
		}
		if e.v[x] != e.v[y] {
			e.pc += instructionLength
		}

	case 0xA000:
		// LD I, addr :: Set I = nnn.
		e.index = nnn

	case 0xB000:
		// JP V0, addr :: Jump to nnn + V0, or nnn + Vx on newer
		// interpreters.
		if e.config.JumpOffsetUsesV0 {
			e.pc = nnn + uint16(e.v[0])
		} else {
			e.pc = nnn + uint16(e.v[x])
		}

	case 0xC000:
		// RND Vx, byte :: Set Vx = random byte AND kk.
		buff := [1]byte{}
		if _, err := rand.Read(buff[:]); err != nil {
			return fmt.Errorf("reading random byte: %w", err)
		}
		e.v[x] = buff[0] & kk

	case 0xD000:
		// DRW Vx, Vy, nibble :: XOR-blit an n-byte sprite from
		// memory[I] at (Vx mod 64, Vy mod 32), set VF = collision.
		return e.drawSprite(x, y, n)

	case 0xE000:
		switch opCode & 0x00FF {
		case 0x009E:
			// SKP Vx :: Skip next instruction if key Vx is held.
			held, err := e.frontend.CheckKey(e.v[x])
			if err != nil {
				return fmt.Errorf("checking key: %w", err)
			}
			if held {
				e.pc += instructionLength
			}

		case 0x00A1:
			// SKNP Vx :: Skip next instruction if key Vx is not held.
			held, err := e.frontend.CheckKey(e.v[x])
			if err != nil {
				return fmt.Errorf("checking key: %w", err)
			}
			if !held {
				e.pc += instructionLength
			}

		default:
			e.unimplemented(opCode)
		}

	case 0xF000:
		return e.executeMiscOp(opCode, x)

	default:
		e.unimplemented(opCode)
	}

	return nil
}

// executeRegisterOp handles the 8XYN inter-register operations.
func (e *Emulator) executeRegisterOp(opCode, x, y uint16) {
	switch opCode & 0x000F {
	case 0x0000:
		// LD Vx, Vy :: Set Vx = Vy.
		e.v[x] = e.v[y]

	case 0x0001:
		// OR Vx, Vy :: Set Vx = Vx OR Vy.
		e.v[x] |= e.v[y]

	case 0x0002:
		// AND Vx, Vy :: Set Vx = Vx AND Vy.
		e.v[x] &= e.v[y]

	case 0x0003:
		// XOR Vx, Vy :: Set Vx = Vx XOR Vy.
		e.v[x] ^= e.v[y]

	case 0x0004:
		// ADD Vx, Vy :: Set Vx = Vx + Vy, set VF = carry.
		// The carry is the ninth bit of the widened sum.
		r := uint16(e.v[x]) + uint16(e.v[y])
		e.v[x] = byte(r)
		e.v[0xF] = byte(r >> 8)

	case 0x0005:
		// SUB Vx, Vy :: Set Vx = Vx - Vy, set VF = NOT borrow.
		vx, vy := e.v[x], e.v[y]
		e.v[x] = vx - vy
		e.v[0xF] = bool2byte(vx >= vy)

	case 0x0006:
		// SHR Vx {, Vy} :: Shift right by 1. Legacy interpreters
		// shift Vy into Vx, modern ones shift Vx in place.
		src := e.v[x]
		if e.config.ShiftUsesVY {
			src = e.v[y]
		}
		e.v[x] = src >> 1
		e.v[0xF] = src & 0b00000001

	case 0x0007:
		// SUBN Vx, Vy :: Set Vx = Vy - Vx, set VF = NOT borrow.
		vx, vy := e.v[x], e.v[y]
		e.v[x] = vy - vx
		e.v[0xF] = bool2byte(vy >= vx)

	case 0x000E:
		// SHL Vx {, Vy} :: Shift left by 1, same source rule as SHR.
		src := e.v[x]
		if e.config.ShiftUsesVY {
			src = e.v[y]
		}
		e.v[x] = src << 1
		e.v[0xF] = (src & 0b10000000) >> 7

	default:
		e.unimplemented(opCode)
	}
}

// executeMiscOp handles the FXNN operations.
func (e *Emulator) executeMiscOp(opCode, x uint16) error {
	switch opCode & 0x00FF {
	case 0x0007:
		// LD Vx, DT :: Set Vx = delay timer value.
		e.v[x] = e.timers.Delay()

	case 0x000A:
		// LD Vx, K :: Wait for a key press. Blocking must not suspend
		// the loop (rendering and timers keep going), so when no key
		// is held the pc rewinds and the instruction re-executes on
		// the next step.
		return e.waitForKey(x)

	case 0x0015:
		// LD DT, Vx :: Set delay timer = Vx.
		e.timers.SetDelay(e.v[x])

	case 0x0018:
		// LD ST, Vx :: Set sound timer = Vx.
		e.timers.SetSound(e.v[x])

	case 0x001E:
		// ADD I, Vx :: Set I = I + Vx, VF = 1 when the sum leaves the
		// 12-bit address range.
		r := e.index + uint16(e.v[x])
		overflowed := r < e.index || r > 0x0FFF
		e.index = r
		if overflowed {
			e.v[0xF] = 1
		}

	case 0x0029:
		// LD F, Vx :: Set I = location of the font sprite for digit Vx.
		e.index = glyphAddr(e.v[x])

	case 0x0033:
		// LD B, Vx :: Store the decimal digits of Vx at I, I+1, I+2.
		vx := e.v[x]
		if err := e.memory.WriteByte(e.index, vx/100); err != nil {
			return err
		}
		if err := e.memory.WriteByte(e.index+1, (vx/10)%10); err != nil {
			return err
		}
		if err := e.memory.WriteByte(e.index+2, vx%10); err != nil {
			return err
		}

	case 0x0055:
		// LD [I], Vx :: Store registers V0 through Vx at I.
		for i := uint16(0); i <= x; i++ {
			if err := e.memory.WriteByte(e.index+i, e.v[i]); err != nil {
				return err
			}
		}
		if e.config.StoreMemoryAdvancesIndex {
			e.index += x + 1
		}

	case 0x0065:
		// LD Vx, [I] :: Read registers V0 through Vx from I.
		for i := uint16(0); i <= x; i++ {
			value, err := e.memory.ReadByte(e.index + i)
			if err != nil {
				return err
			}
			e.v[i] = value
		}
		if e.config.StoreMemoryAdvancesIndex {
			e.index += x + 1
		}

	default:
		e.unimplemented(opCode)
	}

	return nil
}

// drawSprite implements DXYN. The start position wraps around the
// screen edges; the sprite itself clips instead of wrapping.
func (e *Emulator) drawSprite(x, y uint16, n byte) error {
	startCol := int(e.v[x]) % DisplayCols
	startRow := int(e.v[y]) % DisplayRows

	collision := false
	for r := 0; r < int(n); r++ {
		row := startRow + r
		if row >= DisplayRows {
			break
		}
		sprite, err := e.memory.ReadByte(e.index + uint16(r))
		if err != nil {
			return err
		}
		for c := 0; c < spriteWidth; c++ {
			col := startCol + c
			if col >= DisplayCols {
				break
			}
			unset, err := e.display.Xor(row, col, sprite&0b10000000 != 0)
			if err != nil {
				return err
			}
			collision = collision || unset
			sprite <<= 1
		}
	}

	e.v[0xF] = bool2byte(collision)
	return nil
}

// waitForKey implements FX0A: the first held key lands in Vx,
// otherwise the pc rewinds to re-enter this instruction next step.
func (e *Emulator) waitForKey(x uint16) error {
	for k := byte(0); k < 16; k++ {
		held, err := e.frontend.CheckKey(k)
		if err != nil {
			return fmt.Errorf("checking key: %w", err)
		}
		if held {
			e.v[x] = k
			return nil
		}
	}
	e.pc -= instructionLength
	return nil
}

// unimplemented reports an opcode the interpreter does not know.
// Plenty of programs in the wild exercise undocumented opcodes, so
// execution continues at the next instruction.
func (e *Emulator) unimplemented(opCode uint16) {
	e.logger.Debug("unimplemented opcode",
		log.Hex("opcode", opCode),
		log.Hex("pc", e.pc-instructionLength))
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
