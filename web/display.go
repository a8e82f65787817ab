package web

import (
	"github.com/gorilla/websocket"

	"github.com/guslan/ocho"
)

// Draw ships dirty frames to the connected display client as a packed
// bitmap, one bit per cell, most significant bit first.
func (s *Server) Draw(display *ocho.Display) error {
	if !display.Dirty() {
		return nil
	}

	s.wsMutex.RLock()
	conn := s.socket
	s.wsMutex.RUnlock()
	if conn == nil {
		return nil
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, packFrame(display)); err != nil {
		// The client went away mid-write. Emulation continues and the
		// next client gets a fresh frame.
		s.unsetWs()
		return nil
	}

	display.MarkClean()
	return nil
}

func packFrame(display *ocho.Display) []byte {
	frame := make([]byte, ocho.DisplayRows*ocho.DisplayCols/8)
	for i, on := range display.Cells() {
		if on {
			frame[i/8] |= 0x80 >> (i % 8)
		}
	}
	return frame
}

// CheckKey reports the last state received over the keypad socket.
func (s *Server) CheckKey(key byte) (bool, error) {
	if key > 15 {
		return false, nil
	}

	s.keyMutex.RLock()
	held := s.keys[key]
	s.keyMutex.RUnlock()
	return held, nil
}

// PlaySound is a no-op. Browsers cannot start audio without a user
// gesture, so clients derive the beep from the debugger stream instead.
func (s *Server) PlaySound() error {
	return nil
}

func (s *Server) StopSound() error {
	return nil
}

func (s *Server) ShouldStop() bool {
	return s.ctx.Err() != nil
}

func (s *Server) Step() error {
	return nil
}
