// Package terminal renders the emulator into an ANSI terminal and
// reads the keypad from raw keyboard input.
package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/term"
	"github.com/retroenv/retrogolib/log"

	"github.com/guslan/ocho"
)

const esc = 0x1B

// Terminals report key presses as bytes with no matching release
// event, so a key counts as held for this long after its byte arrives.
// Long enough to survive the gap between auto-repeat events.
const keyHoldWindow = 150 * time.Millisecond

// The canonical keypad mapping:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keymap = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Frontend implements ocho.Frontend on a posix terminal.
type Frontend struct {
	tty    *term.Term
	out    io.Writer
	beeper *Beeper
	logger *log.Logger
	ctx    context.Context

	onChar  string
	offChar string

	heldUntil [16]time.Time
	drawn     bool
	quit      bool
}

// New puts the controlling terminal into cbreak mode and prepares the
// audio player. Call Close to restore the terminal, after the emulator
// itself has been closed.
func New(ctx context.Context, logger *log.Logger) (*Frontend, error) {
	tty, err := term.Open("/dev/tty", term.CBreakMode)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	if err := tty.SetReadTimeout(time.Millisecond); err != nil {
		_ = tty.Restore()
		return nil, fmt.Errorf("configuring terminal: %w", err)
	}

	beeper, err := NewBeeper()
	if err != nil {
		_ = tty.Restore()
		return nil, fmt.Errorf("opening audio player: %w", err)
	}

	// Clear the terminal and hide the cursor.
	fmt.Fprintf(os.Stdout, "%c[2J%c[?25l", esc, esc)

	return &Frontend{
		tty:     tty,
		out:     os.Stdout,
		beeper:  beeper,
		logger:  logger,
		ctx:     ctx,
		onChar:  "##",
		offChar: "  ",
	}, nil
}

// Draw repaints the framebuffer. Clean frames are skipped after the
// first paint.
func (f *Frontend) Draw(display *ocho.Display) error {
	if f.drawn && !display.Dirty() {
		return nil
	}

	buff := make([]byte, 0, ocho.DisplayRows*ocho.DisplayCols*2+ocho.DisplayRows+16)
	buff = append(buff, esc, '[', '1', 'H')
	for i, on := range display.Cells() {
		if on {
			buff = append(buff, f.onChar...)
		} else {
			buff = append(buff, f.offChar...)
		}
		if (i+1)%ocho.DisplayCols == 0 {
			buff = append(buff, '\r', '\n')
		}
	}

	if _, err := f.out.Write(buff); err != nil {
		return err
	}
	display.MarkClean()
	f.drawn = true
	return nil
}

// CheckKey reports whether the key's hold window is still open.
func (f *Frontend) CheckKey(key byte) (bool, error) {
	if key > 15 {
		return false, nil
	}
	return time.Now().Before(f.heldUntil[key]), nil
}

func (f *Frontend) PlaySound() error {
	f.beeper.Play()
	return nil
}

func (f *Frontend) StopSound() error {
	f.beeper.Stop()
	return nil
}

// ShouldStop reports true after ESC or Ctrl-C, or when the context is
// cancelled.
func (f *Frontend) ShouldStop() bool {
	return f.quit || f.ctx.Err() != nil
}

// Step drains pending keyboard bytes and refreshes the hold windows.
func (f *Frontend) Step() error {
	buff := [8]byte{}
	n, err := f.tty.Read(buff[:])
	if err != nil {
		// A timed-out read just means no key was pressed.
		return nil
	}

	deadline := time.Now().Add(keyHoldWindow)
	for _, b := range buff[:n] {
		switch b {
		case esc, 0x03:
			f.quit = true
		default:
			if key, ok := keymap[b]; ok {
				f.heldUntil[key] = deadline
			}
		}
	}

	return nil
}

// Close restores the terminal state and releases the audio player.
func (f *Frontend) Close() error {
	fmt.Fprintf(os.Stdout, "%c[?25h%c[0m\n", esc, esc)

	err := f.beeper.Close()
	if restoreErr := f.tty.Restore(); err == nil {
		err = restoreErr
	}
	if closeErr := f.tty.Close(); err == nil {
		err = closeErr
	}
	return err
}
