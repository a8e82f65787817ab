package ocho

// Frontend is the capability the interpreter calls for everything that
// happens outside the emulated machine: rendering, input, sound and
// the decision to stop. Implementations live in the gui, terminal and
// web packages; every method may be a no-op except ShouldStop, which
// must eventually report true or Run never returns.
type Frontend interface {
	// Draw renders the current framebuffer. The display's dirty flag
	// is the frontend's to clear; incremental renderers may skip clean
	// frames entirely.
	Draw(display *Display) error
	// CheckKey reports whether the logical key 0x0-0xF is held.
	CheckKey(key byte) (bool, error)
	// PlaySound starts an indefinitely looping tone.
	PlaySound() error
	// StopSound silences the tone started by PlaySound.
	StopSound() error
	// ShouldStop is polled once per run-loop iteration.
	ShouldStop() bool
	// Step runs once per iteration for bookkeeping unrelated to
	// emulation, e.g. keeping an externally looped sound alive.
	Step() error
}

// NoopFrontend draws nothing, holds no keys and asks to stop
// immediately. Useful for tests that drive Execute directly.
type NoopFrontend struct{}

func (NoopFrontend) Draw(*Display) error         { return nil }
func (NoopFrontend) CheckKey(byte) (bool, error) { return false, nil }
func (NoopFrontend) PlaySound() error            { return nil }
func (NoopFrontend) StopSound() error            { return nil }
func (NoopFrontend) ShouldStop() bool            { return true }
func (NoopFrontend) Step() error                 { return nil }
