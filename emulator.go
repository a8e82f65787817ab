package ocho

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const instructionLength = 2

// Emulator owns the whole machine state: memory, registers, call
// stack, framebuffer and the two countdown timers. Everything except
// the timers is touched only by the goroutine driving Execute or Run,
// so no further synchronization exists.
type Emulator struct {
	memory  *Memory
	display *Display
	stack   *Stack
	timers  *Timers

	v     [16]byte
	index uint16
	pc    uint16

	frontend Frontend
	config   Config
	logger   *log.Logger

	// Last sounding state seen by the run loop; play/stop signals are
	// edge-triggered on transitions of the sound timer.
	sounding bool
	paused   atomic.Bool

	// Control requests from other goroutines; Run drains the queue
	// once per iteration so machine state never leaves this goroutine.
	commands chan func()

	beforeStepHooks []Hook
	afterStepHooks  []Hook
}

// New creates a fresh machine and starts its timer schedule. The
// frontend is held for the lifetime of the emulator; call Close before
// releasing any resources the frontend owns.
func New(frontend Frontend, config Config, logger *log.Logger) *Emulator {
	return &Emulator{
		memory:   NewMemory(),
		display:  NewDisplay(),
		stack:    NewStack(),
		timers:   NewTimers(),
		pc:       ProgramStart,
		frontend: frontend,
		config:   config,
		logger:   logger,
		commands: make(chan func(), 8),
	}
}

// Memory exposes the address space, mainly for debuggers.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Display exposes the framebuffer, mainly for renderers and tests.
func (e *Emulator) Display() *Display {
	return e.display
}

// Timers exposes the countdown timers.
func (e *Emulator) Timers() *Timers {
	return e.timers
}

// Config returns the active configuration.
func (e *Emulator) Config() Config {
	return e.config
}

// SetInstructionsPerSecond changes the run loop's target rate. Takes
// effect on the next iteration. Like every state mutation it must
// happen on the emulation goroutine: a hook, a frontend callback, or
// a Scheduled function. Other goroutines go through Schedule.
func (e *Emulator) SetInstructionsPerSecond(ips uint) {
	if ips == 0 {
		return
	}
	e.config.InstructionsPerSecond = ips
}

// LoadFile reads a rom file and loads it into memory. Errors are
// reported before any execution begins.
func (e *Emulator) LoadFile(path string) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading program file: %w", err)
	}
	return e.LoadProgram(program)
}

// LoadProgram resets the machine and copies the program to
// ProgramStart.
func (e *Emulator) LoadProgram(program []byte) error {
	e.Reset()
	if err := e.memory.LoadProgram(program); err != nil {
		return err
	}
	e.logger.Debug("program loaded",
		log.Hex("start", uint16(ProgramStart)),
		log.Hex("size", uint16(len(program))))
	return nil
}

// Reset rewinds the machine to its power-on state. Loaded program
// bytes and the font region stay in memory.
func (e *Emulator) Reset() {
	e.pc = ProgramStart
	e.index = 0
	e.v = [16]byte{}
	e.stack.Reset()
	e.timers.Reset()
	e.display.Clear()
	e.sounding = false
}

// Pause makes Run skip instruction execution while still drawing,
// polling input and pacing.
func (e *Emulator) Pause() {
	e.paused.Store(true)
}

// Resume undoes Pause.
func (e *Emulator) Resume() {
	e.paused.Store(false)
}

// Paused reports whether instruction execution is suspended.
func (e *Emulator) Paused() bool {
	return e.paused.Load()
}

// Schedule queues fn to run on the emulation goroutine between
// run-loop iterations. Registers, memory and the framebuffer are only
// ever touched by that goroutine, so control surfaces on other
// goroutines (HTTP handlers) hand their work over here instead of
// calling Execute or Reset directly. Reports false when the queue is
// full.
func (e *Emulator) Schedule(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case e.commands <- fn:
		return true
	default:
		return false
	}
}

// runCommands drains the scheduled control requests.
func (e *Emulator) runCommands() {
	for {
		select {
		case cmd := <-e.commands:
			cmd()
		default:
			return
		}
	}
}

// Execute runs exactly one fetch-decode-dispatch transition.
func (e *Emulator) Execute() error {
	e.runHooks(e.beforeStepHooks)

	hi, err := e.memory.ReadByte(e.pc)
	if err != nil {
		return fmt.Errorf("fetching instruction at pc=%#04x: %w", e.pc, err)
	}
	lo, err := e.memory.ReadByte(e.pc + 1)
	if err != nil {
		return fmt.Errorf("fetching instruction at pc=%#04x: %w", e.pc, err)
	}
	e.pc += instructionLength

	opCode := uint16(hi)<<8 | uint16(lo)
	if err := e.execute(opCode); err != nil {
		return err
	}

	e.runHooks(e.afterStepHooks)
	return nil
}

// Run drives the fetch-execute loop at the configured rate until the
// frontend asks to stop or an error is fatal to the run. Frontend
// errors propagate unchanged; structural errors (bounds, stack)
// indicate a corrupted program and are not retried.
func (e *Emulator) Run() error {
	for !e.frontend.ShouldStop() {
		started := time.Now()

		// Commands run before Draw so a single-stepped instruction is
		// rendered in the same iteration.
		e.runCommands()

		if err := e.frontend.Draw(e.display); err != nil {
			return fmt.Errorf("drawing display: %w", err)
		}

		if !e.paused.Load() {
			if err := e.Execute(); err != nil {
				return err
			}
		}

		if err := e.syncSound(); err != nil {
			return err
		}

		if err := e.frontend.Step(); err != nil {
			return fmt.Errorf("frontend step: %w", err)
		}

		// Prevent the loop from running faster than the target rate.
		step := time.Second / time.Duration(e.config.InstructionsPerSecond)
		time.Sleep(max(step-time.Since(started), 0))
	}

	return nil
}

// syncSound toggles the frontend tone exactly once per sound-timer
// transition between zero and nonzero.
func (e *Emulator) syncSound() error {
	sounding := e.timers.Sound() > 0
	if sounding == e.sounding {
		return nil
	}
	e.sounding = sounding

	if sounding {
		if err := e.frontend.PlaySound(); err != nil {
			return fmt.Errorf("starting sound: %w", err)
		}
		return nil
	}
	if err := e.frontend.StopSound(); err != nil {
		return fmt.Errorf("stopping sound: %w", err)
	}
	return nil
}

// Close stops the timer schedule and waits for it to exit. It must run
// before the frontend's window or audio resources are released.
func (e *Emulator) Close() {
	e.timers.Close()
}

// Snapshot is a copy of the register file and machine counters, taken
// between instructions. Debug frontends serialize it.
type Snapshot struct {
	PC         uint16   `json:"pc"`
	Index      uint16   `json:"index"`
	V          [16]byte `json:"v"`
	StackDepth int      `json:"stack_depth"`
	Delay      byte     `json:"delay"`
	Sound      byte     `json:"sound"`
	// Next opcode and its mnemonic, for display purposes.
	OpCode      uint16 `json:"opcode"`
	Instruction string `json:"instruction"`
}

// Snapshot captures the current machine state.
func (e *Emulator) Snapshot() Snapshot {
	var opCode uint16
	if hi, err := e.memory.ReadByte(e.pc); err == nil {
		opCode = uint16(hi) << 8
	}
	if lo, err := e.memory.ReadByte(e.pc + 1); err == nil {
		opCode |= uint16(lo)
	}

	return Snapshot{
		PC:          e.pc,
		Index:       e.index,
		V:           e.v,
		StackDepth:  e.stack.Depth(),
		Delay:       e.timers.Delay(),
		Sound:       e.timers.Sound(),
		OpCode:      opCode,
		Instruction: Disassemble(opCode),
	}
}
