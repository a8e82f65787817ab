package ocho

// Hook observes the emulator around a single Execute transition.
// Hooks run on the emulation goroutine and must not block.
type Hook func(e *Emulator)

// AddBeforeStepHook registers a hook that runs before every
// instruction, with the pc still pointing at it.
func (e *Emulator) AddBeforeStepHook(h Hook) {
	e.beforeStepHooks = append(e.beforeStepHooks, h)
}

// AddAfterStepHook registers a hook that runs after every successfully
// executed instruction.
func (e *Emulator) AddAfterStepHook(h Hook) {
	e.afterStepHooks = append(e.afterStepHooks, h)
}

func (e *Emulator) runHooks(hooks []Hook) {
	for _, h := range hooks {
		h(e)
	}
}
