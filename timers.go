package ocho

import (
	"sync"
	"time"
)

// TimerHz is the decrement rate of both countdown timers.
const TimerHz = 60

// Timers holds the delay and sound countdown registers. Both are
// decremented at TimerHz by a background goroutine and read or
// overwritten at arbitrary times by the instruction engine, so every
// access takes the mutex.
type Timers struct {
	mu    sync.Mutex
	delay byte
	sound byte

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewTimers creates the timer pair and starts the decrement schedule.
// The caller owns the teardown: Close must run before the resources
// the run loop references are released.
func NewTimers() *Timers {
	t := &Timers{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Timers) run() {
	defer close(t.done)

	period := time.Second / TimerHz
	// Sleeping until a moving deadline rather than a fixed duration
	// keeps drift from the decrement work out of the schedule.
	next := time.Now().Add(period)

	for {
		select {
		case <-t.stop:
			return
		case <-time.After(time.Until(next)):
			t.mu.Lock()
			if t.delay > 0 {
				t.delay--
			}
			if t.sound > 0 {
				t.sound--
			}
			t.mu.Unlock()
			next = next.Add(period)
		}
	}
}

// Delay returns the current delay timer value.
func (t *Timers) Delay() byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

// SetDelay overwrites the delay timer.
func (t *Timers) SetDelay(value byte) {
	t.mu.Lock()
	t.delay = value
	t.mu.Unlock()
}

// Sound returns the current sound timer value.
func (t *Timers) Sound() byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sound
}

// SetSound overwrites the sound timer.
func (t *Timers) SetSound(value byte) {
	t.mu.Lock()
	t.sound = value
	t.mu.Unlock()
}

// Reset zeroes both timers without touching the schedule.
func (t *Timers) Reset() {
	t.mu.Lock()
	t.delay = 0
	t.sound = 0
	t.mu.Unlock()
}

// Close signals the decrement goroutine to stop and waits until it has
// exited. Safe to call more than once.
func (t *Timers) Close() {
	t.once.Do(func() {
		close(t.stop)
	})
	<-t.done
}
