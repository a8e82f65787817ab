package ocho_test

import (
	"testing"
	"time"

	"github.com/guslan/ocho"
	"github.com/retroenv/retrogolib/assert"
)

func TestTimersDecrementToZero(t *testing.T) {
	timers := ocho.NewTimers()
	defer timers.Close()

	timers.SetDelay(3)
	timers.SetSound(3)

	// 3 ticks take 50ms at 60Hz; leave generous slack.
	time.Sleep(250 * time.Millisecond)

	assert.Equal(t, byte(0), timers.Delay())
	assert.Equal(t, byte(0), timers.Sound())
}

// A timer already at zero stays at zero, it never wraps around.
func TestTimersNeverUnderflow(t *testing.T) {
	timers := ocho.NewTimers()
	defer timers.Close()

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, byte(0), timers.Delay())
	assert.Equal(t, byte(0), timers.Sound())
}

func TestTimersReadWhileTicking(t *testing.T) {
	timers := ocho.NewTimers()
	defer timers.Close()

	timers.SetDelay(200)
	got := timers.Delay()
	assert.True(t, got > 190)
}

func TestTimersCloseStopsDecrementing(t *testing.T) {
	timers := ocho.NewTimers()

	timers.SetDelay(100)
	timers.Close()
	// Close joins the schedule goroutine, so no further decrement can
	// happen after it returns.
	frozen := timers.Delay()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, frozen, timers.Delay())

	// Closing twice must not panic or block.
	timers.Close()
}

func TestTimersReset(t *testing.T) {
	timers := ocho.NewTimers()
	defer timers.Close()

	timers.SetDelay(100)
	timers.SetSound(100)
	timers.Reset()

	assert.Equal(t, byte(0), timers.Delay())
	assert.Equal(t, byte(0), timers.Sound())
}
