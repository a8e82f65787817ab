package web

import (
	"context"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/guslan/ocho"
)

func TestPackFrame(t *testing.T) {
	display := ocho.NewDisplay()
	assert.NoError(t, display.Set(0, 0, true))
	assert.NoError(t, display.Set(0, 9, true))
	assert.NoError(t, display.Set(31, 63, true))

	frame := packFrame(display)

	assert.Equal(t, ocho.DisplayRows*ocho.DisplayCols/8, len(frame))
	assert.Equal(t, byte(0x80), frame[0])
	assert.Equal(t, byte(0x40), frame[1])
	assert.Equal(t, byte(0x01), frame[len(frame)-1])
}

func TestServerCheckKey(t *testing.T) {
	s := NewServer(context.Background(), log.NewTestLogger(t))

	held, err := s.CheckKey(0xA)
	assert.NoError(t, err)
	assert.False(t, held)

	s.keys[0xA] = true
	held, err = s.CheckKey(0xA)
	assert.NoError(t, err)
	assert.True(t, held)

	// Out of range keys are never held.
	held, err = s.CheckKey(16)
	assert.NoError(t, err)
	assert.False(t, held)

	s.releaseKeys()
	held, err = s.CheckKey(0xA)
	assert.NoError(t, err)
	assert.False(t, held)
}

func TestServerShouldStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(ctx, log.NewTestLogger(t))

	assert.False(t, s.ShouldStop())
	cancel()
	assert.True(t, s.ShouldStop())
}
