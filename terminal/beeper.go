package terminal

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 44100
	toneHz     = 440
)

// Beeper plays a looping tone through oto. The player pulls samples
// continuously; Play and Stop just gate the generator, so toggling is
// click-free and allocation-free.
type Beeper struct {
	ctx    *oto.Context
	player *oto.Player

	active atomic.Bool
	// phase is only touched by Read, which oto calls from a single
	// goroutine.
	phase float64
}

func NewBeeper() (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	b := &Beeper{ctx: ctx}
	b.player = ctx.NewPlayer(b)
	b.player.Play()

	return b, nil
}

// Read produces float32 little-endian samples: a sine wave while the
// beeper is active, silence otherwise.
func (b *Beeper) Read(p []byte) (int, error) {
	numSamples := len(p) / 4

	if !b.active.Load() {
		clear(p[:numSamples*4])
		return numSamples * 4, nil
	}

	step := 2 * math.Pi * toneHz / sampleRate
	for i := 0; i < numSamples; i++ {
		sample := float32(math.Sin(b.phase) * 0.3)
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(sample))
		b.phase += step
		if b.phase >= 2*math.Pi {
			b.phase -= 2 * math.Pi
		}
	}

	return numSamples * 4, nil
}

// Play unmutes the tone.
func (b *Beeper) Play() {
	b.active.Store(true)
}

// Stop mutes the tone.
func (b *Beeper) Stop() {
	b.active.Store(false)
}

// Close releases the audio player.
func (b *Beeper) Close() error {
	b.active.Store(false)
	return b.player.Close()
}
