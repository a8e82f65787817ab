package gui

import (
	"encoding/binary"
	"math"
)

const (
	beepSampleRate = 44100
	beepToneHz     = 440
	beepSeconds    = 0.25
)

// beepWav synthesizes the looped beep tone as a 16-bit mono PCM wav
// in memory, replacing a bundled sound file.
func beepWav() []byte {
	numSamples := int(beepSampleRate * beepSeconds)
	dataSize := numSamples * 2

	buff := make([]byte, 0, 44+dataSize)
	le := binary.LittleEndian

	// RIFF header.
	buff = append(buff, "RIFF"...)
	buff = le.AppendUint32(buff, uint32(36+dataSize))
	buff = append(buff, "WAVE"...)

	// Format chunk: PCM, mono, 16 bit.
	buff = append(buff, "fmt "...)
	buff = le.AppendUint32(buff, 16)
	buff = le.AppendUint16(buff, 1)
	buff = le.AppendUint16(buff, 1)
	buff = le.AppendUint32(buff, beepSampleRate)
	buff = le.AppendUint32(buff, beepSampleRate*2)
	buff = le.AppendUint16(buff, 2)
	buff = le.AppendUint16(buff, 16)

	// Data chunk.
	buff = append(buff, "data"...)
	buff = le.AppendUint32(buff, uint32(dataSize))

	step := 2 * math.Pi * beepToneHz / beepSampleRate
	for i := 0; i < numSamples; i++ {
		sample := int16(math.Sin(float64(i)*step) * 0.3 * math.MaxInt16)
		buff = le.AppendUint16(buff, uint16(sample))
	}

	return buff
}
