package ocho_test

import (
	"errors"
	"testing"

	"github.com/guslan/ocho"
	"github.com/retroenv/retrogolib/assert"
)

func TestStackLifo(t *testing.T) {
	s := ocho.NewStack()

	for _, v := range []uint16{5, 10, 1, 0, 50} {
		assert.NoError(t, s.Push(v))
	}
	assert.Equal(t, 5, s.Depth())

	for _, want := range []uint16{50, 0, 1, 10, 5} {
		got, err := s.Pop()
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, s.Depth())
}

func TestStackOverflow(t *testing.T) {
	s := ocho.NewStack()

	for i := 0; i < ocho.StackSize; i++ {
		assert.NoError(t, s.Push(uint16(i)))
	}
	err := s.Push(0xFFFF)
	assert.True(t, errors.Is(err, ocho.ErrStackOverflow))
	assert.Equal(t, ocho.StackSize, s.Depth())
}

func TestStackUnderflow(t *testing.T) {
	s := ocho.NewStack()

	_, err := s.Pop()
	assert.True(t, errors.Is(err, ocho.ErrStackUnderflow))

	assert.NoError(t, s.Push(42))
	_, err = s.Pop()
	assert.NoError(t, err)
	_, err = s.Pop()
	assert.True(t, errors.Is(err, ocho.ErrStackUnderflow))
}

func TestStackReset(t *testing.T) {
	s := ocho.NewStack()
	assert.NoError(t, s.Push(1))
	assert.NoError(t, s.Push(2))

	s.Reset()
	assert.Equal(t, 0, s.Depth())
	_, err := s.Pop()
	assert.Error(t, err)
}
