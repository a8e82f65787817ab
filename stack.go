package ocho

import "errors"

var ErrStackUnderflow = errors.New("stack underflow: try to pop an empty stack")
var ErrStackOverflow = errors.New("stack overflow: try to push to a full stack")

// StackSize is the call depth limit. Generous compared to the usual 16
// entries; real programs never get close.
const StackSize = 128

// Stack holds subroutine return addresses. top is the index of the
// next free slot, so it stays in [0, StackSize].
type Stack struct {
	entries [StackSize]uint16
	top     int
}

func NewStack() *Stack {
	return &Stack{}
}

// Push adds a return address on top of the stack.
func (s *Stack) Push(value uint16) error {
	if s.top >= StackSize {
		return ErrStackOverflow
	}
	s.entries[s.top] = value
	s.top++
	return nil
}

// Pop removes and returns the address on top of the stack.
func (s *Stack) Pop() (uint16, error) {
	if s.top == 0 {
		return 0, ErrStackUnderflow
	}
	s.top--
	return s.entries[s.top], nil
}

// Depth returns the number of addresses currently on the stack.
func (s *Stack) Depth() int {
	return s.top
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.top = 0
}
