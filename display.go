package ocho

import (
	"fmt"
	"iter"
)

// Common display size for chip-8 consoles.
// Super-chip 128x64 screens are out of scope.
const (
	DisplayRows = 32
	DisplayCols = 64
)

// DisplayBoundsError reports an access outside the 64x32 grid.
type DisplayBoundsError struct {
	Row, Col int
}

func (err DisplayBoundsError) Error() string {
	return fmt.Sprintf("display access out of bounds: row=%d col=%d", err.Row, err.Col)
}

// Display is the monochrome framebuffer, one bool per pixel in
// row-major order.
//
// The dirty flag records whether any cell changed since the last call
// to MarkClean. The emulator only ever sets it; clearing is the
// renderer's bookkeeping.
type Display struct {
	cells [DisplayRows * DisplayCols]bool
	dirty bool
}

func NewDisplay() *Display {
	return &Display{}
}

// Get returns the cell at row, col.
func (d *Display) Get(row, col int) (bool, error) {
	if row < 0 || row >= DisplayRows || col < 0 || col >= DisplayCols {
		return false, DisplayBoundsError{Row: row, Col: col}
	}
	return d.cells[row*DisplayCols+col], nil
}

// Set overwrites the cell at row, col.
func (d *Display) Set(row, col int, value bool) error {
	if row < 0 || row >= DisplayRows || col < 0 || col >= DisplayCols {
		return DisplayBoundsError{Row: row, Col: col}
	}
	t := row*DisplayCols + col
	if d.cells[t] != value {
		d.dirty = true
	}
	d.cells[t] = value
	return nil
}

// Xor flips the cell at row, col with value and reports whether the
// cell went from set to unset. Sprite drawing uses that result to
// accumulate the collision flag.
func (d *Display) Xor(row, col int, value bool) (bool, error) {
	if row < 0 || row >= DisplayRows || col < 0 || col >= DisplayCols {
		return false, DisplayBoundsError{Row: row, Col: col}
	}
	t := row*DisplayCols + col
	unset := d.cells[t] && value
	if value {
		d.dirty = true
	}
	d.cells[t] = d.cells[t] != value
	return unset, nil
}

// Clear turns every cell off.
func (d *Display) Clear() {
	d.cells = [DisplayRows * DisplayCols]bool{}
	d.dirty = true
}

// Cells yields every cell in row-major order together with its flat
// index (index = row*DisplayCols + col).
func (d *Display) Cells() iter.Seq2[int, bool] {
	return func(yield func(int, bool) bool) {
		for i, on := range d.cells {
			if !yield(i, on) {
				return
			}
		}
	}
}

// Dirty reports whether the framebuffer changed since MarkClean.
func (d *Display) Dirty() bool {
	return d.dirty
}

// MarkClean resets the dirty flag. Renderers call it after drawing.
func (d *Display) MarkClean() {
	d.dirty = false
}
