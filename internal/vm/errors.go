package vm

import (
	"errors"
	"fmt"

	"github.com/retroenv/fenvm/internal/board"
)

var (
	// ErrUnmatchedLoopStart is returned when a skipped loop has no matching loop end.
	ErrUnmatchedLoopStart = errors.New("no matching loop end found")
	// ErrLoopStackUnderflow is returned for a loop end without an entered loop.
	ErrLoopStackUnderflow = errors.New("loop stack underflow")
	// ErrLoopStackOverflow is returned when loops are nested deeper than allowed.
	ErrLoopStackOverflow = errors.New("loop stack overflow")
	// ErrStepLimit is returned when a run dispatches more opcodes than allowed.
	ErrStepLimit = errors.New("step limit exceeded")
	// ErrEmptyMemory is returned when the memory tape has no cells.
	ErrEmptyMemory = errors.New("memory tape is empty")
)

// RuntimeError describes an interpretation failure at a square of the grid.
type RuntimeError struct {
	Square board.Square
	Glyph  byte
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("'%c' at row %d column %d: %s", e.Glyph, e.Square.Row, e.Square.Col, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
