package board

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBoard is returned for characters that are not part of the board syntax.
	ErrMalformedBoard = errors.New("malformed board syntax")
	// ErrNumericOverflow is returned for empty square counts with too many digits.
	ErrNumericOverflow = errors.New("numeric overflow in empty square count")
	// ErrResourceLimit is returned when a board needs more cells than allowed.
	ErrResourceLimit = errors.New("resource limit exceeded")
	// ErrEmptyBoard is returned by callers that received a board without cells.
	ErrEmptyBoard = errors.New("board contains no squares")
)

// SyntaxError describes a decoding failure at a position of a rank.
type SyntaxError struct {
	Rank   int    // 1-based rank number in source order
	Offset int    // byte offset inside the rank
	Text   string // offending character or digit run
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("rank %d offset %d '%s': %s", e.Rank, e.Offset, e.Text, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// LimitError describes a board that exceeds the allowed cell count.
type LimitError struct {
	Rows int
	Cols int
	Max  int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: board of %dx%d needs more than %d cells", ErrResourceLimit, e.Rows, e.Cols, e.Max)
}

func (e *LimitError) Unwrap() error {
	return ErrResourceLimit
}

// CheckLimit returns a LimitError if the dimensions need more than limit cells.
// A limit of 0 or less disables the check.
func CheckLimit(rows, cols, limit int) error {
	if limit <= 0 || rows == 0 || cols == 0 {
		return nil
	}
	if cols > limit/rows {
		return &LimitError{Rows: rows, Cols: cols, Max: limit}
	}
	return nil
}
