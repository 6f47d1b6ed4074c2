// Package verification verifies that a decoded board survives an encode and decode round trip.
package verification

import (
	"fmt"

	"github.com/retroenv/fenvm/internal/board"
	"github.com/retroenv/retrogolib/log"
)

const maxLoggedMismatches = 10

// VerifyRoundTrip encodes the grid back to FEN, decodes the result and checks
// that it recreates the exact grid.
func VerifyRoundTrip(logger *log.Logger, g *board.Grid) error {
	text := board.Encode(g)
	decoded, err := board.Decode(text)
	if err != nil {
		return fmt.Errorf("decoding encoded board %q: %w", text, err)
	}

	if err := compareGrids(logger, g, decoded); err != nil {
		return fmt.Errorf("encoded board %q: %w", text, err)
	}
	logger.Debug("Round trip verified", log.String("fen", text))
	return nil
}

func compareGrids(logger *log.Logger, expected, got *board.Grid) error {
	if expected.Rows() != got.Rows() || expected.Cols() != got.Cols() {
		return fmt.Errorf("mismatched dimensions, %dx%d != %dx%d",
			expected.Rows(), expected.Cols(), got.Rows(), got.Cols())
	}
	if expected.Turn() != got.Turn() {
		return fmt.Errorf("side to move mismatch, expected %s but got %s", expected.Turn(), got.Turn())
	}

	var diffs uint64
	for i := range expected.Len() {
		if expected.Cell(i) == got.Cell(i) {
			continue
		}

		diffs++
		if diffs <= maxLoggedMismatches {
			sq := expected.Square(i)
			logger.Error("Square mismatch",
				log.Int("row", sq.Row),
				log.Int("col", sq.Col),
				log.String("expected", string(expected.Cell(i))),
				log.String("got", string(got.Cell(i))))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d square mismatches", diffs)
}
