// Package position checks whether a board program is also a playable chess position.
package position

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
	"github.com/retroenv/fenvm/internal/board"
)

// Size is the number of ranks and files of a chess board.
const Size = 8

var (
	// ErrNotStandardSize is returned for grids that are not 8x8.
	ErrNotStandardSize = errors.New("board is not 8x8")
	// ErrKingCount is returned when a side does not have exactly one king.
	ErrKingCount = errors.New("each side needs exactly one king")
)

// Report describes the chess position of a board.
type Report struct {
	FEN        string       // full FEN record passed to the chess engine
	Turn       board.Side   // side to move
	LegalMoves int          // number of legal moves of the side to move
	Status     chess.Method // checkmate, stalemate or no method
}

// Analyze interprets the grid as a chess position. Castling rights, en passant
// square and move counters are not part of a board program, empty
// placeholders are used for them.
func Analyze(g *board.Grid) (*Report, error) {
	if g.Rows() != Size || g.Cols() != Size {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotStandardSize, g.Rows(), g.Cols())
	}
	if err := checkKings(g); err != nil {
		return nil, err
	}

	fen := board.Encode(g) + " - - 0 1"
	option, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parsing chess position: %w", err)
	}

	game := chess.NewGame(option)
	pos := game.Position()
	moves := game.ValidMoves()

	return &Report{
		FEN:        fen,
		Turn:       g.Turn(),
		LegalMoves: len(moves),
		Status:     pos.Status(),
	}, nil
}

func checkKings(g *board.Grid) error {
	var white, black int
	for i := range g.Len() {
		switch g.Cell(i) {
		case board.WhiteKing:
			white++
		case board.BlackKing:
			black++
		}
	}
	if white != 1 || black != 1 {
		return fmt.Errorf("%w: white %d, black %d", ErrKingCount, white, black)
	}
	return nil
}
