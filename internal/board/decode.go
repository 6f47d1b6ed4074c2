package board

import (
	"math"
	"strconv"
	"strings"
)

// maxDigits is the longest digit run accepted as an empty square count.
const maxDigits = 15

// Option configures the decoder.
type Option func(*decoder)

// WithMaxCells makes decoding fail with ErrResourceLimit before allocating the
// cells of a board that has more than limit cells.
func WithMaxCells(limit int) Option {
	return func(d *decoder) {
		d.maxCells = limit
	}
}

type decoder struct {
	maxCells int
}

// Decode parses the piece placement and side to move fields of a FEN string
// into a grid. Ranks may have different widths, the widest rank determines the
// width of the grid and shorter ranks are padded with blank squares.
// Input without any rank results in a grid with zero rows.
func Decode(text string, opts ...Option) (*Grid, error) {
	var d decoder
	for _, opt := range opts {
		opt(&d)
	}

	boardPart, sidePart, _ := strings.Cut(text, " ")
	turn := parseSide(sidePart)

	ranks := splitRanks(boardPart)
	cols := 0
	for i, rank := range ranks {
		width, err := rankWidth(i+1, rank)
		if err != nil {
			return nil, err
		}
		cols = max(cols, width)
	}

	if err := CheckLimit(len(ranks), cols, d.maxCells); err != nil {
		return nil, err
	}
	if err := CheckLimit(len(ranks), cols, math.MaxInt); err != nil {
		return nil, err
	}

	g := &Grid{
		rows: len(ranks),
		cols: cols,
		turn: turn,
	}
	if cols == 0 {
		return g, nil
	}

	g.cells = make([]byte, len(ranks)*cols)
	for i := range g.cells {
		g.cells[i] = Blank
	}
	for row, rank := range ranks {
		fillRank(g.cells[row*cols:(row+1)*cols], rank)
	}
	return g, nil
}

// parseSide returns the side to move from the second FEN field. Anything but a
// leading 'w' or 'b' defaults to white.
func parseSide(field string) Side {
	field = strings.TrimLeft(field, " ")
	if field != "" && field[0] == 'b' {
		return Black
	}
	return White
}

// splitRanks splits the board part into ranks, skipping empty segments.
func splitRanks(boardPart string) []string {
	segments := strings.Split(boardPart, "/")
	ranks := segments[:0]
	for _, segment := range segments {
		if segment != "" {
			ranks = append(ranks, segment)
		}
	}
	return ranks
}

// rankWidth returns the number of columns a rank describes.
func rankWidth(rankNumber int, rank string) (int, error) {
	width := 0
	for i := 0; i < len(rank); {
		c := rank[i]
		switch {
		case isDigit(c):
			run := digitRun(rank, i)
			if len(run) > maxDigits {
				return 0, &SyntaxError{Rank: rankNumber, Offset: i, Text: run, Err: ErrNumericOverflow}
			}
			count, err := strconv.ParseUint(run, 10, 64)
			if err != nil {
				return 0, &SyntaxError{Rank: rankNumber, Offset: i, Text: run, Err: ErrNumericOverflow}
			}
			width = saturatingAdd(width, count)
			i += len(run)

		case IsPiece(c):
			width = saturatingAdd(width, 1)
			i++

		default:
			return 0, &SyntaxError{Rank: rankNumber, Offset: i, Text: string(c), Err: ErrMalformedBoard}
		}
	}
	return width, nil
}

// fillRank writes the pieces of a validated rank into its row of cells.
// Writes beyond the row are dropped.
func fillRank(row []byte, rank string) {
	col := 0
	for i := 0; i < len(rank); {
		c := rank[i]
		if isDigit(c) {
			run := digitRun(rank, i)
			count, _ := strconv.ParseUint(run, 10, 64)
			col = min(len(row), saturatingAdd(col, count))
			i += len(run)
			continue
		}

		if col < len(row) {
			row[col] = c
			col++
		}
		i++
	}
}

func digitRun(s string, start int) string {
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return s[start:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func saturatingAdd(a int, b uint64) int {
	if b > uint64(math.MaxInt-a) {
		return math.MaxInt
	}
	return a + int(b)
}
