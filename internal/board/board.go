// Package board contains the instruction grid that a FEN program decodes into.
package board

import (
	"github.com/retroenv/retrogolib/set"
)

// Blank is the marker of an empty square.
const Blank byte = ' '

// Piece glyphs. Uppercase glyphs are white, lowercase glyphs are black.
const (
	WhitePawn   byte = 'P'
	WhiteKnight byte = 'N'
	WhiteBishop byte = 'B'
	WhiteRook   byte = 'R'
	WhiteQueen  byte = 'Q'
	WhiteKing   byte = 'K'
	BlackPawn   byte = 'p'
	BlackKnight byte = 'n'
	BlackBishop byte = 'b'
	BlackRook   byte = 'r'
	BlackQueen  byte = 'q'
	BlackKing   byte = 'k'
)

// Glyphs lists all recognized piece glyphs.
const Glyphs = "PNBRQKpnbrqk"

var pieceGlyphs = func() set.Set[byte] {
	s := set.New[byte]()
	for i := range len(Glyphs) {
		s.Add(Glyphs[i])
	}
	return s
}()

// Side defines the side to move.
type Side uint8

const (
	White Side = iota
	Black
)

// String returns the FEN notation of the side.
func (s Side) String() string {
	if s == Black {
		return "b"
	}
	return "w"
}

// Square is a grid coordinate.
type Square struct {
	Row int
	Col int
}

// IsPiece returns whether the byte is one of the recognized piece glyphs.
func IsPiece(c byte) bool {
	return pieceGlyphs.Contains(c)
}

// IsWhite returns whether the glyph is a white piece.
func IsWhite(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// SideOf returns the side a piece glyph belongs to.
func SideOf(c byte) Side {
	if IsWhite(c) {
		return White
	}
	return Black
}

// Grid is a rectangular instruction grid. It is immutable after construction.
type Grid struct {
	rows  int
	cols  int
	cells []byte // row-major
	turn  Side
}

// Rows returns the number of ranks.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the width of the widest rank.
func (g *Grid) Cols() int { return g.cols }

// Len returns the number of cells of the grid.
func (g *Grid) Len() int { return len(g.cells) }

// Turn returns the side to move.
func (g *Grid) Turn() Side { return g.turn }

// At returns the cell at the given coordinate.
func (g *Grid) At(row, col int) byte {
	return g.cells[row*g.cols+col]
}

// Cell returns the cell at the given row-major index.
func (g *Grid) Cell(index int) byte {
	return g.cells[index]
}

// Square converts a row-major index to a coordinate.
func (g *Grid) Square(index int) Square {
	return Square{Row: index / g.cols, Col: index % g.cols}
}

// Index converts a coordinate to a row-major index.
func (g *Grid) Index(sq Square) int {
	return sq.Row*g.cols + sq.Col
}

// Pieces returns the number of non-blank cells.
func (g *Grid) Pieces() int {
	var n int
	for _, c := range g.cells {
		if c != Blank {
			n++
		}
	}
	return n
}

// Rank returns a copy of the cells of a single rank.
func (g *Grid) Rank(row int) []byte {
	rank := make([]byte, g.cols)
	copy(rank, g.cells[row*g.cols:(row+1)*g.cols])
	return rank
}

// Equal returns whether both grids have identical dimensions, cells and turn.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.rows == other.rows &&
		g.cols == other.cols &&
		g.turn == other.turn &&
		string(g.cells) == string(other.cells)
}
