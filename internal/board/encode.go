package board

import (
	"strconv"
	"strings"
)

// Encode serializes the grid to FEN piece placement and side to move fields.
// Blank squares are run-length encoded, including trailing blanks so that the
// width of the grid is preserved when decoding the result again.
func Encode(g *Grid) string {
	var sb strings.Builder

	for row := range g.rows {
		if row > 0 {
			sb.WriteByte('/')
		}

		empty := 0
		for col := range g.cols {
			c := g.At(row, col)
			if c == Blank {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(c)
		}
		if empty > 0 || g.cols == 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(g.turn.String())
	return sb.String()
}
