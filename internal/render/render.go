// Package render prints a board to the console.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/fenvm/internal/board"
	"github.com/xyproto/vt"
)

// Options of the renderer.
type Options struct {
	Color bool // colorize pieces and the frame using terminal escape codes
}

// Renderer prints boards with file numbers on top and rank numbers counting
// down on the left side.
type Renderer struct {
	options Options
	writer  io.Writer
}

// New creates a new console renderer.
func New(writer io.Writer, options Options) *Renderer {
	return &Renderer{
		options: options,
		writer:  writer,
	}
}

// Render writes the board.
func (r *Renderer) Render(g *board.Grid) error {
	var sb strings.Builder

	sb.WriteString("   ")
	for col := range g.Cols() {
		fmt.Fprintf(&sb, "%2d", col+1)
	}
	sb.WriteByte('\n')

	border := "  +" + strings.Repeat("--", g.Cols()) + "+"
	sb.WriteString(r.frame(border))
	sb.WriteByte('\n')

	for row := range g.Rows() {
		sb.WriteString(r.frame(fmt.Sprintf("%2d|", g.Rows()-row)))
		for col := range g.Cols() {
			sb.WriteString(r.piece(g.At(row, col)))
			sb.WriteByte(' ')
		}
		sb.WriteString(r.frame("|"))
		sb.WriteByte('\n')
	}

	sb.WriteString(r.frame(border))
	sb.WriteByte('\n')

	if _, err := io.WriteString(r.writer, sb.String()); err != nil {
		return fmt.Errorf("writing board: %w", err)
	}
	return nil
}

func (r *Renderer) frame(s string) string {
	if !r.options.Color {
		return s
	}
	return vt.LightGray.Get(s)
}

func (r *Renderer) piece(glyph byte) string {
	s := string(glyph)
	if !r.options.Color || glyph == board.Blank {
		return s
	}
	if board.IsWhite(glyph) {
		return vt.White.Get(s)
	}
	return vt.LightRed.Get(s)
}
