// Package writer implements the html board export.
package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/fenvm/internal/board"
)

// Square colors of the exported board.
const (
	LightSquareColor = "#eeeed2"
	DarkSquareColor  = "#769656"
)

// pieceEntities maps the piece glyphs to their unicode chess symbol entity.
var pieceEntities = map[byte]string{
	board.WhitePawn:   "&#9817;",
	board.WhiteKnight: "&#9816;",
	board.WhiteBishop: "&#9815;",
	board.WhiteRook:   "&#9814;",
	board.WhiteQueen:  "&#9813;",
	board.WhiteKing:   "&#9812;",
	board.BlackPawn:   "&#9823;",
	board.BlackKnight: "&#9822;",
	board.BlackBishop: "&#9821;",
	board.BlackRook:   "&#9820;",
	board.BlackQueen:  "&#9819;",
	board.BlackKing:   "&#9818;",
}

// Writer writes a board as html page.
type Writer struct {
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	Title string // page title, defaults to "Chess Board"
}

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	if options.Title == "" {
		options.Title = "Chess Board"
	}
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// WriteFile exports the board as html page into the given file.
func WriteFile(path string, g *board.Grid, options Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating html file %s: %w", path, err)
	}

	if err := New(file, options).Write(g); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing html file %s: %w", path, err)
	}
	return nil
}

// Write outputs the complete html page.
func (w Writer) Write(g *board.Grid) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w.writer, "<table>\n"); err != nil {
		return fmt.Errorf("writing table start: %w", err)
	}
	for row := range g.Rows() {
		if err := w.writeRank(g, row); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w.writer, "</table>\n</body>\n</html>\n"); err != nil {
		return fmt.Errorf("writing page end: %w", err)
	}
	return nil
}

func (w Writer) writeHeader() error {
	if _, err := fmt.Fprintf(w.writer, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>%s</title>\n",
		w.options.Title); err != nil {
		return fmt.Errorf("writing page header: %w", err)
	}

	if _, err := fmt.Fprintf(w.writer, "<style>\n"+
		"table { border-collapse: collapse; }\n"+
		"td { width: 60px; height: 60px; text-align: center; vertical-align: middle; font-size: 48px; }\n"+
		".white { background-color: %s; }\n"+
		".black { background-color: %s; }\n"+
		"</style>\n</head>\n<body>\n", LightSquareColor, DarkSquareColor); err != nil {
		return fmt.Errorf("writing page style: %w", err)
	}
	return nil
}

func (w Writer) writeRank(g *board.Grid, row int) error {
	if _, err := fmt.Fprint(w.writer, "<tr>\n"); err != nil {
		return fmt.Errorf("writing rank start: %w", err)
	}

	for col := range g.Cols() {
		class := "white"
		if (row+col)%2 != 0 {
			class = "black"
		}
		if _, err := fmt.Fprintf(w.writer, "<td class=\"%s\">%s</td>\n", class, pieceEntities[g.At(row, col)]); err != nil {
			return fmt.Errorf("writing square: %w", err)
		}
	}

	if _, err := fmt.Fprint(w.writer, "</tr>\n"); err != nil {
		return fmt.Errorf("writing rank end: %w", err)
	}
	return nil
}
