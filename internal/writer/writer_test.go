package writer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/fenvm/internal/board"
	"github.com/retroenv/retrogolib/assert"
)

func TestWrite(t *testing.T) {
	g, err := board.Decode("K1/1p w")
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, New(&buf, Options{}).Write(g))
	page := buf.String()

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>Chess Board</title>\n"))
	assert.True(t, strings.HasSuffix(page, "</table>\n</body>\n</html>\n"))
	assert.True(t, strings.Contains(page, ".white { background-color: #eeeed2; }"))
	assert.True(t, strings.Contains(page, ".black { background-color: #769656; }"))

	expectedTable := "<table>\n" +
		"<tr>\n<td class=\"white\">&#9812;</td>\n<td class=\"black\"></td>\n</tr>\n" +
		"<tr>\n<td class=\"black\"></td>\n<td class=\"white\">&#9823;</td>\n</tr>\n" +
		"</table>\n"
	assert.True(t, strings.Contains(page, expectedTable))
}

func TestWriteTitle(t *testing.T) {
	g, err := board.Decode("K w")
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, New(&buf, Options{Title: "hello.fen"}).Write(g))
	assert.True(t, strings.Contains(buf.String(), "<title>hello.fen</title>"))
}

func TestPieceEntities(t *testing.T) {
	assert.Len(t, pieceEntities, len(board.Glyphs))
	for i := range len(board.Glyphs) {
		_, ok := pieceEntities[board.Glyphs[i]]
		assert.True(t, ok, string(board.Glyphs[i]))
	}
}

func TestWriteFile(t *testing.T) {
	g, err := board.Decode("Q w")
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "board.html")
	assert.NoError(t, WriteFile(path, g, Options{}))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "&#9813;"))

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "board.html"), g, Options{})
	assert.ErrorContains(t, err, "creating html file")
}

func TestViewerCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"linux", "xdg-open", []string{"board.html"}},
		{"darwin", "open", []string{"board.html"}},
		{"windows", "cmd", []string{"/c", "start", "", "board.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := viewerCommand(tt.goos, "board.html")
			assert.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}

	_, _, err := viewerCommand("plan9", "board.html")
	assert.True(t, errors.Is(err, ErrOpenUnsupported))
}
