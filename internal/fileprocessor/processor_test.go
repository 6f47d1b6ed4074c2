package fileprocessor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/fenvm/internal/board"
	"github.com/retroenv/fenvm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestProcessFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	dir := t.TempDir()

	opts := options.New()
	opts.Input = writeFile(t, dir, "hello.fen", "P5PR w\n")

	var out bytes.Buffer
	err := ProcessFile(context.Background(), logger, opts, strings.NewReader(""), &out)
	assert.NoError(t, err)
	assert.Equal(t, "A\n", out.String())

	opts.Input = writeFile(t, dir, "broken.fen", "8/8/x7/8 w\n")
	err = ProcessFile(context.Background(), logger, opts, strings.NewReader(""), &out)
	assert.True(t, errors.Is(err, board.ErrMalformedBoard))
	assert.ErrorContains(t, err, "broken.fen")
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.fen", "K w\n")
	writeFile(t, dir, "a.fen", "K w\n")
	writeFile(t, dir, "c.pgn", "[FEN \"K w\"]\n")

	t.Run("single file", func(t *testing.T) {
		opts := options.New()
		opts.Input = "hello.fen"
		files, err := GetFilesToProcess(&opts)
		assert.NoError(t, err)
		assert.Equal(t, []string{"hello.fen"}, files)
	})

	t.Run("batch pattern", func(t *testing.T) {
		opts := options.New()
		opts.Batch = filepath.Join(dir, "*.fen")
		files, err := GetFilesToProcess(&opts)
		assert.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.fen"), filepath.Join(dir, "b.fen")}, files)
	})

	t.Run("no matches", func(t *testing.T) {
		opts := options.New()
		opts.Batch = filepath.Join(dir, "*.epd")
		_, err := GetFilesToProcess(&opts)
		assert.ErrorContains(t, err, "no files match")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		opts := options.New()
		opts.Batch = "[-"
		_, err := GetFilesToProcess(&opts)
		assert.ErrorContains(t, err, "globbing batch pattern")
	})
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)
	opts := options.New()

	PrintBanner(logger, opts, "1.0.0", "abcdef0123", "2024-01-01")
	opts.Quiet = true
	PrintBanner(logger, opts, "dev", "", "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}
