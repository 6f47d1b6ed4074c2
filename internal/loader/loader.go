// Package loader handles board program file loading operations.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/fenvm/internal/options"
)

// ErrNoFENTag is returned when a PGN file does not contain a FEN header tag.
var ErrNoFENTag = errors.New("no FEN tag found")

// Loader handles loading board programs from disk.
type Loader struct{}

// New creates a new board program loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the program text of the input file based on the source format.
// A FEN file contributes its first line, a PGN file the value of its first
// FEN header tag.
func (l *Loader) Load(opts options.Program, format string) (string, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return "", fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	text, err := l.LoadFromReader(file, format)
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", opts.Input, err)
	}
	return text, nil
}

// LoadFromReader reads the program text from a reader.
func (l *Loader) LoadFromReader(reader io.Reader, format string) (string, error) {
	buf := bufio.NewReader(reader)

	switch format {
	case options.FormatPGN:
		return readFENTag(buf)
	default:
		line, _, err := readLine(buf)
		return line, err
	}
}

// readLine returns the next line without its line terminator. The returned
// bool is false if the end of the input was reached before any byte was read.
func readLine(reader *bufio.Reader) (string, bool, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("reading line: %w", err)
	}
	if err != nil && line == "" {
		return "", false, nil
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

func readFENTag(reader *bufio.Reader) (string, error) {
	for {
		line, ok, err := readLine(reader)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrNoFENTag
		}

		value, found, err := parseFENTag(line)
		if err != nil {
			return "", err
		}
		if found {
			return value, nil
		}
	}
}

// parseFENTag extracts the value of a `[FEN "..."]` header tag line.
func parseFENTag(line string) (string, bool, error) {
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, "[FEN ")
	if !ok {
		return "", false, nil
	}
	quoted, ok := strings.CutSuffix(strings.TrimSpace(rest), "]")
	if !ok {
		return "", false, fmt.Errorf("unterminated FEN tag: %s", line)
	}

	value, err := strconv.Unquote(strings.TrimSpace(quoted))
	if err != nil {
		return "", false, fmt.Errorf("invalid FEN tag value %s: %w", quoted, err)
	}
	return value, true, nil
}
