// Package charset translates program output from a legacy character set to UTF-8.
package charset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrUnsupported is returned for character sets that have no decoder.
var ErrUnsupported = errors.New("unsupported character set")

// NewWriter returns a writer that decodes the bytes written to it from the
// named IANA character set and writes them as UTF-8 to w. An empty name
// returns a writer that passes all bytes through unchanged. Close must be
// called to flush a trailing incomplete sequence, it does not close w.
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	if name == "" {
		return nopCloser{w}, nil
	}

	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("looking up character set %s: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}

	return transform.NewWriter(w, enc.NewDecoder()), nil
}

// Name returns the canonical IANA name of a character set.
func Name(name string) (string, error) {
	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(name))
	if err != nil {
		return "", fmt.Errorf("looking up character set %s: %w", name, err)
	}
	if enc == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return "", fmt.Errorf("resolving character set name %s: %w", name, err)
	}
	return canonical, nil
}

// nopCloser wraps an io.Writer to add a no-op Close method.
type nopCloser struct {
	io.Writer
}

func (nc nopCloser) Close() error {
	return nil
}
