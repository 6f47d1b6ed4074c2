// Package detector handles source format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/fenvm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles source format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the source format from options or file auto-detection.
// It first checks if a format is explicitly specified in options, otherwise
// attempts to detect the format from the input filename extension.
func (d *Detector) Detect(opts options.Program) string {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected source format",
			log.String("format", format),
			log.String("file", opts.Input))
	}
	return format
}

// detectFromFile determines the source format based on file extension.
func detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pgn":
		return options.FormatPGN
	default:
		// .fen and files without a known extension contain a plain board
		return options.FormatFEN
	}
}
