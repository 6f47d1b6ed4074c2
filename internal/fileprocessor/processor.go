// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/retroenv/fenvm/internal/options"
	"github.com/retroenv/fenvm/internal/pipeline"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, input io.Reader, output io.Writer) error {
	pipe := pipeline.New(logger)
	if _, err := pipe.Execute(ctx, opts, input, output); err != nil {
		return fmt.Errorf("running %s: %w", opts.Input, err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch == "" {
		return []string{opts.Input}, nil
	}

	matches, err := filepath.Glob(opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("globbing batch pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match batch pattern %s", opts.Batch)
	}
	slices.Sort(matches)
	return matches, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("fenvm", log.String("version", buildinfo.Version(version, commit, date)))
}
