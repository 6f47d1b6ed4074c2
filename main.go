// Package main implements the main entry point for the FEN board program interpreter
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/fenvm/internal/cli"
	"github.com/retroenv/fenvm/internal/config"
	"github.com/retroenv/fenvm/internal/fileprocessor"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Verbose, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			if usageErr.Error() != "" {
				logger.Error(usageErr.Error())
			}
			usageErr.ShowUsage()
		} else {
			logger.Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Verbose, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	failed := false
	for _, file := range files {
		opts.Input = file

		if err := fileprocessor.ProcessFile(ctx, logger, opts, os.Stdin, os.Stdout); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				os.Exit(1)
			}
			logger.Error("Running board program failed", log.Err(err))
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
