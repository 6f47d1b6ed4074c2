// Package main implements an interactive shell for FEN board programs
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/retroenv/fenvm/internal/config"
	"github.com/retroenv/fenvm/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
)

const (
	historyFile = ".fenvm_history"
	promptMain  = "fen> "

	// default step limit of a single line, keeps a runaway loop from blocking the shell
	defaultMaxSteps = 50_000_000
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts := readArguments()
	logger := config.CreateLogger(opts.Debug, opts.Verbose, opts.Quiet)

	fmt.Printf("fenvm %s REPL\n", buildinfo.Version(version, commit, date))
	fmt.Println("Enter a board per line, Ctrl+C cancels input, Ctrl+D exits. Type :help for commands.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession(logger, opts, os.Stdin, os.Stdout)
	loop(app.Context(), ln, s)

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	_ = ln.Close()
}

func readArguments() options.Program {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := options.New()
	opts.Quiet = true

	flags.BoolVar(&opts.Board, "board", false, "print every board before running it")
	flags.BoolVar(&opts.Color, "color", false, "print the board in color")
	flags.BoolVar(&opts.NoPrompt, "noprompt", false, "do not print a prompt before reading an input character")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed opcode")
	flags.StringVar(&opts.Charset, "charset", "", "IANA character set of the program output, translated to UTF-8")
	flags.IntVar(&opts.MaxCells, "max-cells", opts.MaxCells, "maximum number of board cells, 0 for unlimited")
	flags.Uint64Var(&opts.MaxSteps, "max-steps", defaultMaxSteps, "maximum number of executed opcodes per line, 0 for unlimited")
	_ = flags.Parse(os.Args[1:])

	if opts.Trace {
		opts.Debug = true
	}
	if opts.Debug {
		opts.Quiet = false
	}
	return opts
}

func loop(ctx context.Context, ln *liner.State, s *session) {
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if s.handle(ctx, line) {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
