package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/fenvm/internal/options"
	"github.com/retroenv/fenvm/internal/pipeline"
	"github.com/retroenv/fenvm/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

const helpText = `REPL commands:
  :quit    exit the REPL
  :board   toggle printing the board before running it
  :state   toggle printing the machine state after a run
  :ops     list the opcodes of all pieces
  :help    show this help
`

// session executes the lines entered into the shell.
type session struct {
	opts      options.Program
	pipe      *pipeline.Pipeline
	input     io.Reader
	output    io.Writer
	showState bool
}

func newSession(logger *log.Logger, opts options.Program, input io.Reader, output io.Writer) *session {
	return &session{
		opts:   opts,
		pipe:   pipeline.New(logger),
		input:  input,
		output: output,
	}
}

// handle processes a single line and returns whether the shell should exit.
func (s *session) handle(ctx context.Context, line string) bool {
	if strings.HasPrefix(line, ":") {
		return s.command(strings.ToLower(line))
	}

	result, err := s.pipe.ExecuteSource(ctx, line, s.opts, s.input, s.output)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return true
		}
		fmt.Fprintf(s.output, "error: %s\n", err)
	}
	if s.showState && result != nil && result.State != nil {
		s.printState(result.State)
	}
	return false
}

func (s *session) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":board":
		s.opts.Board = !s.opts.Board
		fmt.Fprintf(s.output, "board printing %s\n", onOff(s.opts.Board))
	case ":state":
		s.showState = !s.showState
		fmt.Fprintf(s.output, "state printing %s\n", onOff(s.showState))
	case ":ops":
		for _, ins := range vm.Instructions {
			fmt.Fprintf(s.output, "  %c  %-16s %s\n", ins.Glyph, ins.Name, ins.Description)
		}
	case ":help":
		fmt.Fprint(s.output, helpText)
	default:
		fmt.Fprintf(s.output, "unknown command %s. Type :help for a list of commands.\n", cmd)
	}
	return false
}

func (s *session) printState(state *vm.State) {
	fmt.Fprintf(s.output, "entry %d,%d  steps %d  pointer %d  cell %d  buffer %d  loops %d\n",
		state.Entry.Row, state.Entry.Col, state.Steps, state.Pointer,
		state.Memory[state.Pointer], state.Buffer, state.LoopDepth)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
