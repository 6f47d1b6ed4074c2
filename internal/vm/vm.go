// Package vm implements the interpreter that executes a decoded board.
//
// The machine owns a circular tape of integer cells, a pointer into the tape,
// a single transfer buffer register and a stack of entered loop positions.
// The board is walked once in row-major order starting at the entry square,
// only the loop opcodes can move the cursor backwards or skip ahead.
package vm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/fenvm/internal/board"
	"github.com/retroenv/retrogolib/log"
)

// EOF is stored into the current cell when the input opcode hits the end of the input.
const EOF = -1

// DefaultMaxLoopDepth is the loop nesting limit used when none is configured.
const DefaultMaxLoopDepth = 256

// cancelCheckInterval is the number of dispatched opcodes between context checks.
const cancelCheckInterval = 1024

// Config controls the environment of an interpreter run.
type Config struct {
	Input  io.Reader // source of the input opcode, nil behaves like an empty stream
	Output io.Writer // destination of the output opcode, nil discards
	Prompt string    // written before every read of the input opcode

	MaxLoopDepth int    // maximum loop nesting, 0 for unbounded
	MaxSteps     uint64 // maximum dispatched opcodes, 0 for unlimited

	Logger *log.Logger
	Trace  bool // log every dispatched opcode on debug level
}

// State is the machine state at the end of a run.
type State struct {
	Memory    []int
	Pointer   int
	Buffer    int
	Entry     board.Square
	Steps     uint64
	LoopDepth int
}

// Interpreter executes boards.
type Interpreter struct {
	cfg Config
}

// New returns a new interpreter.
func New(cfg Config) *Interpreter {
	return &Interpreter{cfg: cfg}
}

// Run executes the grid using the given memory tape, starting at the first
// piece of the turn side. The tape is modified in place. The returned state is
// valid even if an error is returned, output written before the error has
// been flushed.
func (in *Interpreter) Run(ctx context.Context, grid *board.Grid, memory []int, turn board.Side) (*State, error) {
	if len(memory) == 0 || grid.Len() == 0 {
		return nil, ErrEmptyMemory
	}

	m := newMachine(in.cfg, grid, memory)
	m.entry = EntryPoint(grid, turn)

	err := m.run(ctx)
	if flushErr := m.out.Flush(); flushErr != nil && err == nil {
		err = fmt.Errorf("flushing output: %w", flushErr)
	}
	return m.state(), err
}

// EntryPoint returns the first square in row-major order that holds a piece of
// the given side. If there is no such piece the top left square is returned.
func EntryPoint(grid *board.Grid, turn board.Side) board.Square {
	for i := range grid.Len() {
		c := grid.Cell(i)
		if c != board.Blank && board.SideOf(c) == turn {
			return grid.Square(i)
		}
	}
	return board.Square{}
}

type machine struct {
	cfg    Config
	grid   *board.Grid
	memory []int
	in     io.ByteReader
	out    *bufio.Writer

	entry   board.Square
	pointer int
	buffer  int
	loops   []int // row-major indices of entered loop begins
	steps   uint64
}

func newMachine(cfg Config, grid *board.Grid, memory []int) *machine {
	input := cfg.Input
	if input == nil {
		input = strings.NewReader("")
	}
	output := cfg.Output
	if output == nil {
		output = io.Discard
	}

	return &machine{
		cfg:    cfg,
		grid:   grid,
		memory: memory,
		in:     byteReader(input),
		out:    bufio.NewWriter(output),
	}
}

func (m *machine) state() *State {
	return &State{
		Memory:    m.memory,
		Pointer:   m.pointer,
		Buffer:    m.buffer,
		Entry:     m.entry,
		Steps:     m.steps,
		LoopDepth: len(m.loops),
	}
}

func (m *machine) run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cells := m.grid.Len()
	for index := m.grid.Index(m.entry); index < cells; index++ {
		glyph := m.grid.Cell(index)
		if glyph == board.Blank {
			continue
		}

		m.steps++
		if m.cfg.MaxSteps > 0 && m.steps > m.cfg.MaxSteps {
			return m.runtimeError(index, glyph, ErrStepLimit)
		}
		if m.steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if m.cfg.Trace {
			m.trace(index, glyph)
		}

		next, err := m.execute(index, glyph)
		if err != nil {
			return err
		}
		index = next
	}
	return nil
}

// execute dispatches a single glyph and returns the index that the cursor
// continues from.
func (m *machine) execute(index int, glyph byte) (int, error) {
	switch glyph {
	case board.WhitePawn:
		m.memory[m.pointer] += 1 << (index % m.grid.Cols())

	case board.BlackPawn:
		m.memory[m.pointer] -= 1 << (index % m.grid.Cols())

	case board.WhiteKnight:
		m.pointer = (m.pointer + 1) % len(m.memory)

	case board.BlackKnight:
		m.pointer = (m.pointer - 1 + len(m.memory)) % len(m.memory)

	case board.WhiteBishop:
		return m.loopBegin(index, glyph)

	case board.BlackBishop:
		return m.loopEnd(index, glyph)

	case board.WhiteRook:
		if err := m.out.WriteByte(byte(m.memory[m.pointer])); err != nil {
			return 0, fmt.Errorf("writing output: %w", err)
		}

	case board.BlackRook:
		if err := m.readInput(); err != nil {
			return 0, err
		}

	case board.WhiteQueen:
		m.buffer = m.memory[m.pointer]

	case board.BlackQueen:
		m.memory[m.pointer] = m.buffer

	case board.WhiteKing:
		m.memory[m.pointer] = 1

	case board.BlackKing:
		m.memory[m.pointer] = 0
	}

	return index, nil
}

func (m *machine) loopBegin(index int, glyph byte) (int, error) {
	if m.memory[m.pointer] != 0 {
		if m.cfg.MaxLoopDepth > 0 && len(m.loops) >= m.cfg.MaxLoopDepth {
			return 0, m.runtimeError(index, glyph, ErrLoopStackOverflow)
		}
		m.loops = append(m.loops, index)
		return index, nil
	}

	end, ok := m.findLoopEnd(index)
	if !ok {
		return 0, m.runtimeError(index, glyph, ErrUnmatchedLoopStart)
	}
	return end, nil
}

func (m *machine) loopEnd(index int, glyph byte) (int, error) {
	if len(m.loops) == 0 {
		return 0, m.runtimeError(index, glyph, ErrLoopStackUnderflow)
	}

	top := len(m.loops) - 1
	if m.memory[m.pointer] != 0 {
		return m.loops[top], nil
	}
	m.loops = m.loops[:top]
	return index, nil
}

// findLoopEnd scans forward from a loop begin for the loop end at the same
// nesting depth.
func (m *machine) findLoopEnd(index int) (int, bool) {
	depth := 1
	for i := index + 1; i < m.grid.Len(); i++ {
		switch m.grid.Cell(i) {
		case board.WhiteBishop:
			depth++
		case board.BlackBishop:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func (m *machine) readInput() error {
	if m.cfg.Prompt != "" {
		if _, err := m.out.WriteString(m.cfg.Prompt); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
	}
	if err := m.out.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	b, err := m.in.ReadByte()
	switch {
	case err == nil:
		m.memory[m.pointer] = int(b)
	case err == io.EOF:
		m.memory[m.pointer] = EOF
	default:
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func (m *machine) runtimeError(index int, glyph byte, err error) error {
	return &RuntimeError{
		Square: m.grid.Square(index),
		Glyph:  glyph,
		Err:    err,
	}
}

func (m *machine) trace(index int, glyph byte) {
	if m.cfg.Logger == nil {
		return
	}

	name := "no-op"
	if ins, ok := Lookup(glyph); ok {
		name = ins.Name
	}
	sq := m.grid.Square(index)
	m.cfg.Logger.Debug("Executing opcode",
		log.Int("row", sq.Row),
		log.Int("col", sq.Col),
		log.String("glyph", string(glyph)),
		log.String("opcode", name),
		log.Int("pointer", m.pointer),
		log.Int("cell", m.memory[m.pointer]))
}

// singleByteReader reads from a reader without buffering ahead, so that bytes
// after the one consumed by the input opcode stay available to the caller.
type singleByteReader struct {
	r   io.Reader
	buf [1]byte
}

func byteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &singleByteReader{r: r}
}

func (s *singleByteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, io.EOF
		}
		return 0, err
	}
	return s.buf[0], nil
}
