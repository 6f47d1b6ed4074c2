package vm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/retroenv/fenvm/internal/board"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func decode(t *testing.T, fen string) *board.Grid {
	t.Helper()
	g, err := board.Decode(fen)
	assert.NoError(t, err)
	return g
}

func run(t *testing.T, fen string, cfg Config) (*State, string, error) {
	t.Helper()
	g := decode(t, fen)

	var out bytes.Buffer
	if cfg.Output == nil {
		cfg.Output = &out
	}
	memory := make([]int, g.Len())
	state, err := New(cfg).Run(context.Background(), g, memory, g.Turn())
	return state, out.String(), err
}

func TestRunEmptyBoard(t *testing.T) {
	state, out, err := run(t, "8/8/8/8/8/8/8/8 w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, board.Square{}, state.Entry)
	assert.Equal(t, uint64(0), state.Steps)
	assert.Len(t, state.Memory, 64)
	for _, cell := range state.Memory {
		assert.Equal(t, 0, cell)
	}
}

func TestRunSetTrue(t *testing.T) {
	state, out, err := run(t, "K7/8 w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, 1, state.Memory[0])
	assert.Equal(t, uint64(1), state.Steps)
	assert.Equal(t, 0, state.Pointer)
}

func TestRunOutput(t *testing.T) {
	// 'A' = 2^0 + 2^6
	state, out, err := run(t, "P5PR w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, "A", out)
	assert.Equal(t, 65, state.Memory[0])
}

func TestRunOutputUsesLowByte(t *testing.T) {
	// 2^8 + 2^0 + 2^5 = 289, low byte is '!'
	_, out, err := run(t, "P4P2PR w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, "!", out)
}

func TestRunBitDecrement(t *testing.T) {
	state, _, err := run(t, "pNp w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, -1, state.Memory[0])
	assert.Equal(t, -4, state.Memory[1])
}

func TestRunWideColumnShift(t *testing.T) {
	state, _, err := run(t, "64P w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, 0, state.Memory[0])

	state, _, err = run(t, "63P w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, math.MinInt64, state.Memory[0])
}

func TestRunLoop(t *testing.T) {
	program := strings.Join([]string{
		"PP6", // cell0 = 3
		"B7",  // loop while cell0 != 0
		"1Nk5",
		"P4P2", // cell1 = 33
		"R7",   // print '!'
		"n7",
		"p7", // cell0--
		"b7",
	}, "/") + " w"

	state, out, err := run(t, program, Config{})
	assert.NoError(t, err)
	assert.Equal(t, "!!!", out)
	assert.Equal(t, 0, state.Memory[0])
	assert.Equal(t, 33, state.Memory[1])
	assert.Equal(t, 0, state.Pointer)
	assert.Equal(t, 0, state.LoopDepth)
	assert.Equal(t, uint64(27), state.Steps)
}

func TestRunZeroEntryLoopIsSkipped(t *testing.T) {
	tests := []struct {
		name    string
		program string
	}{
		{"single loop", "BRb1K w"},
		{"nested loops", "BBbRbK w"},
		{"loop across ranks", "B2/R2/1bK w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, out, err := run(t, tt.program, Config{})
			assert.NoError(t, err)
			assert.Equal(t, "", out)
			assert.Equal(t, 1, state.Memory[0])
			assert.Equal(t, uint64(2), state.Steps)
		})
	}
}

func TestRunEntryPoint(t *testing.T) {
	state, _, err := run(t, "K1n b", Config{})
	assert.NoError(t, err)
	assert.Equal(t, board.Square{Row: 0, Col: 2}, state.Entry)
	assert.Equal(t, 0, state.Memory[0])
	assert.Equal(t, 2, state.Pointer)
	assert.Equal(t, uint64(1), state.Steps)
}

func TestEntryPoint(t *testing.T) {
	tests := []struct {
		program  string
		turn     board.Side
		expected board.Square
	}{
		{"8/8", board.White, board.Square{}},
		{"8/8", board.Black, board.Square{}},
		{"k7/7K", board.White, board.Square{Row: 1, Col: 7}},
		{"k7/7K", board.Black, board.Square{}},
		{"8/3p4/Q7", board.White, board.Square{Row: 2, Col: 0}},
		{"Q7/8", board.Black, board.Square{}},
	}

	for _, tt := range tests {
		t.Run(tt.program+" "+tt.turn.String(), func(t *testing.T) {
			g := decode(t, tt.program)
			assert.Equal(t, tt.expected, EntryPoint(g, tt.turn))
		})
	}
}

func TestRunBuffer(t *testing.T) {
	state, _, err := run(t, "KQkNq w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, 1, state.Buffer)
	assert.Equal(t, 0, state.Memory[0])
	assert.Equal(t, 1, state.Memory[1])
	assert.Equal(t, 1, state.Pointer)
}

func TestRunPointerWraps(t *testing.T) {
	state, _, err := run(t, "n2 b", Config{})
	assert.NoError(t, err)
	assert.Equal(t, 2, state.Pointer)

	state, _, err = run(t, "NNNN w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, 0, state.Pointer)
}

func TestRunPointerStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for range 50 {
		var sb strings.Builder
		for range 1 + rng.Intn(40) {
			if rng.Intn(2) == 0 {
				sb.WriteByte('N')
			} else {
				sb.WriteByte('n')
			}
		}
		fen := sb.String()

		state, _, err := run(t, fen+" w", Config{})
		assert.NoError(t, err)
		assert.True(t, state.Pointer >= 0 && state.Pointer < len(fen), fen)
	}
}

func TestRunInput(t *testing.T) {
	state, out, err := run(t, "rR b", Config{Input: strings.NewReader("Zy")})
	assert.NoError(t, err)
	assert.Equal(t, "Z", out)
	assert.Equal(t, int('Z'), state.Memory[0])

	state, _, err = run(t, "r w", Config{})
	assert.NoError(t, err)
	assert.Equal(t, EOF, state.Memory[0])
}

func TestRunInputPrompt(t *testing.T) {
	_, out, err := run(t, "PRr w", Config{
		Input:  strings.NewReader("a"),
		Prompt: "\nInput a character: ",
	})
	assert.NoError(t, err)
	assert.Equal(t, "\x01\nInput a character: ", out)
}

func TestRunInputDoesNotReadAhead(t *testing.T) {
	source := strings.NewReader("abc")
	input := struct{ io.Reader }{source}
	state, _, err := run(t, "rNr b", Config{Input: input})
	assert.NoError(t, err)
	assert.Equal(t, int('a'), state.Memory[0])
	assert.Equal(t, int('b'), state.Memory[1])
	assert.Equal(t, 1, source.Len())
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		program string
		cfg     Config
		err     error
		square  board.Square
	}{
		{"unmatched loop begin", "B7/8 w", Config{}, ErrUnmatchedLoopStart, board.Square{}},
		{"unmatched nested loop begin", "BBb w", Config{}, ErrUnmatchedLoopStart, board.Square{}},
		{"loop end without begin on zero", "b w", Config{}, ErrLoopStackUnderflow, board.Square{}},
		{"loop end without begin on one", "Kb w", Config{}, ErrLoopStackUnderflow, board.Square{Col: 1}},
		{"loop stack overflow", "KBBB w", Config{MaxLoopDepth: 2}, ErrLoopStackOverflow, board.Square{Col: 3}},
		{"step limit", "KBb w", Config{MaxSteps: 100}, ErrStepLimit, board.Square{Col: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _, err := run(t, tt.program, tt.cfg)
			assert.True(t, errors.Is(err, tt.err))
			assert.NotNil(t, state)

			var runtimeErr *RuntimeError
			assert.True(t, errors.As(err, &runtimeErr))
			assert.Equal(t, tt.square, runtimeErr.Square)
		})
	}
}

func TestRunUnboundedLoopDepth(t *testing.T) {
	program := "K" + strings.Repeat("B", 300) + " w"
	state, _, err := run(t, program, Config{})
	assert.NoError(t, err)
	assert.Equal(t, 300, state.LoopDepth)

	_, _, err = run(t, program, Config{MaxLoopDepth: DefaultMaxLoopDepth})
	assert.True(t, errors.Is(err, ErrLoopStackOverflow))
}

func TestRunPreservesOutputOnError(t *testing.T) {
	state, out, err := run(t, "P5PRb w", Config{})
	assert.True(t, errors.Is(err, ErrLoopStackUnderflow))
	assert.Equal(t, "A", out)
	assert.Equal(t, 65, state.Memory[0])
}

func TestRunCancelled(t *testing.T) {
	g := decode(t, "KBb w")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{}).Run(ctx, g, make([]int, g.Len()), g.Turn())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunEmptyMemory(t *testing.T) {
	g := decode(t, "K w")
	_, err := New(Config{}).Run(context.Background(), g, nil, g.Turn())
	assert.True(t, errors.Is(err, ErrEmptyMemory))
}

func TestRunTrace(t *testing.T) {
	state, out, err := run(t, "P5PR w", Config{
		Logger: log.NewTestLogger(t),
		Trace:  true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "A", out)
	assert.Equal(t, uint64(3), state.Steps)
}

func TestLookup(t *testing.T) {
	assert.Len(t, Instructions, len(board.Glyphs))
	for i := range len(board.Glyphs) {
		ins, ok := Lookup(board.Glyphs[i])
		assert.True(t, ok)
		assert.Equal(t, board.Glyphs[i], ins.Glyph)
	}

	_, ok := Lookup(board.Blank)
	assert.False(t, ok)

	ins, _ := Lookup(board.WhiteBishop)
	assert.Equal(t, LoopBegin, ins.Name)
}
