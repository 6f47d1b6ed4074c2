package vm

import (
	"github.com/retroenv/fenvm/internal/board"
)

// Instruction describes the opcode that a piece glyph executes.
type Instruction struct {
	Glyph       byte
	Name        string
	Description string
}

// Opcode names.
const (
	BitIncrement   = "bit-increment"
	BitDecrement   = "bit-decrement"
	PointerAdvance = "pointer-advance"
	PointerRetreat = "pointer-retreat"
	LoopBegin      = "loop-begin"
	LoopEnd        = "loop-end"
	Output         = "output"
	Input          = "input"
	BufferStore    = "buffer-store"
	BufferLoad     = "buffer-load"
	SetTrue        = "set-true"
	SetFalse       = "set-false"
)

// Instructions maps every piece glyph to its instruction, in board.Glyphs order.
var Instructions = []Instruction{
	{board.WhitePawn, BitIncrement, "add 2^column to the current cell"},
	{board.WhiteKnight, PointerAdvance, "move the pointer one cell right, wrapping around"},
	{board.WhiteBishop, LoopBegin, "skip past the matching loop end if the current cell is zero"},
	{board.WhiteRook, Output, "write the current cell as a character"},
	{board.WhiteQueen, BufferStore, "copy the current cell into the buffer"},
	{board.WhiteKing, SetTrue, "set the current cell to 1"},
	{board.BlackPawn, BitDecrement, "subtract 2^column from the current cell"},
	{board.BlackKnight, PointerRetreat, "move the pointer one cell left, wrapping around"},
	{board.BlackBishop, LoopEnd, "jump back to the loop begin if the current cell is not zero"},
	{board.BlackRook, Input, "read one character into the current cell"},
	{board.BlackQueen, BufferLoad, "copy the buffer into the current cell"},
	{board.BlackKing, SetFalse, "set the current cell to 0"},
}

var instructionByGlyph = func() map[byte]*Instruction {
	m := make(map[byte]*Instruction, len(Instructions))
	for i := range Instructions {
		m[Instructions[i].Glyph] = &Instructions[i]
	}
	return m
}()

// Lookup returns the instruction of a glyph.
func Lookup(glyph byte) (*Instruction, bool) {
	ins, ok := instructionByGlyph[glyph]
	return ins, ok
}
