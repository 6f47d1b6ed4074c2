// Package options contains the program options.
package options

// Default values of the program options.
const (
	DefaultHTMLOutput   = "output_chess_board.html"
	DefaultMaxCells     = 30000
	DefaultMaxLoopDepth = 256
	DefaultPrompt       = "\nInput a character: "
)

// Source formats of the program text.
const (
	FormatFEN = "fen"
	FormatPGN = "pgn"
)

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"file containing the board program"`
	HTML string `arg:"positional" usage:"legacy html export switch, true or false"`
}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"board program file"`
	Output string `flag:"o" usage:"html output file" default:"output_chess_board.html"`
	Config string `flag:"c" usage:"yaml config file"`
	Batch  string `flag:"batch" usage:"run all files matching pattern (e.g. *.fen)"`
}

// Flags contains behavior options.
type Flags struct {
	Format  string `flag:"s" usage:"source format: fen, pgn (default: auto-detect)"`
	Charset string `flag:"charset" usage:"IANA character set of the program output, translated to UTF-8"`
	Verify  bool   `flag:"verify" usage:"verify that the decoded board encodes back to an equal board"`
	Chess   bool   `flag:"chess" usage:"report whether the board is also a chess position"`
	Debug   bool   `flag:"debug" usage:"enable debug logging"`
	Trace   bool   `flag:"trace" usage:"log every executed opcode, implies -debug"`
	Verbose bool   `flag:"v" usage:"verbose mode"`
	Quiet   bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains board output options.
type OutputFlags struct {
	HTML     bool `flag:"html" usage:"export the board as html page"`
	Open     bool `flag:"open" usage:"open the exported html page in the platform viewer"`
	Board    bool `flag:"board" usage:"print the board before running it"`
	Color    bool `flag:"color" usage:"print the board in color"`
	NoPrompt bool `flag:"noprompt" usage:"do not print a prompt before reading input"`
}

// Limits contains resource limits of a run.
type Limits struct {
	MaxCells     int    `flag:"max-cells" usage:"maximum number of board cells, 0 for unlimited" default:"30000"`
	MaxLoopDepth int    `flag:"max-loop-depth" usage:"maximum loop nesting, 0 for unlimited" default:"256"`
	MaxSteps     uint64 `flag:"max-steps" usage:"maximum executed opcodes, 0 for unlimited"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	OutputFlags
	Limits

	Prompt string // prompt written before reading an input character
}

// New returns program options initialized with default values.
func New() Program {
	return Program{
		Parameters: Parameters{
			Output: DefaultHTMLOutput,
		},
		Limits: Limits{
			MaxCells:     DefaultMaxCells,
			MaxLoopDepth: DefaultMaxLoopDepth,
		},
		Prompt: DefaultPrompt,
	}
}

// InputPrompt returns the prompt to write before reading input.
func (p Program) InputPrompt() string {
	if p.NoPrompt {
		return ""
	}
	return p.Prompt
}
