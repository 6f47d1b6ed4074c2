// Package pipeline orchestrates the board program workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/retroenv/fenvm/internal/board"
	"github.com/retroenv/fenvm/internal/charset"
	"github.com/retroenv/fenvm/internal/detector"
	"github.com/retroenv/fenvm/internal/loader"
	"github.com/retroenv/fenvm/internal/options"
	"github.com/retroenv/fenvm/internal/position"
	"github.com/retroenv/fenvm/internal/render"
	"github.com/retroenv/fenvm/internal/verification"
	"github.com/retroenv/fenvm/internal/vm"
	"github.com/retroenv/fenvm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Result contains the outcome of a program run.
type Result struct {
	Grid     *board.Grid
	State    *vm.State
	Position *position.Report // set if a chess report was requested and the board is a chess position
}

// Pipeline orchestrates the complete board program workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	open     func(ctx context.Context, path string) error
}

// New creates a new board program pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		open:     writer.Open,
	}
}

// Execute loads the input file of the options and runs it. Program input is
// read from input, the program output and the optional board print are
// written to output.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, input io.Reader, output io.Writer) (*Result, error) {
	format := p.detector.Detect(opts)

	text, err := p.loader.Load(opts, format)
	if err != nil {
		return nil, fmt.Errorf("loading board program: %w", err)
	}

	return p.ExecuteSource(ctx, text, opts, input, output)
}

// ExecuteSource runs the given program text.
// If the interpreter fails, the returned result contains the partial machine
// state together with the error.
func (p *Pipeline) ExecuteSource(ctx context.Context, text string, opts options.Program,
	input io.Reader, output io.Writer) (*Result, error) {

	grid, err := board.Decode(text, board.WithMaxCells(opts.MaxCells))
	if err != nil {
		return nil, fmt.Errorf("decoding board: %w", err)
	}
	if grid.Len() == 0 {
		return nil, board.ErrEmptyBoard
	}

	p.printInfo(opts, grid)
	result := &Result{Grid: grid}

	if err := p.prepare(ctx, opts, grid, output, result); err != nil {
		return nil, err
	}

	state, err := p.run(ctx, opts, grid, input, output)
	result.State = state
	if err != nil {
		return result, fmt.Errorf("interpreting board: %w", err)
	}
	return result, nil
}

// prepare runs the optional stages before the interpreter starts.
func (p *Pipeline) prepare(ctx context.Context, opts options.Program, grid *board.Grid,
	output io.Writer, result *Result) error {

	if opts.Verify {
		if err := verification.VerifyRoundTrip(p.logger, grid); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	if opts.Board {
		if err := render.New(output, render.Options{Color: opts.Color}).Render(grid); err != nil {
			return fmt.Errorf("rendering board: %w", err)
		}
	}

	if opts.HTML {
		if err := p.exportHTML(ctx, opts, grid); err != nil {
			return err
		}
	}

	if opts.Chess {
		result.Position = p.reportPosition(grid)
	}
	return nil
}

// run allocates the memory tape and interprets the grid.
func (p *Pipeline) run(ctx context.Context, opts options.Program, grid *board.Grid,
	input io.Reader, output io.Writer) (*vm.State, error) {

	out, err := charset.NewWriter(output, opts.Charset)
	if err != nil {
		return nil, fmt.Errorf("creating output writer: %w", err)
	}

	interpreter := vm.New(vm.Config{
		Input:        input,
		Output:       out,
		Prompt:       opts.InputPrompt(),
		MaxLoopDepth: opts.MaxLoopDepth,
		MaxSteps:     opts.MaxSteps,
		Logger:       p.logger,
		Trace:        opts.Trace,
	})

	memory := make([]int, grid.Len())
	state, runErr := interpreter.Run(ctx, grid, memory, grid.Turn())

	closeErr := out.Close()
	if _, err := io.WriteString(output, "\n"); err != nil && closeErr == nil {
		closeErr = fmt.Errorf("writing output: %w", err)
	}
	if runErr != nil {
		return state, runErr
	}
	if closeErr != nil {
		return state, fmt.Errorf("flushing output: %w", closeErr)
	}

	p.logger.Debug("Interpretation complete",
		log.String("steps", strconv.FormatUint(state.Steps, 10)),
		log.Int("pointer", state.Pointer),
		log.Int("cell", state.Memory[state.Pointer]),
		log.Int("buffer", state.Buffer))
	return state, nil
}

func (p *Pipeline) exportHTML(ctx context.Context, opts options.Program, grid *board.Grid) error {
	if err := writer.WriteFile(opts.Output, grid, writer.Options{}); err != nil {
		return fmt.Errorf("exporting html: %w", err)
	}
	p.logger.Info("Exported board", log.String("file", opts.Output))

	if !opts.Open {
		return nil
	}
	if err := p.open(ctx, opts.Output); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		p.logger.Warn("Opening html file failed", log.String("file", opts.Output), log.Err(err))
	}
	return nil
}

func (p *Pipeline) reportPosition(grid *board.Grid) *position.Report {
	report, err := position.Analyze(grid)
	if err != nil {
		p.logger.Info("Board is not a chess position", log.Err(err))
		return nil
	}

	p.logger.Info("Board is a chess position",
		log.String("fen", report.FEN),
		log.Stringer("turn", report.Turn),
		log.Int("legal_moves", report.LegalMoves),
		log.Stringer("status", report.Status))
	return report
}

// printInfo prints information about the board being processed.
func (p *Pipeline) printInfo(opts options.Program, grid *board.Grid) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running board program",
		log.String("file", opts.Input),
		log.Int("rows", grid.Rows()),
		log.Int("cols", grid.Cols()),
		log.Int("pieces", grid.Pieces()),
		log.Stringer("turn", grid.Turn()),
	)
	if grid.Pieces() == 0 {
		p.logger.Warn("Board contains no pieces, nothing will be executed")
	}
}
