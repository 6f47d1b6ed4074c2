// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/fenvm/internal/config"
	"github.com/retroenv/fenvm/internal/options"
	"github.com/retroenv/retrogolib/set"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	opts := options.New()
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}
	if len(args) > 1 && args[1] == "true" {
		opts.HTML = true
	}

	if opts.Config != "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return opts, err
		}
		cfg.Apply(&opts, explicitFlags(flags))
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: fenvm [options] <board file> [true|false]\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	if len(args) > 2 {
		return &UsageError{
			msg: fmt.Sprintf("Unexpected argument %s, expected a board file and an optional html switch", args[2]),
		}
	}
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after board file, please pass the board file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Format = strings.ToLower(opts.Format)
	switch opts.Format {
	case "", options.FormatFEN, options.FormatPGN:
	default:
		return fmt.Errorf("unsupported source format: %s. Valid options: %s, %s",
			opts.Format, options.FormatFEN, options.FormatPGN)
	}

	if opts.Trace {
		opts.Debug = true
	}
	if opts.Open {
		opts.HTML = true
	}

	if opts.MaxCells < 0 {
		return fmt.Errorf("invalid cell limit %d", opts.MaxCells)
	}
	if opts.MaxLoopDepth < 0 {
		return fmt.Errorf("invalid loop depth limit %d", opts.MaxLoopDepth)
	}
	return nil
}

// explicitFlags returns the names of all flags that were set on the command line.
func explicitFlags(flags *flag.FlagSet) set.Set[string] {
	names := set.New[string]()
	flags.Visit(func(f *flag.Flag) {
		names.Add(f.Name)
	})
	return names
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the board program file")
	flags.StringVar(&opts.Output, "o", opts.Output, "name of the html output file")
	flags.StringVar(&opts.Config, "c", "", "yaml config file with limits and output settings")
	flags.StringVar(&opts.Batch, "batch", "", "run a batch of given path and file mask, for example *.fen")
	flags.StringVar(&opts.Format, "s", "", "source format (fen, pgn) - if not auto-detected from file extension")
	flags.StringVar(&opts.Charset, "charset", "", "IANA character set of the program output, translated to UTF-8")
	flags.BoolVar(&opts.HTML, "html", false, "export the board as html page")
	flags.BoolVar(&opts.Open, "open", false, "open the exported html page in the platform viewer")
	flags.BoolVar(&opts.Board, "board", false, "print the board before running it")
	flags.BoolVar(&opts.Color, "color", false, "print the board in color")
	flags.BoolVar(&opts.NoPrompt, "noprompt", false, "do not print a prompt before reading an input character")
	flags.BoolVar(&opts.Verify, "verify", false, "verify that the decoded board encodes back to an equal board")
	flags.BoolVar(&opts.Chess, "chess", false, "report whether the board is also a legal chess position")
	flags.IntVar(&opts.MaxCells, "max-cells", opts.MaxCells, "maximum number of board cells, 0 for unlimited")
	flags.IntVar(&opts.MaxLoopDepth, "max-loop-depth", opts.MaxLoopDepth, "maximum loop nesting, 0 for unlimited")
	flags.Uint64Var(&opts.MaxSteps, "max-steps", 0, "maximum number of executed opcodes, 0 for unlimited")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed opcode, implies -debug")
	flags.BoolVar(&opts.Verbose, "v", false, "print banner and informational messages")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
