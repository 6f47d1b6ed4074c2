package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/fenvm/internal/options"
	"github.com/retroenv/retrogolib/set"
	"gopkg.in/yaml.v3"
)

// File is the content of a yaml config file. Unset fields leave the
// corresponding option untouched.
type File struct {
	MaxCells     *int    `yaml:"max_cells"`
	MaxLoopDepth *int    `yaml:"max_loop_depth"`
	MaxSteps     *uint64 `yaml:"max_steps"`
	Charset      string  `yaml:"charset"`
	Prompt       *string `yaml:"prompt"`
	HTMLOutput   string  `yaml:"html_output"`
}

// Load parses a yaml config file from disk.
func Load(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a yaml config. Unknown keys are rejected.
func Parse(reader io.Reader) (*File, error) {
	var cfg File
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Apply copies the config values into the program options. Options whose
// command line flag was set explicitly keep their value.
func (f *File) Apply(opts *options.Program, explicit set.Set[string]) {
	if f.MaxCells != nil && !explicit.Contains("max-cells") {
		opts.MaxCells = *f.MaxCells
	}
	if f.MaxLoopDepth != nil && !explicit.Contains("max-loop-depth") {
		opts.MaxLoopDepth = *f.MaxLoopDepth
	}
	if f.MaxSteps != nil && !explicit.Contains("max-steps") {
		opts.MaxSteps = *f.MaxSteps
	}
	if f.Charset != "" && !explicit.Contains("charset") {
		opts.Charset = f.Charset
	}
	if f.Prompt != nil {
		opts.Prompt = *f.Prompt
	}
	if f.HTMLOutput != "" && !explicit.Contains("o") {
		opts.Output = f.HTMLOutput
	}
}

func (f *File) validate() error {
	if f.MaxCells != nil && *f.MaxCells < 0 {
		return fmt.Errorf("max_cells must not be negative: %d", *f.MaxCells)
	}
	if f.MaxLoopDepth != nil && *f.MaxLoopDepth < 0 {
		return fmt.Errorf("max_loop_depth must not be negative: %d", *f.MaxLoopDepth)
	}
	return nil
}
