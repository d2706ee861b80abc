package nawk

import (
	"bytes"
	"errors"
	"io"

	"github.com/kolkov/nawk/internal/interp"
	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/parser"
)

// Program is an AWK program that has passed the syntax check.
// It is safe for concurrent use; each call to Run creates an
// independent interpreter.
type Program struct {
	source string
}

// Run executes the program with the given input and configuration.
// Returns the output as a string, or an error if execution fails.
//
// If config is nil, default configuration is used.
// If config.Output is set, output is written there and the returned
// string will be empty.
func (p *Program) Run(input io.Reader, config *Config) (string, error) {
	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	var outputBuf *bytes.Buffer
	output := config.Output
	if output == nil {
		outputBuf = &bytes.Buffer{}
		output = outputBuf
	}

	in := interp.New(interp.Config{
		Stdout:     output,
		Stderr:     config.Stderr,
		Logger:     config.Logger,
		Debug:      config.Debug,
		POSIXRegex: *config.POSIXRegex,
		Args:       config.Args,
		Environ:    config.Environ,
	})
	tree, err := parser.Parse(p.source, in.Table())
	if err != nil {
		return "", convertParseError(err)
	}
	if err := configure(in, config); err != nil {
		return "", err
	}

	code, err := in.Run(tree, input)
	captured := ""
	if outputBuf != nil {
		captured = outputBuf.String()
	}
	if err != nil {
		var e *interp.Error
		if errors.As(err, &e) {
			return captured, &FatalError{Message: e.Message, Line: e.Line, Record: e.Record}
		}
		return captured, err
	}
	if code != 0 {
		return captured, &ExitError{Code: code}
	}
	return captured, nil
}

// Source returns the original AWK source code.
func (p *Program) Source() string {
	return p.source
}

// Dump writes the parse tree of the program to w.
func (p *Program) Dump(w io.Writer) error {
	in := interp.New(interp.Config{})
	tree, err := parser.Parse(p.source, in.Table())
	if err != nil {
		return convertParseError(err)
	}
	return node.Fprint(w, tree)
}

// configure applies Config settings to an interpreter before BEGIN runs.
func configure(in *interp.Interp, config *Config) error {
	specials := []struct{ name, value string }{
		{"FS", config.FS},
		{"RS", config.RS},
		{"OFS", config.OFS},
		{"ORS", config.ORS},
		{"SUBSEP", config.SUBSEP},
		{"CONVFMT", config.CONVFMT},
		{"OFMT", config.OFMT},
	}
	for _, s := range specials {
		if err := in.SetVar(s.name, s.value); err != nil {
			return err
		}
	}
	for name, value := range config.Variables {
		if err := in.SetVar(name, value); err != nil {
			return err
		}
	}
	return nil
}
