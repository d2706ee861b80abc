package nawk

import (
	"errors"
	"io"

	"github.com/kolkov/nawk/internal/interp"
	"github.com/kolkov/nawk/internal/parser"
)

// Version is the nawk version string.
const Version = "0.1.0"

// Run executes an AWK program with the given input.
// This is a convenience function for one-off execution.
// For repeated execution of the same program, use Compile followed by Program.Run.
//
// Parameters:
//   - program: AWK source code
//   - input: input data reader (can be nil for programs without input)
//   - config: execution configuration (can be nil for defaults)
//
// Returns the program output as a string, or an error if parsing
// or execution fails.
//
// Example:
//
//	output, err := nawk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//	// output: "hello\n"
func Run(program string, input io.Reader, config *Config) (string, error) {
	prog, err := Compile(program)
	if err != nil {
		return "", err
	}
	return prog.Run(input, config)
}

// Compile checks an AWK program for syntax errors and returns it ready for
// execution. The returned Program can be executed multiple times with
// different inputs.
//
// Example:
//
//	prog, err := nawk.Compile(`{ sum += $1 } END { print sum }`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	output1, _ := prog.Run(file1, nil)
//	output2, _ := prog.Run(file2, nil)
func Compile(program string) (*Program, error) {
	// The tree is bound to the table it was parsed into, so this parse only
	// validates. Each run parses again into its own interpreter.
	scratch := interp.New(interp.Config{})
	if _, err := parser.Parse(program, scratch.Table()); err != nil {
		return nil, convertParseError(err)
	}
	return &Program{source: program}, nil
}

// convertParseError turns a parser error into the public type, keeping
// the first error of a list.
func convertParseError(err error) error {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Pos.Line, Column: pe.Pos.Column, Message: pe.Message}
	}
	var el parser.ErrorList
	if errors.As(err, &el) && len(el) > 0 {
		return &ParseError{Line: el[0].Pos.Line, Column: el[0].Pos.Column, Message: el[0].Message}
	}
	return &ParseError{Message: err.Error()}
}

// Exec is a simplified interface for running an AWK program.
// It reads from input, writes to output, and returns any error.
//
// Example:
//
//	err := nawk.Exec(`{ print toupper($0) }`, os.Stdin, os.Stdout, nil)
func Exec(program string, input io.Reader, output io.Writer, config *Config) error {
	prog, err := Compile(program)
	if err != nil {
		return err
	}

	if config == nil {
		config = &Config{}
	}
	config.Output = output

	_, err = prog.Run(input, config)
	return err
}

// MustCompile is like Compile but panics if the program cannot be compiled.
// It simplifies initialization of global program variables.
//
// Example:
//
//	var sumProgram = nawk.MustCompile(`{ sum += $1 } END { print sum }`)
func MustCompile(program string) *Program {
	prog, err := Compile(program)
	if err != nil {
		panic(err)
	}
	return prog
}
