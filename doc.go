// Package nawk provides an AWK interpreter.
//
// nawk runs AWK programs by walking the parse tree directly. Values are
// cells that carry a string and a number at once, fields are split
// lazily when first read, and assigning a field or NF rebuilds the record.
// Regular expressions are matched with coregex.
//
// # Quick Start
//
// For simple one-off execution:
//
//	output, err := nawk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//
// With configuration:
//
//	output, err := nawk.Run(program, input, &nawk.Config{
//	    FS: ":",
//	    Variables: map[string]string{"threshold": "100"},
//	})
//
// # Compiled Programs
//
// For repeated execution of the same program:
//
//	prog, err := nawk.Compile(`$1 > threshold { print $2 }`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, file := range files {
//	    output, err := prog.Run(file, &nawk.Config{
//	        Variables: map[string]string{"threshold": "100"},
//	    })
//	    // ...
//	}
//
// # Configuration
//
// The [Config] type allows customization of AWK execution:
//   - Separators and conversion formats (FS, RS, OFS, ORS, SUBSEP, CONVFMT, OFMT)
//   - Pre-defined variables, ARGV and ENVIRON
//   - Custom I/O writers and a [log/slog] logger for warnings
//
// Variables are applied after the separators, so Variables{"RS": ""}
// selects paragraph mode.
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: syntax errors in AWK source
//   - [FatalError]: runtime errors that stop the program
//   - [ExitError]: the program called exit with a non-zero status
//
// # Thread Safety
//
// [Program] values are safe for concurrent use.
// Each call to [Program.Run] creates an independent interpreter.
package nawk
