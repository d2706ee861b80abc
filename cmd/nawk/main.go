// nawk - AWK interpreter
//
// Uses manual argument parsing for POSIX compatibility (supports -F: style flags).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kolkov/nawk"
	"github.com/kolkov/nawk/internal/lexer"
)

// version is set at build time via -ldflags.
// For development builds, it will be "dev".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	shortUsage = "usage: nawk [-F fs] [-v var=value] [-f progfile | 'prog'] [file ...]"
	longUsage  = `Standard AWK arguments:
  -F separator      field separator (default " "; "t" means tab)
  -f progfile       load AWK source from progfile (multiple allowed)
  -v var=value      variable assignment (multiple allowed)

Regex options:
  --posix           use POSIX leftmost-longest regex matching (default)
  --no-posix        use faster leftmost-first regex matching (Perl-like)

Debugging arguments:
  -d                print the parse tree to stderr and log each record

Other:
  -h, --help        show this help message
  -version          show nawk version and exit
`
)

// fatalStatus is the exit status for syntax and runtime errors.
const fatalStatus = 2

//nolint:gocyclo,funlen // CLI argument parsing is inherently complex
func main() {
	// Parse command line arguments manually rather than using the
	// "flag" package, so we can support flags with no space between
	// flag and argument, like '-F:' (allowed by POSIX)
	var progFiles []string
	var vars []string
	fieldSep := " "
	debug := false
	var posixRegex *bool // nil = default (true), explicit true/false from flags

	var i int
	for i = 1; i < len(os.Args); i++ {
		// Stop on explicit end of args or first arg not prefixed with "-"
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-F":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -F")
			}
			i++
			fieldSep = os.Args[i]
		case "-f":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -f")
			}
			i++
			progFiles = append(progFiles, os.Args[i])
		case "-v":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -v")
			}
			i++
			vars = append(vars, os.Args[i])
		case "-d":
			debug = true
		case "--posix":
			t := true
			posixRegex = &t
		case "--no-posix":
			f := false
			posixRegex = &f
		case "-h", "--help":
			fmt.Printf("nawk %s - AWK interpreter\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case "-version", "--version":
			fmt.Printf("nawk version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
			fmt.Println("  regex:  coregex")
			os.Exit(0)
		default:
			// Handle flags with no space: -F:, -ffile, -vvar=val
			switch {
			case strings.HasPrefix(arg, "-F"):
				fieldSep = arg[2:]
			case strings.HasPrefix(arg, "-f"):
				progFiles = append(progFiles, arg[2:])
			case strings.HasPrefix(arg, "-v"):
				vars = append(vars, arg[2:])
			default:
				errorExitf("flag provided but not defined: %s", arg)
			}
		}
	}

	if fieldSep == "t" {
		fieldSep = "\t"
	}

	// Remaining args are program and input files
	args := os.Args[i:]

	var program string
	var inputFiles []string

	if len(progFiles) > 0 {
		var sb strings.Builder
		for _, f := range progFiles {
			content, err := readProgram(f)
			if err != nil {
				errorExitf("can't open file %s: %v", f, err)
			}
			sb.Write(content)
			sb.WriteByte('\n')
		}
		program = sb.String()
		inputFiles = args
	} else if len(args) > 0 {
		program = args[0]
		inputFiles = args[1:]
	} else {
		fmt.Fprintln(os.Stderr, shortUsage)
		os.Exit(fatalStatus)
	}

	prog, err := nawk.Compile(program)
	if err != nil {
		errorExit(err)
	}

	if debug {
		if err := prog.Dump(os.Stderr); err != nil {
			errorExit(err)
		}
	}

	// A terminal sees each line as it is printed; anything else gets a
	// buffered writer flushed at exit.
	var output io.Writer = os.Stdout
	var buffered *bufio.Writer
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		buffered = bufio.NewWriterSize(os.Stdout, 64*1024)
		output = buffered
	}

	config := &nawk.Config{
		FS:         fieldSep,
		Output:     output,
		Stderr:     os.Stderr,
		Debug:      debug,
		POSIXRegex: posixRegex,
		Args:       append([]string{"nawk"}, inputFiles...),
	}

	if len(vars) > 0 {
		config.Variables = make(map[string]string)
		for _, v := range vars {
			name, value, ok := strings.Cut(v, "=")
			if !ok {
				errorExitf("invalid -v argument: %s (expected var=value)", v)
			}
			config.Variables[name] = lexer.Unescape(value)
		}
	}

	_, err = prog.Run(os.Stdin, config)
	if buffered != nil {
		if ferr := buffered.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	if err != nil {
		if code, ok := nawk.IsExitError(err); ok {
			os.Exit(code)
		}
		errorExit(err)
	}
}

// readProgram reads a -f argument; "-" is the standard input.
func readProgram(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// errorExitf prints a formatted error message and exits with status 2.
func errorExitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nawk: "+format+"\n", args...)
	os.Exit(fatalStatus)
}

// errorExit prints err and exits with status 2.
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "nawk: %v\n", err)
	os.Exit(fatalStatus)
}
