package nawk

import (
	"io"
	"log/slog"
)

// Config holds configuration options for AWK execution.
type Config struct {
	// FS is the input field separator (default: " ").
	// When set to a single space, runs of blanks and newlines are treated
	// as separators. Any other single character separates by itself, and
	// anything longer is a regular expression. An empty FS means the
	// default; set Variables["FS"] to "" to split records into single
	// characters.
	FS string

	// RS is the input record separator (default: "\n").
	// Only its first character is used. An empty RS means the default;
	// set Variables["RS"] to "" for paragraph mode.
	RS string

	// OFS is the output field separator (default: " ").
	OFS string

	// ORS is the output record separator (default: "\n").
	ORS string

	// SUBSEP joins the parts of a multi-dimensional subscript
	// (default: "\034").
	SUBSEP string

	// CONVFMT converts numbers to strings (default: "%.6g").
	CONVFMT string

	// OFMT converts numbers for print (default: "%.6g").
	OFMT string

	// Variables contains pre-defined variables.
	// These are set before BEGIN block execution, after the separator
	// fields above, so they may also assign FS or RS an empty value.
	// Example: map[string]string{"threshold": "100", "prefix": "LOG:"}
	Variables map[string]string

	// Output is the writer for print/printf statements.
	// If nil, output is captured and returned from Run.
	Output io.Writer

	// Stderr receives warnings from the default logger.
	// If nil, warnings are discarded.
	Stderr io.Writer

	// Logger overrides the default warning logger.
	Logger *slog.Logger

	// Debug logs every record read at debug level.
	Debug bool

	// Args contains command-line arguments (ARGV).
	// Args[0] is typically the program name; the rest are input files
	// or var=value assignments, processed after BEGIN.
	Args []string

	// Environ becomes ENVIRON. If nil, the process environment is used.
	Environ []string

	// POSIXRegex enables POSIX leftmost-longest regex matching.
	// When true (default), uses AWK/POSIX ERE semantics.
	// When false, uses leftmost-first matching (faster, Perl-like).
	POSIXRegex *bool
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.FS == "" {
		c.FS = " "
	}
	if c.RS == "" {
		c.RS = "\n"
	}
	if c.OFS == "" {
		c.OFS = " "
	}
	if c.ORS == "" {
		c.ORS = "\n"
	}
	if c.SUBSEP == "" {
		c.SUBSEP = "\034"
	}
	if c.CONVFMT == "" {
		c.CONVFMT = "%.6g"
	}
	if c.OFMT == "" {
		c.OFMT = "%.6g"
	}
	if c.POSIXRegex == nil {
		posix := true
		c.POSIXRegex = &posix
	}
}
