// Package interp is the tree-walking AWK interpreter.
//
// An Interp owns every piece of mutable run state: the symbol table the
// parser binds names into, the record and field buffers, the temporary
// cell pool and the output streams. Fatal errors unwind by panicking with
// *Error and are recovered in Run.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/runtime"
	"github.com/kolkov/nawk/internal/types"
)

const (
	recSize       = 8192 // initial record buffer and growth quantum
	maxFld        = 2    // initial number of field cells after $0
	regexCacheMax = 100  // dynamic regexes kept compiled
)

// Config configures an Interp.
type Config struct {
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives warnings, and record traces when Debug is set.
	// Nil means a text handler on Stderr.
	Logger *slog.Logger
	Debug  bool

	// POSIXRegex selects leftmost-longest matching.
	POSIXRegex bool

	// Args becomes ARGV. Args[1:] are read as input files after BEGIN;
	// with none, the reader given to Run is used.
	Args []string

	// Environ becomes ENVIRON, as KEY=value pairs. Nil means os.Environ.
	Environ []string
}

// Error is a fatal runtime error.
type Error struct {
	Message string
	Line    int // source line, 0 if unknown
	Record  int // NR when the error happened
	File    string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Record > 0 {
		fmt.Fprintf(&b, "\n input record number %d", e.Record)
		if e.File != "" {
			fmt.Fprintf(&b, ", file %s", e.File)
		}
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "\n source line number %d", e.Line)
	}
	return b.String()
}

// Interp executes one parsed program.
type Interp struct {
	tab  *types.Table
	tree *node.Tree

	// special variables
	nf, nr, fnr        *types.Cell
	fs, rs, ofs, ors   *types.Cell
	subsep             *types.Cell
	convfmt, ofmt      *types.Cell
	rstart, rlength    *types.Cell
	filename           *types.Cell
	argc, argv, symtab *types.Cell

	// record state
	stdin     io.Reader
	input     *bufio.Reader
	inputFile *os.File
	argIndex  int
	usedArgs  bool
	record    []byte
	fields    []string
	recFS     string // FS when $0 was last read or assigned
	fldtab    []*types.Cell
	nfields   int
	lastfld   int
	donefld   bool
	donerec   bool

	tmps                      *types.Cell
	True, False               *types.Cell
	jexit, jnext, jbrk, jcont *types.Cell
	jret                      *types.Cell
	frames                    []*frame
	ranges                    []bool
	static                    map[*types.Cell]*runtime.Regex
	regexes                   *runtime.RegexCache
	streams                   *runtime.Streams
	logger                    *slog.Logger
	debug                     bool
	line                      int
	exitCode                  int
	rand                      *rand.Rand
	seed                      float64
	lower, upper              cases.Caser
}

// New returns an interpreter with the special variables already entered
// in its symbol table. Parse the program into Table() before calling Run.
func New(cfg Config) *Interp {
	if cfg.Stdout == nil {
		cfg.Stdout = io.Discard
	}
	in := &Interp{
		tab:     types.NewTable(types.NSYMTAB),
		static:  make(map[*types.Cell]*runtime.Regex),
		regexes: runtime.NewRegexCache(regexCacheMax, cfg.POSIXRegex),
		streams: runtime.NewStreams(cfg.Stdout, cfg.Stderr),
		logger:  cfg.Logger,
		debug:   cfg.Debug,
		rand:    rand.New(rand.NewSource(1)),
		seed:    1,
		lower:   cases.Lower(language.Und),
		upper:   cases.Upper(language.Und),
	}
	if in.logger == nil {
		in.logger = newLogger(cfg.Stderr, cfg.Debug)
	}

	in.True = &types.Cell{Kind: types.KindTrue, Flags: types.NUM, Fval: 1}
	in.False = &types.Cell{Kind: types.KindFalse, Flags: types.NUM}
	in.jexit = &types.Cell{Kind: types.KindExit, Flags: types.NUM}
	in.jnext = &types.Cell{Kind: types.KindNext, Flags: types.NUM}
	in.jbrk = &types.Cell{Kind: types.KindBreak, Flags: types.NUM}
	in.jcont = &types.Cell{Kind: types.KindContinue, Flags: types.NUM}
	in.jret = &types.Cell{Kind: types.KindReturn, Flags: types.NUM}

	in.syminit()
	in.fldinit()
	in.arginit(cfg.Args)
	in.envinit(cfg.Environ)
	return in
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func (in *Interp) syminit() {
	const sd = types.STR | types.DONTFREE
	in.tab.Insert("0", "0", 0, types.NUM|types.STR|types.CON|types.DONTFREE).Kind = types.KindConst
	in.tab.Insert("$zero&null", "", 0, types.NUM|types.STR|types.CON|types.DONTFREE).Kind = types.KindConst

	in.fs = in.tab.Insert("FS", " ", 0, sd)
	in.rs = in.tab.Insert("RS", "\n", 0, sd)
	in.ofs = in.tab.Insert("OFS", " ", 0, sd)
	in.ors = in.tab.Insert("ORS", "\n", 0, sd)
	in.ofmt = in.tab.Insert("OFMT", "%.6g", 0, sd)
	in.convfmt = in.tab.Insert("CONVFMT", "%.6g", 0, sd)
	in.subsep = in.tab.Insert("SUBSEP", "\034", 0, sd)
	in.filename = in.tab.Insert("FILENAME", "", 0, sd)
	in.nf = in.tab.Insert("NF", "", 0, types.NUM)
	in.nr = in.tab.Insert("NR", "", 0, types.NUM)
	in.fnr = in.tab.Insert("FNR", "", 0, types.NUM)
	in.rstart = in.tab.Insert("RSTART", "", 0, types.NUM)
	in.rlength = in.tab.Insert("RLENGTH", "", 0, types.NUM)

	in.symtab = in.tab.Insert("SYMTAB", "", 0, types.ARR)
	in.symtab.Kind = types.KindArray
	in.symtab.Arr = in.tab
}

func (in *Interp) arginit(args []string) {
	if len(args) == 0 {
		args = []string{"nawk"}
	}
	in.argc = in.tab.Insert("ARGC", "", float64(len(args)), types.NUM)
	in.argv = in.tab.Insert("ARGV", "", 0, types.ARR)
	in.argv.MakeArray(types.NSYMTAB)
	in.argv.Kind = types.KindArray
	for i, a := range args {
		insertStrnum(in.argv.Arr, strconv.Itoa(i), a)
	}
}

func (in *Interp) envinit(env []string) {
	if env == nil {
		env = os.Environ()
	}
	c := in.tab.Insert("ENVIRON", "", 0, types.ARR)
	c.MakeArray(types.NSYMTAB)
	c.Kind = types.KindArray
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		insertStrnum(c.Arr, k, v)
	}
}

// insertStrnum enters a value that came from outside the program: it is a
// string that is also a number when it looks like one.
func insertStrnum(t *types.Table, name, value string) *types.Cell {
	c := t.Insert(name, value, 0, types.STR)
	c.Sval = value
	c.Conv = ""
	c.Flags = types.STR
	if types.IsNumber(value) {
		c.Fval = types.Atof(value)
		c.Flags |= types.NUM
	}
	return c
}

// Table returns the symbol table a program must be parsed into.
func (in *Interp) Table() *types.Table {
	return in.tab
}

// SetVar assigns a command-line style value to the global name.
func (in *Interp) SetVar(name, value string) error {
	if !isName(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	c := in.tab.Insert(name, "", 0, types.NUM|types.STR|types.DONTFREE)
	switch {
	case c.IsArray():
		return fmt.Errorf("can't assign to %s; it's an array name", name)
	case c.IsFunc():
		return fmt.Errorf("can't assign to %s; it's a function", name)
	case c.Flags&types.CON != 0:
		return fmt.Errorf("can't assign to constant %s", name)
	}
	in.setStr(c, value)
	if types.IsNumber(value) {
		c.Fval = types.Atof(value)
		c.Flags |= types.NUM
	}
	return nil
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// CurrentLine returns the source line of the statement being executed.
func (in *Interp) CurrentLine() int {
	return in.line
}

// CurrentRecord returns NR.
func (in *Interp) CurrentRecord() int {
	return int(in.nr.Fval)
}

// Run executes tree, reading records from stdin unless ARGV names files.
// It returns the exit status set by exit. Run must be called only once.
func (in *Interp) Run(tree *node.Tree, stdin io.Reader) (code int, err error) {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	in.tree = tree
	in.stdin = stdin
	in.ranges = make([]bool, tree.Ranges)

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			in.closeInput()
			in.streams.CloseAll()
			code, err = 2, e
		}
	}()

	in.compileStatic()
	x := in.execute(tree.Root)
	in.tempfree(x)
	in.closeInput()
	for _, err := range in.streams.CloseAll() {
		in.warnf("%v", err)
	}
	return in.exitCode, nil
}

func (in *Interp) fatalf(format string, args ...any) {
	panic(&Error{
		Message: fmt.Sprintf(format, args...),
		Line:    in.CurrentLine(),
		Record:  in.CurrentRecord(),
		File:    in.filename.Sval,
	})
}

func (in *Interp) warnf(format string, args ...any) {
	in.logger.Warn(fmt.Sprintf(format, args...), "line", in.CurrentLine(), "record", in.CurrentRecord())
}

// compileStatic compiles every /re/ literal in the program up front so a
// bad pattern fails before BEGIN runs.
func (in *Interp) compileStatic() {
	visit := func(n *node.Node) bool {
		if n.Op != node.Regex {
			return true
		}
		c := n.Args[0].Cell
		if _, ok := in.static[c]; ok {
			return false
		}
		in.line = n.Line
		re, err := runtime.Compile(c.Sval, in.regexes.POSIX())
		if err != nil {
			in.fatalf("syntax error in regular expression %s: %v", c.Sval, err)
		}
		in.static[c] = re
		return false
	}
	node.Walk(in.tree.Root, visit)
	for _, f := range in.tree.Funcs {
		node.Walk(f.Body, visit)
	}
	in.line = 0
}
