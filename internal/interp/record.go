package interp

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kolkov/nawk/internal/lexer"
	"github.com/kolkov/nawk/internal/types"
)

func newField(i int) *types.Cell {
	return &types.Cell{
		Kind:  types.KindField,
		Name:  strconv.Itoa(i),
		Flags: types.FLD | types.STR | types.DONTFREE,
		Index: i,
	}
}

func (in *Interp) fldinit() {
	rec := &types.Cell{Kind: types.KindRecord, Name: "0", Flags: types.REC | types.STR | types.DONTFREE}
	in.fldtab = []*types.Cell{rec}
	for i := 1; i <= maxFld; i++ {
		in.fldtab = append(in.fldtab, newField(i))
	}
	in.nfields = maxFld
	in.record = make([]byte, 0, recSize)
	in.donefld = true
	in.donerec = true
	in.argIndex = 1
	in.recFS = " "
}

// nextFile opens the next input named in ARGV, applying var=value
// arguments on the way. With no file arguments the standard input is read
// once.
func (in *Interp) nextFile() bool {
	for in.argIndex < int(in.getNum(in.argc)) {
		i := in.argIndex
		in.argIndex++
		c := in.argv.Arr.Lookup(strconv.Itoa(i))
		if c == nil {
			continue
		}
		arg := in.getStr(c)
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok && isName(name) {
			if err := in.SetVar(name, lexer.Unescape(value)); err != nil {
				in.fatalf("%v", err)
			}
			continue
		}
		in.usedArgs = true
		in.setStr(in.filename, arg)
		if arg == "-" || arg == "/dev/stdin" {
			in.input = bufio.NewReaderSize(in.stdin, recSize)
		} else {
			f, err := os.Open(arg)
			if err != nil {
				in.fatalf("can't open file %s", arg)
			}
			in.inputFile = f
			in.input = bufio.NewReaderSize(f, recSize)
		}
		in.setNum(in.fnr, 0)
		return true
	}
	if in.usedArgs {
		return false
	}
	in.usedArgs = true
	in.input = bufio.NewReaderSize(in.stdin, recSize)
	return true
}

func (in *Interp) closeInput() {
	if in.inputFile != nil {
		if err := in.inputFile.Close(); err != nil {
			in.warnf("close %s: %v", in.inputFile.Name(), err)
		}
		in.inputFile = nil
	}
	in.input = nil
}

// getRecord reads the next record into $0. At end of input it returns
// false and leaves $0 alone.
func (in *Interp) getRecord() bool {
	for {
		if in.input == nil && !in.nextFile() {
			return false
		}
		if in.readRecord() {
			in.setRecord(in.record)
			in.recFS = in.getStr(in.fs)
			in.setNum(in.nr, in.getNum(in.nr)+1)
			in.setNum(in.fnr, in.getNum(in.fnr)+1)
			if in.debug {
				in.logger.Debug("record", "nr", in.nr.Fval, "file", in.filename.Sval, "text", in.fldtab[0].Sval)
			}
			return true
		}
		in.closeInput()
	}
}

// setRecord makes text the value of $0 with the fields stale.
func (in *Interp) setRecord(text []byte) {
	rec := in.fldtab[0]
	rec.Free()
	rec.Sval = string(text)
	rec.Conv = ""
	rec.Flags = types.REC | types.STR | types.DONTFREE
	if types.IsNumber(rec.Sval) {
		rec.Fval = types.Atof(rec.Sval)
		rec.Flags |= types.NUM
	}
	in.donefld = false
	in.donerec = true
}

// readRecord reads up to the next RS into in.record one byte at a time.
func (in *Interp) readRecord() bool {
	rs := in.getStr(in.rs)
	if rs == "" {
		return in.readParagraph()
	}
	sep := rs[0]
	buf := in.record[:0]
	got := false
	for {
		c, err := in.input.ReadByte()
		if err != nil {
			in.readError(err)
			break
		}
		got = true
		if c == sep {
			break
		}
		buf = adjbuf(buf, len(buf)+1, recSize)
		buf = append(buf, c)
	}
	in.record = buf
	return got
}

// readParagraph reads a record in paragraph mode: leading newlines are
// skipped and a blank line ends the record.
func (in *Interp) readParagraph() bool {
	for {
		c, err := in.input.ReadByte()
		if err != nil {
			in.readError(err)
			return false
		}
		if c != '\n' {
			in.input.UnreadByte()
			break
		}
	}
	buf := in.record[:0]
	for {
		c, err := in.input.ReadByte()
		if err != nil {
			in.readError(err)
			break
		}
		if c == '\n' {
			c, err = in.input.ReadByte()
			if err != nil {
				in.readError(err)
				break
			}
			if c == '\n' {
				in.skipNewlines()
				break
			}
			in.input.UnreadByte()
			c = '\n'
		}
		buf = adjbuf(buf, len(buf)+1, recSize)
		buf = append(buf, c)
	}
	in.record = buf
	return true
}

func (in *Interp) skipNewlines() {
	for {
		c, err := in.input.ReadByte()
		if err != nil {
			in.readError(err)
			return
		}
		if c != '\n' {
			in.input.UnreadByte()
			return
		}
	}
}

func (in *Interp) readError(err error) {
	if err != io.EOF {
		in.fatalf("read error on %s: %v", in.inputName(), err)
	}
}

func (in *Interp) inputName() string {
	if in.filename.Sval != "" {
		return in.filename.Sval
	}
	return "standard input"
}

// fldbld splits $0 into fields using the FS in effect when the record
// was read or assigned.
func (in *Interp) fldbld() {
	rec := in.fldtab[0]
	in.donefld = true
	r := in.getStr(rec)
	paragraph := in.rs.IsStr() && in.rs.Sval == ""
	in.fields = in.splitFields(in.fields[:0], r, in.recFS, paragraph)

	n := len(in.fields)
	in.growFields(n)
	for i, s := range in.fields {
		c := in.fldtab[i+1]
		c.Free()
		c.Sval = s
		c.Conv = ""
		c.Flags = types.FLD | types.STR | types.DONTFREE
		if types.IsNumber(s) {
			c.Fval = types.Atof(s)
			c.Flags |= types.NUM
		}
	}
	in.purge(n+1, in.lastfld)
	in.lastfld = n
	in.setNFValue(n)
	if in.debug {
		in.logger.Debug("split", "nf", n, "fs", in.recFS)
	}
}

// splitFields appends the fields of s to dst. FS " " splits on runs of
// blanks, tabs and newlines; "" splits into single bytes; any other single
// character is literal; longer values are regular expressions. In
// paragraph mode newline also separates fields.
func (in *Interp) splitFields(dst []string, s, fs string, paragraph bool) []string {
	switch {
	case s == "":
		return dst
	case fs == " ":
		return splitBlank(dst, s)
	case fs == "":
		for i := 0; i < len(s); i++ {
			dst = append(dst, s[i:i+1])
		}
		return dst
	case len(fs) == 1 && !paragraph:
		return append(dst, strings.Split(s, fs)...)
	case len(fs) == 1:
		start := 0
		for i := 0; i < len(s); i++ {
			if s[i] == fs[0] || s[i] == '\n' {
				dst = append(dst, s[start:i])
				start = i + 1
			}
		}
		return append(dst, s[start:])
	}
	pattern := fs
	if paragraph {
		pattern = "(" + fs + ")|\n"
	}
	re, err := in.regexes.Get(pattern)
	if err != nil {
		in.fatalf("syntax error in field separator %s: %v", fs, err)
	}
	return append(dst, re.Split(s, -1)...)
}

func splitBlank(dst []string, s string) []string {
	i := 0
	for {
		for i < len(s) && isBlank(s[i]) {
			i++
		}
		if i >= len(s) {
			return dst
		}
		start := i
		for i < len(s) && !isBlank(s[i]) {
			i++
		}
		dst = append(dst, s[start:i])
	}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// recbld joins $1..$NF with OFS into $0.
func (in *Interp) recbld() {
	in.donerec = true
	ofs := in.getStr(in.ofs)
	r := in.record[:0]
	for i := 1; i <= in.lastfld; i++ {
		s := in.getStr(in.fldtab[i])
		r = adjbuf(r, len(r)+len(s)+len(ofs), recSize)
		r = append(r, s...)
		if i < in.lastfld {
			r = append(r, ofs...)
		}
	}
	in.record = r
	rec := in.fldtab[0]
	rec.Free()
	rec.Sval = string(r)
	rec.Conv = ""
	rec.Flags = types.REC | types.STR | types.DONTFREE
	if in.debug {
		in.logger.Debug("rebuild", "nf", in.lastfld, "text", rec.Sval)
	}
}

// fieldGet returns the cell for $n, growing the field table if needed.
// NF is not changed.
func (in *Interp) fieldGet(n int) *types.Cell {
	if n < 0 {
		in.fatalf("trying to access out of range field %d", n)
	}
	in.growFields(n)
	return in.fldtab[n]
}

// fieldAdd extends the record to n fields; the new ones are empty.
func (in *Interp) fieldAdd(n int) {
	in.growFields(n)
	in.purge(in.lastfld+1, n)
	in.lastfld = n
	in.setNFValue(n)
}

// setNF truncates or extends the field set to n and marks $0 stale.
func (in *Interp) setNF(f float64) {
	n := int(f)
	if n < 0 {
		in.fatalf("cannot set NF to a negative value")
	}
	if !in.donefld {
		in.fldbld()
	}
	in.growFields(n)
	if n > in.lastfld {
		in.purge(in.lastfld+1, n)
	} else {
		in.purge(n+1, in.lastfld)
	}
	in.lastfld = n
	in.donerec = false
}

func (in *Interp) setNFValue(n int) {
	in.nf.Free()
	in.nf.Fval = float64(n)
	in.nf.Flags = in.nf.Flags&^(types.STR|types.DONTFREE) | types.NUM
}

func (in *Interp) growFields(n int) {
	if n <= in.nfields {
		return
	}
	size := 2 * in.nfields
	if size < n {
		size = n
	}
	for i := in.nfields + 1; i <= size; i++ {
		in.fldtab = append(in.fldtab, newField(i))
	}
	in.nfields = size
}

// purge empties fields from..to.
func (in *Interp) purge(from, to int) {
	if to > in.nfields {
		to = in.nfields
	}
	for i := from; i <= to; i++ {
		c := in.fldtab[i]
		c.Free()
		c.Sval = ""
		c.Conv = ""
		c.Flags = types.FLD | types.STR | types.DONTFREE
	}
}
