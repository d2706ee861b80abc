package interp

import (
	"math"

	"github.com/kolkov/nawk/internal/types"
)

// funnyvar reports a read or write of a cell with no valid value.
// Array and function names are fatal; anything else only warns.
func (in *Interp) funnyvar(c *types.Cell, rw string) {
	switch {
	case c.IsArray():
		in.fatalf("can't %s %s; it's an array name.", rw, c.Name)
	case c.IsFunc():
		in.fatalf("can't %s %s; it's a function.", rw, c.Name)
	}
	in.warnf("funny variable %s: n=%s s=%q f=%g t=%s", rw, c.Name, c.Sval, c.Fval, c.Flags)
}

// sync brings a field, $0 or NF up to date before it is read.
func (in *Interp) sync(c *types.Cell) {
	switch {
	case c.IsField() && !in.donefld:
		in.fldbld()
	case c.IsRecord() && !in.donerec:
		in.recbld()
	case c == in.nf && !in.donefld:
		in.fldbld()
	}
}

// getNum returns the numeric value of c. A string converts by its numeric
// prefix; the result is cached as valid only when the whole string is a
// number and c is not a constant.
func (in *Interp) getNum(c *types.Cell) float64 {
	if c.Flags&(types.NUM|types.STR) == 0 {
		in.funnyvar(c, "read value of")
	}
	in.sync(c)
	if !c.IsNum() {
		c.Fval = types.Atof(c.Sval)
		if types.IsNumber(c.Sval) && c.Flags&types.CON == 0 {
			c.Flags |= types.NUM
		}
	}
	return c.Fval
}

// getStr returns the string value of c, converting numbers with CONVFMT.
func (in *Interp) getStr(c *types.Cell) string {
	return in.getStrFmt(c, in.convfmt)
}

// getOutStr is getStr for output: numbers convert with OFMT.
func (in *Interp) getOutStr(c *types.Cell) string {
	return in.getStrFmt(c, in.ofmt)
}

func (in *Interp) getStrFmt(c *types.Cell, format *types.Cell) string {
	if c.Flags&(types.NUM|types.STR) == 0 {
		in.funnyvar(c, "read value of")
	}
	in.sync(c)
	f := formatOf(format)
	if !c.IsStr() || c.Conv != "" && c.Conv != f {
		c.Free()
		c.Sval = types.FormatNum(c.Fval, f)
		c.Conv = ""
		if c.Fval != math.Trunc(c.Fval) {
			c.Conv = f
		}
		c.Flags &^= types.DONTFREE
		c.Flags |= types.STR
	}
	return c.Sval
}

// formatOf returns the conversion format held by CONVFMT or OFMT.
func formatOf(c *types.Cell) string {
	if c.IsStr() {
		return c.Sval
	}
	return "%.6g"
}

// setNum assigns a number to c.
func (in *Interp) setNum(c *types.Cell, f float64) float64 {
	if c.Flags&(types.NUM|types.STR) == 0 {
		in.funnyvar(c, "assign to")
	}
	in.beforeWrite(c, f)
	c.Free()
	c.Flags &^= types.STR | types.DONTFREE
	c.Flags |= types.NUM
	c.Fval = f
	c.Conv = ""
	return f
}

// setStr assigns a copy of s to c.
func (in *Interp) setStr(c *types.Cell, s string) string {
	if c.Flags&(types.NUM|types.STR) == 0 {
		in.funnyvar(c, "assign to")
	}
	in.beforeWrite(c, types.Atof(s))
	c.Free()
	c.Flags &^= types.NUM | types.DONTFREE
	c.Flags |= types.STR
	c.Sval = s
	c.Conv = ""
	if c == in.nf {
		c.Fval = types.Atof(s)
		c.Flags |= types.NUM
	}
	return s
}

// beforeWrite keeps the record and fields consistent with a write to c.
// A field past NF extends the record, a field write makes $0 stale, a $0
// write makes the fields stale, and an NF write resizes the field set.
func (in *Interp) beforeWrite(c *types.Cell, f float64) {
	switch {
	case c.IsField():
		if !in.donefld {
			in.fldbld()
		}
		if c.Index > in.lastfld {
			in.fieldAdd(c.Index)
		}
		in.donerec = false
	case c.IsRecord():
		in.donefld = false
		in.donerec = true
		in.recFS = in.getStr(in.fs)
	case c == in.nf:
		in.setNF(f)
	}
}

// isTrue reports whether a boolean result is the True cell.
func isTrue(c *types.Cell) bool {
	return c.Kind == types.KindTrue
}
