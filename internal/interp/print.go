package interp

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/runtime"
	"github.com/kolkov/nawk/internal/token"
	"github.com/kolkov/nawk/internal/types"
)

// redirectModes maps the redirect token stored on print nodes.
var redirectModes = map[token.Token]runtime.Mode{
	token.ILLEGAL: runtime.Stdout,
	token.GREATER: runtime.Truncate,
	token.APPEND:  runtime.Append,
	token.PIPE:    runtime.Pipe,
}

// output resolves the destination of a print or printf node.
func (in *Interp) output(n *node.Node) (io.Writer, string) {
	mode := redirectModes[token.Token(n.Aux)]
	if mode == runtime.Stdout || n.Args[1] == nil {
		w, _ := in.streams.Resolve(runtime.Stdout, "")
		return w, "standard output"
	}
	x := in.execute(n.Args[1])
	name := in.getStr(x)
	in.tempfree(x)
	w, err := in.streams.Resolve(mode, name)
	if err != nil {
		in.fatalf("can't redirect to %s: %v", name, err)
	}
	return w, name
}

func (in *Interp) write(w io.Writer, name string, b []byte) {
	if _, err := w.Write(b); err != nil {
		in.fatalf("write error on %s: %v", name, err)
	}
}

// print joins its arguments with OFS and ends the line with ORS. Numbers
// convert with OFMT. With no arguments it prints $0.
func (in *Interp) print(n *node.Node) *types.Cell {
	w, name := in.output(n)
	var buf []byte
	if n.Args[0] == nil {
		buf = append(buf, in.getStr(in.fldtab[0])...)
	}
	for x := n.Args[0]; x != nil; x = x.Next {
		y := in.execute(x)
		buf = append(buf, in.getOutStr(y)...)
		in.tempfree(y)
		if x.Next != nil {
			buf = append(buf, in.getStr(in.ofs)...)
		}
	}
	buf = append(buf, in.getStr(in.ors)...)
	in.write(w, name, buf)
	return in.True
}

func (in *Interp) printf(n *node.Node) *types.Cell {
	w, name := in.output(n)
	x := in.execute(n.Args[0])
	f := in.getStr(x)
	in.tempfree(x)
	in.write(w, name, in.format(f, n.Args[0].Next))
	return in.True
}

// format expands the printf directives in s, taking values from the
// argument chain a. Arguments left over are still evaluated.
func (in *Interp) format(s string, a *node.Node) []byte {
	var buf []byte
	next := func() *types.Cell {
		if a == nil {
			in.fatalf("not enough args in printf(%s)", s)
		}
		x := in.execute(a)
		a = a.Next
		return x
	}

	for i := 0; i < len(s); {
		if s[i] != '%' {
			buf = append(buf, s[i])
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '%' {
			buf = append(buf, '%')
			i += 2
			continue
		}

		// Collect flags, width and precision up to the conversion letter.
		start := i
		directive := []byte{'%'}
		hasPrec := false
		for i++; i < len(s); i++ {
			c := s[i]
			if c == 'l' || c == 'h' || c == 'L' {
				continue
			}
			if isLetter(c) {
				break
			}
			switch c {
			case '*':
				x := next()
				directive = strconv.AppendInt(directive, int64(in.getNum(x)), 10)
				in.tempfree(x)
				continue
			case '.':
				hasPrec = true
			}
			directive = append(directive, c)
		}
		if i >= len(s) {
			// no conversion letter: the text stands as is
			buf = append(buf, s[start:]...)
			break
		}
		conv := s[i]
		i++

		switch conv {
		case 'f', 'e', 'g', 'E', 'G':
			if (conv == 'g' || conv == 'G') && !hasPrec {
				directive = append(directive, ".6"...)
			}
			x := next()
			buf = fmt.Appendf(buf, string(directive)+string(conv), in.getNum(x))
			in.tempfree(x)
		case 'd', 'i':
			x := next()
			buf = fmt.Appendf(buf, string(directive)+"d", toInt(in.getNum(x)))
			in.tempfree(x)
		case 'o', 'x', 'X', 'u':
			if conv == 'u' {
				conv = 'd'
			}
			x := next()
			buf = fmt.Appendf(buf, string(directive)+string(conv), uint64(toInt(in.getNum(x))))
			in.tempfree(x)
		case 's':
			x := next()
			buf = fmt.Appendf(buf, string(directive)+"s", in.getStr(x))
			in.tempfree(x)
		case 'c':
			x := next()
			if x.IsNum() {
				if c := int(in.getNum(x)); c != 0 {
					buf = fmt.Appendf(buf, string(directive)+"s", string([]byte{byte(c)}))
				} else {
					buf = append(buf, 0)
				}
			} else {
				t := in.getStr(x)
				if len(t) > 1 {
					t = t[:1]
				}
				buf = fmt.Appendf(buf, string(directive)+"s", t)
			}
			in.tempfree(x)
		default:
			in.fatalf("unknown printf conversion %s", s[start:i])
		}
	}

	for ; a != nil; a = a.Next {
		in.tempfree(in.execute(a))
	}
	return buf
}

// toInt converts f for the integer conversions, saturating out of range
// values.
func toInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= 9.223372036854775807e18:
		return 1<<63 - 1
	case f <= -9.223372036854775808e18:
		return -1 << 63
	}
	return int64(f)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
