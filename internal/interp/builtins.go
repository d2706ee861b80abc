package interp

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/runtime"
	"github.com/kolkov/nawk/internal/token"
	"github.com/kolkov/nawk/internal/types"
)

func (in *Interp) numArg(a *node.Node) float64 {
	x := in.execute(a)
	f := in.getNum(x)
	in.tempfree(x)
	return f
}

func (in *Interp) strArg(a *node.Node) string {
	x := in.execute(a)
	s := in.getStr(x)
	in.tempfree(x)
	return s
}

// builtin calls the builtin function named by n.Aux.
func (in *Interp) builtin(n *node.Node) *types.Cell {
	args := n.Args[0]
	switch fn := token.Token(n.Aux); fn {
	case token.F_LENGTH:
		if args == nil {
			return in.numTemp(float64(len(in.getStr(in.fldtab[0]))))
		}
		x := in.execute(args)
		var l int
		if x.IsArray() {
			l = x.Arr.Len()
		} else {
			l = len(in.getStr(x))
		}
		in.tempfree(x)
		return in.numTemp(float64(l))

	case token.F_SUBSTR:
		return in.strTemp(in.substr(args))

	case token.F_INDEX:
		s := in.strArg(args)
		t := in.strArg(args.Next)
		v := 0
		if s != "" {
			v = strings.Index(s, t) + 1
		}
		return in.numTemp(float64(v))

	case token.F_SPLIT:
		return in.numTemp(float64(in.split(args)))

	case token.F_SPRINTF:
		f := in.strArg(args)
		return in.strTemp(string(in.format(f, args.Next)))

	case token.F_SUB, token.F_GSUB:
		return in.numTemp(float64(in.sub(args, fn == token.F_GSUB)))

	case token.F_MATCH:
		s := in.strArg(args)
		loc := in.regexFor(args.Next).FindStringIndex(s)
		start, length := 0, -1
		if loc != nil {
			start, length = loc[0]+1, loc[1]-loc[0]
		}
		in.setNum(in.rstart, float64(start))
		in.setNum(in.rlength, float64(length))
		return in.numTemp(float64(start))

	case token.F_TOLOWER:
		return in.strTemp(in.toLower(in.strArg(args)))
	case token.F_TOUPPER:
		return in.strTemp(in.toUpper(in.strArg(args)))

	case token.F_INT:
		return in.numTemp(math.Trunc(in.numArg(args)))
	case token.F_SQRT:
		return in.numTemp(math.Sqrt(in.numArg(args)))
	case token.F_EXP:
		return in.numTemp(math.Exp(in.numArg(args)))
	case token.F_LOG:
		return in.numTemp(math.Log(in.numArg(args)))
	case token.F_SIN:
		return in.numTemp(math.Sin(in.numArg(args)))
	case token.F_COS:
		return in.numTemp(math.Cos(in.numArg(args)))
	case token.F_ATAN2:
		y := in.numArg(args)
		x := in.numArg(args.Next)
		return in.numTemp(math.Atan2(y, x))

	case token.F_RAND:
		return in.numTemp(in.rand.Float64())
	case token.F_SRAND:
		seed := float64(time.Now().Unix())
		if args != nil {
			seed = in.numArg(args)
		}
		prev := in.seed
		in.seed = seed
		in.rand.Seed(int64(seed))
		return in.numTemp(prev)

	case token.F_SYSTEM:
		return in.numTemp(float64(in.streams.System(in.strArg(args))))
	case token.F_CLOSE:
		return in.numTemp(float64(in.streams.Close(in.strArg(args))))
	case token.F_FFLUSH:
		name := ""
		if args != nil {
			name = in.strArg(args)
		}
		return in.numTemp(float64(in.streams.Flush(name)))
	}
	in.fatalf("illegal function type %d", n.Aux)
	return nil
}

// substr returns the substring of s starting at byte m (1-based) of
// length n, both clamped to the string.
func (in *Interp) substr(args *node.Node) string {
	s := in.strArg(args)
	mf := in.numArg(args.Next)
	nf := math.Inf(1)
	if args.Next.Next != nil {
		nf = in.numArg(args.Next.Next)
	}
	k := len(s) + 1
	if k <= 1 {
		return ""
	}
	m := 1
	switch {
	case mf <= 0 || math.IsNaN(mf):
	case mf > float64(k):
		m = k
	default:
		m = int(mf)
	}
	n := 0
	switch {
	case nf < 0 || math.IsNaN(nf):
	case nf > float64(k-m):
		n = k - m
	default:
		n = int(nf)
	}
	return s[m-1 : m-1+n]
}

// split fills the array with the pieces of a string and returns their
// number. A /re/ separator always splits as a regex; a string separator
// follows the FS rules.
func (in *Interp) split(args *node.Node) int {
	s := in.strArg(args)
	ap := in.execute(args.Next)
	in.toArray(ap)
	in.checkSymtab(ap, "split into")

	var parts []string
	switch sep := args.Next.Next; {
	case sep != nil && sep.Op == node.Regex && !sep.IsValue():
		re := in.regexFor(sep)
		if s != "" {
			parts = splitRegex(re, s)
		}
	case sep != nil:
		parts = in.splitFields(nil, s, in.strArg(sep), false)
	default:
		parts = in.splitFields(nil, s, in.getStr(in.fs), false)
	}

	ap.Arr.Clear()
	for i, p := range parts {
		insertStrnum(ap.Arr, strconv.Itoa(i+1), p)
	}
	in.tempfree(ap)
	return len(parts)
}

func splitRegex(re *runtime.Regex, s string) []string {
	if re.Pattern() == "" {
		parts := make([]string, len(s))
		for i := range s {
			parts[i] = s[i : i+1]
		}
		return parts
	}
	return re.Split(s, -1)
}

// sub replaces the first match, or every match when global is set, in
// the target (default $0) and returns the number of replacements.
func (in *Interp) sub(args *node.Node, global bool) int {
	re := in.regexFor(args)
	repl := in.strArg(args.Next)
	var target *types.Cell
	if t := args.Next.Next; t != nil {
		target = in.execute(t)
	} else {
		target = in.fldtab[0]
	}
	s := in.getStr(target)

	limit := 1
	if global {
		limit = -1
	}
	locs := re.FindAllStringIndex(s, limit)
	if len(locs) > 0 {
		var b strings.Builder
		last := 0
		for _, loc := range locs {
			b.WriteString(s[last:loc[0]])
			expandRepl(&b, repl, s[loc[0]:loc[1]])
			last = loc[1]
		}
		b.WriteString(s[last:])
		in.setStr(target, b.String())
	}
	in.tempfree(target)
	return len(locs)
}

// expandRepl writes a sub/gsub replacement: & is the matched text, \& a
// literal ampersand and \\ a backslash.
func expandRepl(b *strings.Builder, repl, matched string) {
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c == '\\' && i+1 < len(repl) && (repl[i+1] == '&' || repl[i+1] == '\\') {
			i++
			b.WriteByte(repl[i])
			continue
		}
		if c == '&' {
			b.WriteString(matched)
			continue
		}
		b.WriteByte(c)
	}
}

// toLower lowercases ASCII with byte arithmetic and hands anything else to
// the Unicode case mapper. Invalid UTF-8 only has its ASCII letters mapped.
func (in *Interp) toLower(s string) string {
	if !isASCII(s) && utf8.ValidString(s) {
		return in.lower.String(s)
	}
	return mapASCII(s, 'A', 'Z', 'a'-'A')
}

func (in *Interp) toUpper(s string) string {
	if !isASCII(s) && utf8.ValidString(s) {
		return in.upper.String(s)
	}
	return mapASCII(s, 'a', 'z', -('a' - 'A'))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// mapASCII shifts bytes in lo..hi by delta, copying only when one changes.
func mapASCII(s string, lo, hi byte, delta int) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= lo && s[i] <= hi {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= lo && b[j] <= hi {
					b[j] = byte(int(b[j]) + delta)
				}
			}
			return string(b)
		}
	}
	return s
}
