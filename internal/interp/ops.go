package interp

import (
	"math"

	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/runtime"
	"github.com/kolkov/nawk/internal/types"
)

// program runs BEGIN, the main record loop and END. exit anywhere before
// END skips to END; exit inside END stops.
func (in *Interp) program(n *node.Node) *types.Cell {
	begin, rules, end := n.Args[0], n.Args[1], n.Args[2]
	if begin != nil {
		x := in.runChain(begin)
		if x.IsJump() {
			return in.runEnd(end)
		}
		in.tempfree(x)
	}
	if rules != nil || end != nil {
		for in.getRecord() {
			x := in.runChain(rules)
			if x == in.jexit {
				break
			}
			in.tempfree(x)
		}
	}
	return in.runEnd(end)
}

func (in *Interp) runEnd(end *node.Node) *types.Cell {
	if end != nil {
		x := in.runChain(end)
		in.tempfree(x)
	}
	return in.True
}

// pastat runs the action when there is no pattern or the pattern is true.
func (in *Interp) pastat(n *node.Node) *types.Cell {
	if n.Args[0] != nil {
		x := in.execute(n.Args[0])
		if !isTrue(x) {
			return x
		}
		in.tempfree(x)
	}
	return in.execute(n.Args[1])
}

// pastat2 runs a range rule. The range turns on when the first pattern
// matches and off after the record where the second one matches.
func (in *Interp) pastat2(n *node.Node) *types.Cell {
	slot := n.Aux
	if !in.ranges[slot] {
		x := in.execute(n.Args[0])
		in.ranges[slot] = isTrue(x)
		in.tempfree(x)
	}
	if !in.ranges[slot] {
		return in.False
	}
	x := in.execute(n.Args[1])
	if isTrue(x) {
		in.ranges[slot] = false
	}
	in.tempfree(x)
	return in.execute(n.Args[2])
}

func (in *Interp) ifstat(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	ok := isTrue(x)
	in.tempfree(x)
	switch {
	case ok:
		return in.execute(n.Args[1])
	case n.Args[2] != nil:
		return in.execute(n.Args[2])
	}
	return in.True
}

func (in *Interp) condexpr(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	ok := isTrue(x)
	in.tempfree(x)
	if ok {
		return in.execute(n.Args[1])
	}
	return in.execute(n.Args[2])
}

// loopExit decides what a loop does with the result of its body. It
// returns the cell the loop should return, or nil to keep going.
func (in *Interp) loopExit(x *types.Cell) *types.Cell {
	switch x.Kind {
	case types.KindBreak:
		return in.True
	case types.KindNext, types.KindExit, types.KindReturn:
		return x
	}
	in.tempfree(x)
	return nil
}

func (in *Interp) whilestat(n *node.Node) *types.Cell {
	for {
		x := in.execute(n.Args[0])
		if !isTrue(x) {
			return x
		}
		in.tempfree(x)
		if r := in.loopExit(in.execute(n.Args[1])); r != nil {
			return r
		}
	}
}

func (in *Interp) dostat(n *node.Node) *types.Cell {
	for {
		if r := in.loopExit(in.execute(n.Args[0])); r != nil {
			return r
		}
		x := in.execute(n.Args[1])
		if !isTrue(x) {
			return x
		}
		in.tempfree(x)
	}
}

func (in *Interp) forstat(n *node.Node) *types.Cell {
	in.tempfree(in.execute(n.Args[0]))
	for {
		if n.Args[1] != nil {
			x := in.execute(n.Args[1])
			if !isTrue(x) {
				return x
			}
			in.tempfree(x)
		}
		if r := in.loopExit(in.execute(n.Args[3])); r != nil {
			return r
		}
		in.tempfree(in.execute(n.Args[2]))
	}
}

// jump returns the jump cell for exit, next, break, continue or return,
// evaluating the exit status or return value first.
func (in *Interp) jump(n *node.Node) *types.Cell {
	switch n.Op {
	case node.Exit:
		if n.Args[0] != nil {
			y := in.execute(n.Args[0])
			in.exitCode = int(in.getNum(y))
			in.tempfree(y)
		}
		return in.jexit
	case node.Next:
		return in.jnext
	case node.Break:
		return in.jbrk
	case node.Continue:
		return in.jcont
	case node.Return:
		if n.Args[0] != nil {
			y := in.execute(n.Args[0])
			in.copyValue(in.frame().retval, y)
			in.tempfree(y)
		}
		return in.jret
	}
	in.fatalf("illegal jump type %s", n.Op)
	return nil
}

func (in *Interp) boolop(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	i := isTrue(x)
	in.tempfree(x)
	switch n.Op {
	case node.And:
		if !i {
			return in.False
		}
	case node.Or:
		if i {
			return in.True
		}
	case node.Not:
		return in.boolCell(!i)
	}
	y := in.execute(n.Args[1])
	j := isTrue(y)
	in.tempfree(y)
	return in.boolCell(j)
}

// relop compares numerically when both sides hold numbers and byte-wise
// by string value otherwise.
func (in *Interp) relop(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	y := in.execute(n.Args[1])
	var i int
	if x.IsNum() && y.IsNum() {
		switch j := x.Fval - y.Fval; {
		case j < 0:
			i = -1
		case j > 0:
			i = 1
		}
	} else {
		s, t := in.getStr(x), in.getStr(y)
		switch {
		case s < t:
			i = -1
		case s > t:
			i = 1
		}
	}
	in.tempfree(x)
	in.tempfree(y)
	switch n.Op {
	case node.Lt:
		return in.boolCell(i < 0)
	case node.Le:
		return in.boolCell(i <= 0)
	case node.Ne:
		return in.boolCell(i != 0)
	case node.Eq:
		return in.boolCell(i == 0)
	case node.Ge:
		return in.boolCell(i >= 0)
	}
	return in.boolCell(i > 0)
}

// regexFor returns the matcher for a regex operand: a /re/ literal is
// compiled once, anything else is evaluated and its string used as a
// dynamic pattern.
func (in *Interp) regexFor(n *node.Node) *runtime.Regex {
	if n.Op == node.Regex && !n.IsValue() {
		c := n.Args[0].Cell
		re, ok := in.static[c]
		if !ok {
			var err error
			if re, err = runtime.Compile(c.Sval, in.regexes.POSIX()); err != nil {
				in.fatalf("syntax error in regular expression %s: %v", c.Sval, err)
			}
			in.static[c] = re
		}
		return re
	}
	x := in.execute(n)
	pattern := in.getStr(x)
	in.tempfree(x)
	re, err := in.regexes.Get(pattern)
	if err != nil {
		in.fatalf("syntax error in regular expression %s: %v", pattern, err)
	}
	return re
}

func (in *Interp) matchop(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	s := in.getStr(x)
	in.tempfree(x)
	ok := in.regexFor(n.Args[1]).MatchString(s)
	if n.Op == node.NotMatch {
		ok = !ok
	}
	return in.boolCell(ok)
}

// regexop matches a bare /re/ against $0.
func (in *Interp) regexop(n *node.Node) *types.Cell {
	return in.boolCell(in.regexFor(n).MatchString(in.getStr(in.fldtab[0])))
}

func (in *Interp) concat(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	s := in.getStr(x)
	y := in.execute(n.Args[1])
	t := in.getStr(y)
	in.tempfree(x)
	in.tempfree(y)
	return in.strTemp(s + t)
}

func (in *Interp) arith(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	i := in.getNum(x)
	in.tempfree(x)
	var j float64
	if n.Op != node.UMinus && n.Op != node.UPlus {
		y := in.execute(n.Args[1])
		j = in.getNum(y)
		in.tempfree(y)
	}
	z := in.tempcell()
	switch n.Op {
	case node.Add:
		i += j
	case node.Sub:
		i -= j
	case node.Mul:
		i *= j
	case node.Div:
		if j == 0 {
			in.fatalf("division by zero")
		}
		i /= j
	case node.Mod:
		if j == 0 {
			in.fatalf("division by zero in mod")
		}
		i = math.Mod(i, j)
	case node.Pow:
		i = ipow(i, j)
	case node.UMinus:
		i = -i
	}
	in.setNum(z, i)
	return z
}

// ipow raises x to y, multiplying directly for small integral exponents.
func ipow(x, y float64) float64 {
	if y >= 0 && y == math.Trunc(y) && y <= 1024 {
		n := int(y)
		v := 1.0
		for ; n > 0; n >>= 1 {
			if n&1 == 1 {
				v *= x
			}
			x *= x
		}
		return v
	}
	return math.Pow(x, y)
}

func (in *Interp) incrdecr(n *node.Node) *types.Cell {
	k := 1.0
	if n.Op == node.PreDecr || n.Op == node.PostDecr {
		k = -1
	}
	x := in.execute(n.Args[0])
	xf := in.getNum(x)
	if n.Op == node.PreIncr || n.Op == node.PreDecr {
		in.setNum(x, xf+k)
		return x
	}
	z := in.numTemp(xf)
	in.setNum(x, xf+k)
	in.tempfree(x)
	return z
}

// assign handles = and the compound assignments. The right side is
// evaluated first.
func (in *Interp) assign(n *node.Node) *types.Cell {
	y := in.execute(n.Args[1])
	x := in.execute(n.Args[0])
	if n.Op == node.Assign {
		if x == y && !x.IsField() && !x.IsRecord() {
			return x
		}
		in.copyValue(x, y)
		in.tempfree(y)
		return x
	}
	xf := in.getNum(x)
	yf := in.getNum(y)
	switch n.Op {
	case node.AddEq:
		xf += yf
	case node.SubEq:
		xf -= yf
	case node.MulEq:
		xf *= yf
	case node.DivEq:
		if yf == 0 {
			in.fatalf("division by zero in /=")
		}
		xf /= yf
	case node.ModEq:
		if yf == 0 {
			in.fatalf("division by zero in %%=")
		}
		xf = math.Mod(xf, yf)
	case node.PowEq:
		xf = ipow(xf, yf)
	}
	in.tempfree(y)
	in.setNum(x, xf)
	return x
}

// copyValue assigns the value of y to x, carrying both representations
// when y has both. A string that only caches a number conversion is not
// carried.
func (in *Interp) copyValue(x, y *types.Cell) {
	switch {
	case y.IsNum() && (!y.IsStr() || y.Conv != ""):
		in.setNum(x, y.Fval)
	case y.Flags&(types.STR|types.NUM) == types.STR|types.NUM:
		in.setStr(x, in.getStr(y))
		x.Fval = in.getNum(y)
		x.Flags |= types.NUM
	case y.IsStr():
		in.setStr(x, in.getStr(y))
	default:
		in.funnyvar(y, "read value of")
		in.fatalf("incorrect assignment from %s", y.Name)
	}
}

// indirect evaluates $expr.
func (in *Interp) indirect(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	val := in.getNum(x)
	if val > math.MaxInt32 {
		in.fatalf("trying to access out of range field %s", x.Name)
	}
	m := int(val)
	if m == 0 {
		if s := in.getStr(x); !types.IsNumber(s) {
			in.fatalf("illegal field $(%s), name \"%s\"", s, x.Name)
		}
	}
	in.tempfree(x)
	return in.fieldGet(m)
}
