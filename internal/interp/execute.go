package interp

import (
	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/types"
)

const tempBlock = 100 // temporaries allocated at a time

// execute evaluates the chain starting at a. An expression returns its
// value at once; a statement chain returns the value of its last element,
// or the first jump it produces. A nil chain is true.
func (in *Interp) execute(a *node.Node) *types.Cell {
	var x *types.Cell
	for ; a != nil; a = a.Next {
		if a.IsValue() {
			x = a.Cell
			in.sync(x)
			return x
		}
		if a.Line > 0 {
			in.line = a.Line
		}
		x = in.dispatch(a)
		in.sync(x)
		if a.IsExpr() || x.IsJump() || a.Next == nil {
			return x
		}
		in.tempfree(x)
	}
	return in.True
}

func (in *Interp) dispatch(n *node.Node) *types.Cell {
	switch n.Op {
	case node.Program:
		return in.program(n)
	case node.Pastat:
		return in.pastat(n)
	case node.Pastat2:
		return in.pastat2(n)
	case node.Print:
		return in.print(n)
	case node.Printf:
		return in.printf(n)
	case node.If:
		return in.ifstat(n)
	case node.While:
		return in.whilestat(n)
	case node.Do:
		return in.dostat(n)
	case node.For:
		return in.forstat(n)
	case node.ForIn:
		return in.forin(n)
	case node.Exit, node.Next, node.Break, node.Continue, node.Return:
		return in.jump(n)
	case node.Delete:
		return in.delstat(n)
	case node.Eval:
		return in.execute(n.Args[0])
	case node.CondExpr:
		return in.condexpr(n)
	case node.And, node.Or, node.Not:
		return in.boolop(n)
	case node.Eq, node.Ne, node.Lt, node.Le, node.Gt, node.Ge:
		return in.relop(n)
	case node.Match, node.NotMatch:
		return in.matchop(n)
	case node.Regex:
		return in.regexop(n)
	case node.In:
		return in.intest(n)
	case node.Concat:
		return in.concat(n)
	case node.Add, node.Sub, node.Mul, node.Div, node.Mod, node.Pow, node.UMinus, node.UPlus:
		return in.arith(n)
	case node.PreIncr, node.PreDecr, node.PostIncr, node.PostDecr:
		return in.incrdecr(n)
	case node.Assign, node.AddEq, node.SubEq, node.MulEq, node.DivEq, node.ModEq, node.PowEq:
		return in.assign(n)
	case node.Indirect:
		return in.indirect(n)
	case node.ArrayRef:
		return in.array(n)
	case node.Arg:
		return in.arg(n)
	case node.Call:
		return in.call(n)
	case node.Builtin:
		return in.builtin(n)
	}
	in.fatalf("illegal statement")
	return nil
}

// tempcell returns a fresh temporary holding "" and 0.
func (in *Interp) tempcell() *types.Cell {
	if in.tmps == nil {
		block := make([]types.Cell, tempBlock)
		for i := 0; i < tempBlock-1; i++ {
			block[i].Kind = types.KindTemp
			block[i].Next = &block[i+1]
		}
		block[tempBlock-1].Kind = types.KindTemp
		in.tmps = &block[0]
	}
	x := in.tmps
	in.tmps = x.Next
	*x = types.Cell{Kind: types.KindTemp, Flags: types.NUM | types.STR | types.DONTFREE}
	return x
}

// tempfree returns x to the pool. Anything but a temporary is ignored.
func (in *Interp) tempfree(x *types.Cell) {
	if !x.IsTemp() {
		return
	}
	if x == in.tmps {
		in.fatalf("tempcell list is curdled")
	}
	x.Free()
	x.Next = in.tmps
	in.tmps = x
}

// numTemp returns a temporary holding f.
func (in *Interp) numTemp(f float64) *types.Cell {
	x := in.tempcell()
	in.setNum(x, f)
	return x
}

// strTemp returns a temporary holding s.
func (in *Interp) strTemp(s string) *types.Cell {
	x := in.tempcell()
	in.setStr(x, s)
	return x
}

func (in *Interp) boolCell(b bool) *types.Cell {
	if b {
		return in.True
	}
	return in.False
}
