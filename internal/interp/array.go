package interp

import (
	"strings"

	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/types"
)

// subscript evaluates a subscript list and joins the parts with SUBSEP.
func (in *Interp) subscript(list *node.Node) string {
	if list != nil && list.Next == nil {
		y := in.execute(list)
		s := in.getStr(y)
		in.tempfree(y)
		return s
	}
	subsep := in.getStr(in.subsep)
	var b strings.Builder
	for x := list; x != nil; x = x.Next {
		y := in.execute(x)
		b.WriteString(in.getStr(y))
		in.tempfree(y)
		if x.Next != nil {
			b.WriteString(subsep)
		}
	}
	return b.String()
}

// toArray makes sure x is an array, converting an unset scalar on first
// use as one.
func (in *Interp) toArray(x *types.Cell) {
	if x.IsArray() {
		return
	}
	switch {
	case x.IsFunc():
		in.fatalf("can't use function %s as an array", x.Name)
	case x.Flags&(types.CON|types.FLD|types.REC) != 0 || x.IsTemp() || !unset(x):
		in.fatalf("can't use scalar %s as array", x.Name)
	}
	x.MakeArray(types.NSYMTAB)
	if x.Kind == types.KindVar {
		x.Kind = types.KindArray
	}
}

// unset reports whether a scalar still holds its initial value.
func unset(x *types.Cell) bool {
	return x.Sval == "" && x.Fval == 0
}

// array evaluates a[subs], creating the element if it does not exist.
func (in *Interp) array(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	in.toArray(x)
	key := in.subscript(n.Args[1])
	z := x.Arr.Insert(key, "", 0, types.NUM|types.STR|types.DONTFREE)
	in.tempfree(x)
	return z
}

// intest evaluates (subs) in a without creating the element.
func (in *Interp) intest(n *node.Node) *types.Cell {
	ap := in.execute(n.Args[1])
	in.toArray(ap)
	key := in.subscript(n.Args[0])
	found := ap.Arr.Lookup(key) != nil
	in.tempfree(ap)
	return in.boolCell(found)
}

// checkSymtab rejects changes that would remove names from the main
// table through the SYMTAB view.
func (in *Interp) checkSymtab(x *types.Cell, what string) {
	if x.Arr == in.tab {
		in.fatalf("can't %s SYMTAB", what)
	}
}

// delete removes a[subs], or every element when there is no subscript.
func (in *Interp) delstat(n *node.Node) *types.Cell {
	x := in.execute(n.Args[0])
	if !x.IsArray() {
		return in.True
	}
	in.checkSymtab(x, "delete from")
	if n.Args[1] == nil {
		x.Arr.Clear()
	} else {
		x.Arr.Delete(in.subscript(n.Args[1]))
	}
	in.tempfree(x)
	return in.True
}

// forin runs the body once per key present when the loop starts.
func (in *Interp) forin(n *node.Node) *types.Cell {
	vp := in.execute(n.Args[0])
	ap := in.execute(n.Args[1])
	if !ap.IsArray() {
		return in.True
	}
	keys := ap.Arr.Keys()
	in.tempfree(ap)
	for _, k := range keys {
		in.setStr(vp, k)
		if r := in.loopExit(in.execute(n.Args[2])); r != nil {
			return r
		}
	}
	return in.True
}
