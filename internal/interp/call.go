package interp

import (
	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/types"
)

// frame is the state of one active user function call.
type frame struct {
	fn     *node.Func
	args   []*types.Cell // parameter slots, locals included
	retval *types.Cell
}

func (in *Interp) frame() *frame {
	if len(in.frames) == 0 {
		in.fatalf("return not in function")
	}
	return in.frames[len(in.frames)-1]
}

// arg returns parameter slot n.Aux of the current call.
func (in *Interp) arg(n *node.Node) *types.Cell {
	return in.frame().args[n.Aux]
}

// copyCell makes the by-value copy of a scalar argument.
func copyCell(x *types.Cell, name string) *types.Cell {
	return &types.Cell{
		Kind:  types.KindCopy,
		Name:  name,
		Sval:  x.Sval,
		Fval:  x.Fval,
		Conv:  x.Conv,
		Flags: x.Flags &^ (types.CON | types.FLD | types.REC | types.DONTFREE),
	}
}

// call invokes a user function. Scalars are copied and arrays passed by
// reference. When the callee turns a copied unset scalar into an array,
// the caller's variable becomes that array on return.
func (in *Interp) call(n *node.Node) *types.Cell {
	fcn := n.Args[0].Cell
	fn, ok := in.tree.Funcs[fcn.Name]
	if !ok {
		in.fatalf("calling undefined function %s", fcn.Name)
	}
	ncall := node.Len(n.Args[1])
	if ncall > len(fn.Params) {
		in.fatalf("function %s called with %d args, uses only %d", fn.Name, ncall, len(fn.Params))
	}

	args := make([]*types.Cell, len(fn.Params))
	origin := make([]*types.Cell, ncall)
	i := 0
	for x := n.Args[1]; x != nil; x = x.Next {
		y := in.execute(x)
		switch {
		case y.IsFunc():
			in.fatalf("can't use function %s as argument in %s", y.Name, fn.Name)
		case y.IsArray():
			args[i] = y
		default:
			args[i] = copyCell(y, fn.Params[i])
			if !y.IsTemp() && y.Flags&(types.CON|types.FLD|types.REC) == 0 {
				origin[i] = y
			}
		}
		in.tempfree(y)
		i++
	}
	for ; i < len(args); i++ {
		args[i] = &types.Cell{
			Kind:  types.KindCopy,
			Name:  fn.Params[i],
			Flags: types.NUM | types.STR | types.DONTFREE,
		}
	}

	f := &frame{fn: fn, args: args, retval: in.tempcell()}
	in.frames = append(in.frames, f)
	line := in.line
	y := in.execute(fn.Body)
	in.frames = in.frames[:len(in.frames)-1]
	in.line = line

	for i, t := range args[:ncall] {
		if t.Kind != types.KindCopy || !t.IsArray() || origin[i] == nil {
			continue
		}
		o := origin[i]
		if !o.IsArray() && unset(o) {
			o.Flags = o.Flags&^(types.STR|types.NUM|types.DONTFREE) | types.ARR
			o.Sval = ""
			o.Arr = t.Arr
			if o.Kind == types.KindVar {
				o.Kind = types.KindArray
			}
		}
	}

	switch y.Kind {
	case types.KindExit, types.KindNext:
		// The call may sit inside an expression; unwind to the rule loop.
		panic(unwind{y})
	}
	in.tempfree(y)
	return f.retval
}

// unwind carries an exit or next out of a function body to the
// enclosing BEGIN, rule or END chain.
type unwind struct {
	jump *types.Cell
}

// runChain executes a top-level chain, catching exit and next raised
// inside function calls.
func (in *Interp) runChain(n *node.Node) (x *types.Cell) {
	defer func() {
		if r := recover(); r != nil {
			u, ok := r.(unwind)
			if !ok {
				panic(r)
			}
			in.frames = in.frames[:0]
			x = u.jump
		}
	}()
	return in.execute(n)
}
