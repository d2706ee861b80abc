package node

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Fprint writes an indented dump of the tree to w.
func Fprint(w io.Writer, t *Tree) error {
	p := &printer{w: w}
	p.section("BEGIN", t.Begin())
	p.section("RULES", t.Rules())
	p.section("END", t.End())

	names := make([]string, 0, len(t.Funcs))
	for name := range t.Funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := t.Funcs[name]
		p.printf(0, "FUNC %s(%s)\n", f.Name, strings.Join(f.Params, ", "))
		p.chain(1, f.Body)
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, strings.Repeat("  ", depth)+format, args...)
}

func (p *printer) section(name string, n *Node) {
	if n == nil {
		return
	}
	p.printf(0, "%s\n", name)
	p.chain(1, n)
}

func (p *printer) chain(depth int, n *Node) {
	for ; n != nil; n = n.Next {
		p.node(depth, n)
	}
}

func (p *printer) node(depth int, n *Node) {
	if n.Kind == Value {
		c := n.Cell
		p.printf(depth, "%s %q (%s)\n", c.Kind, c.Name, c.Flags)
		return
	}
	line := ""
	if n.Line > 0 {
		line = fmt.Sprintf(" line %d", n.Line)
	}
	switch n.Op {
	case Arg, Builtin, Pastat2, Print, Printf:
		p.printf(depth, "%s [%d]%s\n", n.Op, n.Aux, line)
	default:
		p.printf(depth, "%s%s\n", n.Op, line)
	}
	for i := 0; i < n.NArg; i++ {
		if n.Args[i] == nil {
			p.printf(depth+1, "-\n")
			continue
		}
		p.chain(depth+1, n.Args[i])
	}
}
