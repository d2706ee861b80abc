// Package node defines the parse tree consumed by the interpreter.
//
// A tree is built once by the parser and never modified afterwards. Leaves
// hold Cells from the symbol table; interior nodes carry an operator tag and
// up to four children. Sibling statements and list elements are chained
// through Next.
package node

import (
	"fmt"

	"github.com/kolkov/nawk/internal/types"
)

// Kind is the role of a node in a chain.
type Kind uint8

const (
	Value Kind = iota + 1 // leaf holding a Cell
	Stat                  // statement: execute moves on to Next
	Expr                  // expression: execute returns its value
)

// Op is the operator tag the evaluator dispatches on.
type Op uint8

const (
	Illegal Op = iota

	// Statements
	Program  // BEGIN, rules, END
	Pastat   // pattern { action }
	Pastat2  // pattern, pattern { action }; Aux is the range slot
	Print    // args, destination; Aux is the redirect token
	Printf   // args, destination; Aux is the redirect token
	If       // cond, then, else
	While    // cond, body
	Do       // body, cond
	For      // init, cond, post, body
	ForIn    // variable, array, body
	Exit     // optional status
	Next     //
	Break    //
	Continue //
	Return   // optional value
	Delete   // array, optional subscript list
	Eval     // bare value used as a statement

	// Expressions
	CondExpr // cond ? a : b
	And
	Or
	Not
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Match    // subject ~ regex
	NotMatch // subject !~ regex
	Regex    // /re/ on its own matches $0
	In       // subscript list, array
	Concat
	Add
	Sub
	Mul
	Div
	Mod
	Pow
	UMinus
	UPlus
	PreIncr
	PreDecr
	PostIncr
	PostDecr
	Assign
	AddEq
	SubEq
	MulEq
	DivEq
	ModEq
	PowEq
	Indirect // $expr
	ArrayRef // array, subscript list
	Arg      // function parameter; Aux is the slot
	Call     // function cell, argument list
	Builtin  // argument list; Aux is the builtin token
	Grouping // (a, b) list, only legal after print or before in

	numOps
)

var opNames = [numOps]string{
	Illegal:  "ILLEGAL",
	Program:  "PROGRAM",
	Pastat:   "PASTAT",
	Pastat2:  "PASTAT2",
	Print:    "PRINT",
	Printf:   "PRINTF",
	If:       "IF",
	While:    "WHILE",
	Do:       "DO",
	For:      "FOR",
	ForIn:    "FORIN",
	Exit:     "EXIT",
	Next:     "NEXT",
	Break:    "BREAK",
	Continue: "CONTINUE",
	Return:   "RETURN",
	Delete:   "DELETE",
	Eval:     "EVAL",
	CondExpr: "CONDEXPR",
	And:      "AND",
	Or:       "OR",
	Not:      "NOT",
	Eq:       "EQ",
	Ne:       "NE",
	Lt:       "LT",
	Le:       "LE",
	Gt:       "GT",
	Ge:       "GE",
	Match:    "MATCH",
	NotMatch: "NOTMATCH",
	Regex:    "REGEX",
	In:       "IN",
	Concat:   "CAT",
	Add:      "ADD",
	Sub:      "MINUS",
	Mul:      "MULT",
	Div:      "DIVIDE",
	Mod:      "MOD",
	Pow:      "POWER",
	UMinus:   "UMINUS",
	UPlus:    "UPLUS",
	PreIncr:  "PREINCR",
	PreDecr:  "PREDECR",
	PostIncr: "POSTINCR",
	PostDecr: "POSTDECR",
	Assign:   "ASSIGN",
	AddEq:    "ADDEQ",
	SubEq:    "SUBEQ",
	MulEq:    "MULTEQ",
	DivEq:    "DIVEQ",
	ModEq:    "MODEQ",
	PowEq:    "POWEQ",
	Indirect: "INDIRECT",
	ArrayRef: "ARRAY",
	Arg:      "ARG",
	Call:     "CALL",
	Builtin:  "BLTIN",
	Grouping: "GROUPING",
}

func (op Op) String() string {
	if op < numOps && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("op %d", op)
}

// MaxArgs is the number of child slots in a Node.
const MaxArgs = 4

// Node is one element of the parse tree.
type Node struct {
	Kind Kind
	Op   Op
	Args [MaxArgs]*Node
	NArg int
	Cell *types.Cell // set on Value leaves
	Aux  int
	Next *Node
	Line int
}

// IsValue reports whether n is a leaf.
func (n *Node) IsValue() bool { return n.Kind == Value }

// IsExpr reports whether n is an expression node.
func (n *Node) IsExpr() bool { return n.Kind == Expr }

func alloc(kind Kind, op Op, args ...*Node) *Node {
	n := &Node{Kind: kind, Op: op, NArg: len(args)}
	copy(n.Args[:], args)
	return n
}

// Op1 returns an expression node with one child.
func Op1(op Op, a *Node) *Node { return alloc(Expr, op, a) }

// Op2 returns an expression node with two children.
func Op2(op Op, a, b *Node) *Node { return alloc(Expr, op, a, b) }

// Op3 returns an expression node with three children.
func Op3(op Op, a, b, c *Node) *Node { return alloc(Expr, op, a, b, c) }

// Op4 returns an expression node with four children.
func Op4(op Op, a, b, c, d *Node) *Node { return alloc(Expr, op, a, b, c, d) }

// Stat1 returns a statement node with one child.
func Stat1(op Op, a *Node) *Node { return alloc(Stat, op, a) }

// Stat2 returns a statement node with two children.
func Stat2(op Op, a, b *Node) *Node { return alloc(Stat, op, a, b) }

// Stat3 returns a statement node with three children.
func Stat3(op Op, a, b, c *Node) *Node { return alloc(Stat, op, a, b, c) }

// Stat4 returns a statement node with four children.
func Stat4(op Op, a, b, c, d *Node) *Node { return alloc(Stat, op, a, b, c, d) }

// CellNode wraps c in a Value leaf.
func CellNode(c *types.Cell) *Node {
	return &Node{Kind: Value, Cell: c, NArg: 0}
}

// RecordNode returns $0 expressed as $(zero), where zero is the literal 0.
func RecordNode(zero *types.Cell) *Node {
	return Op1(Indirect, CellNode(zero))
}

// ArgNode returns a reference to parameter slot i of the enclosing function.
func ArgNode(i int) *Node {
	return &Node{Kind: Expr, Op: Arg, Aux: i}
}

// ExprToStat turns an expression node into a statement so that a chain
// walk continues past it. A leaf is wrapped in an Eval statement.
func ExprToStat(n *Node) *Node {
	switch {
	case n == nil:
	case n.Kind == Expr:
		n.Kind = Stat
	case n.Kind == Value:
		return Stat1(Eval, n)
	}
	return n
}

// Link appends b to the end of the chain starting at a.
func Link(a, b *Node) *Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	c := a
	for c.Next != nil {
		c = c.Next
	}
	c.Next = b
	return a
}

// Len returns the length of the chain starting at n.
func Len(n *Node) int {
	count := 0
	for ; n != nil; n = n.Next {
		count++
	}
	return count
}

// Walk calls fn for n, its children and its siblings, depth first.
// Returning false from fn skips the children of that node.
func Walk(n *Node, fn func(*Node) bool) {
	for ; n != nil; n = n.Next {
		if !fn(n) {
			continue
		}
		for i := 0; i < n.NArg; i++ {
			Walk(n.Args[i], fn)
		}
	}
}

// Func is a user-defined function.
type Func struct {
	Name   string
	Params []string
	Body   *Node
	Line   int
}

// Tree is a parsed program: the Program root plus its functions.
type Tree struct {
	Root   *Node // Program node: BEGIN chain, rule chain, END chain
	Funcs  map[string]*Func
	Ranges int // number of range patterns, indexed by Pastat2.Aux
}

// Begin returns the BEGIN chain.
func (t *Tree) Begin() *Node { return t.Root.Args[0] }

// Rules returns the chain of pattern-action statements.
func (t *Tree) Rules() *Node { return t.Root.Args[1] }

// End returns the END chain.
func (t *Tree) End() *Node { return t.Root.Args[2] }
