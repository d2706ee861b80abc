// Package types defines the runtime value cell and the symbol table.
package types

import "fmt"

// Kind classifies what a Cell is being used for.
type Kind uint8

const (
	KindUnknown Kind = iota // Fresh cell with no role yet
	KindField               // $1..$n
	KindVar                 // Named variable or array element
	KindTemp                // Pooled temporary
	KindConst               // Program literal
	KindFree                // Temporary sitting on the free list
	KindCopy                // Copy of an argument in a call frame
	KindTrue                // The shared boolean true cell
	KindFalse               // The shared boolean false cell
	KindArray               // Array name
	KindFunc                // Function name
	KindRecord              // $0

	// Jump kinds are returned by execute to request a control transfer.
	KindExit
	KindNext
	KindBreak
	KindContinue
	KindReturn
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindField:    "field",
	KindVar:      "var",
	KindTemp:     "temp",
	KindConst:    "const",
	KindFree:     "free",
	KindCopy:     "copy",
	KindTrue:     "true",
	KindFalse:    "false",
	KindArray:    "array",
	KindFunc:     "func",
	KindRecord:   "record",
	KindExit:     "exit",
	KindNext:     "next",
	KindBreak:    "break",
	KindContinue: "continue",
	KindReturn:   "return",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Flag is the validity and role bitset of a Cell.
type Flag uint16

const (
	NUM      Flag = 1 << iota // Fval is valid
	STR                       // Sval is valid
	DONTFREE                  // Sval is borrowed
	CON                       // Program literal
	ARR                       // Array name; Arr holds the elements
	FCN                       // Function name
	FLD                       // Field cell
	REC                       // $0
)

func (f Flag) String() string {
	names := [...]string{"NUM", "STR", "DONTFREE", "CON", "ARR", "FCN", "FLD", "REC"}
	var b []byte
	for i, name := range names {
		if f&(1<<i) == 0 {
			continue
		}
		if len(b) > 0 {
			b = append(b, '|')
		}
		b = append(b, name...)
	}
	if len(b) == 0 {
		return "0"
	}
	return string(b)
}

// Cell is the universal mutable value box. Variables, constants, fields,
// array elements and temporaries are all Cells; which representations are
// current is tracked in Flags.
type Cell struct {
	Kind  Kind
	Flags Flag
	Name  string
	Sval  string
	Fval  float64
	Conv  string // format that produced Sval from Fval, if any
	Index int    // field number for FLD cells
	Arr   *Table // elements for ARR cells
	Next  *Cell  // bucket chain, or free list link
}

// NewCell returns a cell holding both s and f with the given flags.
func NewCell(name, s string, f float64, flags Flag) *Cell {
	return &Cell{Kind: KindVar, Name: name, Sval: s, Fval: f, Flags: flags}
}

// IsNum reports whether the numeric value is current.
func (c *Cell) IsNum() bool { return c.Flags&NUM != 0 }

// IsStr reports whether the string value is current.
func (c *Cell) IsStr() bool { return c.Flags&STR != 0 }

// IsArray reports whether the cell names an array.
func (c *Cell) IsArray() bool { return c.Flags&ARR != 0 }

// IsFunc reports whether the cell names a function.
func (c *Cell) IsFunc() bool { return c.Flags&FCN != 0 }

// IsField reports whether the cell is one of $1..$n.
func (c *Cell) IsField() bool { return c.Flags&FLD != 0 }

// IsRecord reports whether the cell is $0.
func (c *Cell) IsRecord() bool { return c.Flags&REC != 0 }

// IsTemp reports whether the cell belongs to the temporary pool.
func (c *Cell) IsTemp() bool { return c.Kind == KindTemp }

// IsJump reports whether the cell is a control transfer request.
func (c *Cell) IsJump() bool { return c.Kind >= KindExit }

// Free drops an owned string. Borrowed strings are left for their owner.
func (c *Cell) Free() {
	if c.Flags&(STR|DONTFREE) == STR {
		c.Sval = ""
	}
}

// MakeArray turns c into an empty array with a table of the given size.
func (c *Cell) MakeArray(size int) {
	c.Free()
	c.Flags &^= STR | NUM | DONTFREE
	c.Flags |= ARR
	c.Sval = ""
	c.Arr = NewTable(size)
}

func (c *Cell) String() string {
	return fmt.Sprintf("%s %q s=%q f=%g t=%s", c.Kind, c.Name, c.Sval, c.Fval, c.Flags)
}
