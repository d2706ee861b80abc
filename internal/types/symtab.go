package types

import "math"

const (
	// NSYMTAB is the initial bucket count of the main table and of arrays.
	NSYMTAB = 50

	fullTab = 2 // rehash when the table is this many times full
	growTab = 4 // grow the bucket array by this factor
)

// Table maps names to Cells with open hashing. It backs both the global
// symbol table and every AWK array.
type Table struct {
	nelem int
	tab   []*Cell
}

// NewTable returns an empty table with n buckets.
func NewTable(n int) *Table {
	if n <= 0 {
		n = NSYMTAB
	}
	return &Table{tab: make([]*Cell, n)}
}

func hash(s string, n int) int {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = uint32(s[i]) + 31*h
	}
	return int(h % uint32(n))
}

// Len returns the number of entries.
func (t *Table) Len() int { return t.nelem }

// Size returns the number of buckets.
func (t *Table) Size() int { return len(t.tab) }

// Lookup returns the cell named name, or nil.
func (t *Table) Lookup(name string) *Cell {
	for p := t.tab[hash(name, len(t.tab))]; p != nil; p = p.Next {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Insert returns the cell named name, creating it with the given initial
// string, number and flags if it does not exist yet. An existing cell is
// returned untouched.
func (t *Table) Insert(name, s string, f float64, flags Flag) *Cell {
	if p := t.Lookup(name); p != nil {
		return p
	}
	p := NewCell(name, s, f, flags)
	t.nelem++
	if t.nelem > fullTab*len(t.tab) {
		t.rehash()
	}
	h := hash(name, len(t.tab))
	p.Next = t.tab[h]
	t.tab[h] = p
	return p
}

// rehash moves every entry into a bucket array growTab times larger.
// If the new size cannot be represented the table keeps running as is.
func (t *Table) rehash() {
	if len(t.tab) > math.MaxInt32/growTab {
		return
	}
	nsz := growTab * len(t.tab)
	np := make([]*Cell, nsz)
	for i := range t.tab {
		var next *Cell
		for cp := t.tab[i]; cp != nil; cp = next {
			next = cp.Next
			nh := hash(cp.Name, nsz)
			cp.Next = np[nh]
			np[nh] = cp
		}
	}
	t.tab = np
}

// Delete removes name from the table. Only array tables shrink this way.
func (t *Table) Delete(name string) {
	h := hash(name, len(t.tab))
	var prev *Cell
	for p := t.tab[h]; p != nil; prev, p = p, p.Next {
		if p.Name != name {
			continue
		}
		if prev == nil {
			t.tab[h] = p.Next
		} else {
			prev.Next = p.Next
		}
		p.Free()
		p.Next = nil
		t.nelem--
		return
	}
}

// Clear removes every entry, keeping the current bucket count.
func (t *Table) Clear() {
	clear(t.tab)
	t.nelem = 0
}

// Keys returns the entry names in bucket order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, t.nelem)
	for _, p := range t.tab {
		for ; p != nil; p = p.Next {
			keys = append(keys, p.Name)
		}
	}
	return keys
}
