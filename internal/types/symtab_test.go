package types

import (
	"fmt"
	"sort"
	"testing"
)

func TestTableInsertLookup(t *testing.T) {
	tab := NewTable(NSYMTAB)
	cells := make(map[string]*Cell)
	for i := 0; i < 1000; i++ {
		name := fmt.Sprintf("var%d", i)
		cells[name] = tab.Insert(name, "", 0, NUM|STR)
	}

	if tab.Len() != 1000 {
		t.Fatalf("Len() = %d, want 1000", tab.Len())
	}
	for name, c := range cells {
		if got := tab.Lookup(name); got != c {
			t.Errorf("Lookup(%q) = %p, want %p", name, got, c)
		}
	}
	if got := tab.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
}

func TestTableInsertIsIdempotent(t *testing.T) {
	tab := NewTable(NSYMTAB)
	first := tab.Insert("x", "one", 1, NUM|STR)
	second := tab.Insert("x", "two", 2, STR)

	if first != second {
		t.Fatal("second Insert returned a different cell")
	}
	if second.Sval != "one" || second.Fval != 1 || second.Flags != NUM|STR {
		t.Errorf("existing cell changed: %v", second)
	}
	if tab.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tab.Len())
	}
}

func TestTableRehash(t *testing.T) {
	tab := NewTable(NSYMTAB)
	limit := fullTab * NSYMTAB
	for i := 0; i < limit; i++ {
		tab.Insert(fmt.Sprintf("k%d", i), "", 0, STR)
	}
	if tab.Size() != NSYMTAB {
		t.Fatalf("Size() = %d after %d inserts, want %d", tab.Size(), limit, NSYMTAB)
	}

	tab.Insert("one-more", "", 0, STR)
	if tab.Size() != growTab*NSYMTAB {
		t.Fatalf("Size() = %d after crossing the threshold, want %d", tab.Size(), growTab*NSYMTAB)
	}
	if float64(tab.Len())/float64(tab.Size()) > fullTab {
		t.Errorf("load factor %d/%d exceeds %d", tab.Len(), tab.Size(), fullTab)
	}
	for i := 0; i < limit; i++ {
		name := fmt.Sprintf("k%d", i)
		if tab.Lookup(name) == nil {
			t.Errorf("Lookup(%q) lost after rehash", name)
		}
	}
	if tab.Lookup("one-more") == nil {
		t.Error("Lookup(one-more) lost after rehash")
	}
}

func TestTableDelete(t *testing.T) {
	tab := NewTable(4)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		tab.Insert(name, name, 0, STR)
	}
	tab.Delete("c")
	tab.Delete("zzz")

	if tab.Lookup("c") != nil {
		t.Error("c still present after Delete")
	}
	if tab.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tab.Len())
	}

	keys := tab.Keys()
	sort.Strings(keys)
	want := []string{"a", "b", "d", "e"}
	if fmt.Sprint(keys) != fmt.Sprint(want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}

	tab.Clear()
	if tab.Len() != 0 || len(tab.Keys()) != 0 {
		t.Errorf("Clear left %d entries", tab.Len())
	}
}

func TestHash(t *testing.T) {
	// h = c + 31*h over the bytes of "ab": 97*31 + 98
	if got := hash("ab", 10000); got != 3105 {
		t.Errorf("hash(ab) = %d, want 3105", got)
	}
	if got := hash("", 50); got != 0 {
		t.Errorf("hash(\"\") = %d, want 0", got)
	}
}
