package types

import "testing"

func TestFlagString(t *testing.T) {
	tests := []struct {
		flags Flag
		want  string
	}{
		{0, "0"},
		{NUM, "NUM"},
		{NUM | STR, "NUM|STR"},
		{STR | DONTFREE | FLD, "STR|DONTFREE|FLD"},
		{ARR, "ARR"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("Flag(%d).String() = %q, want %q", tt.flags, got, tt.want)
		}
	}
}

func TestCellFree(t *testing.T) {
	owned := &Cell{Sval: "owned", Flags: STR}
	owned.Free()
	if owned.Sval != "" {
		t.Errorf("owned string not released: %q", owned.Sval)
	}

	borrowed := &Cell{Sval: "borrowed", Flags: STR | DONTFREE}
	borrowed.Free()
	if borrowed.Sval != "borrowed" {
		t.Errorf("borrowed string released: %q", borrowed.Sval)
	}
}

func TestCellMakeArray(t *testing.T) {
	c := NewCell("a", "", 0, NUM|STR|DONTFREE)
	c.MakeArray(NSYMTAB)

	if !c.IsArray() {
		t.Fatal("IsArray() = false after MakeArray")
	}
	if c.IsNum() || c.IsStr() {
		t.Errorf("array cell still scalar: %s", c.Flags)
	}
	if c.Arr == nil || c.Arr.Size() != NSYMTAB {
		t.Errorf("array table not allocated")
	}
}

func TestKindIsJump(t *testing.T) {
	for _, k := range []Kind{KindExit, KindNext, KindBreak, KindContinue, KindReturn} {
		if !(&Cell{Kind: k}).IsJump() {
			t.Errorf("%s is not a jump", k)
		}
	}
	for _, k := range []Kind{KindVar, KindTemp, KindTrue, KindRecord} {
		if (&Cell{Kind: k}).IsJump() {
			t.Errorf("%s reported as a jump", k)
		}
	}
}
