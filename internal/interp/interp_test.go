package interp

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kolkov/nawk/internal/parser"
)

// runAWK parses and runs src over input with ARGV set to args. It returns
// the output, the exit status and the runtime error, if any.
func runAWK(t *testing.T, src, input string, args ...string) (string, int, error) {
	t.Helper()
	var out bytes.Buffer
	in := New(Config{
		Stdout:  &out,
		Args:    append([]string{"nawk"}, args...),
		Environ: []string{"HOME=/home/awk", "ANSWER=42"},
	})
	tree, err := parser.Parse(src, in.Table())
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	code, err := in.Run(tree, strings.NewReader(input))
	return out.String(), code, err
}

type awkTest struct {
	name  string
	src   string
	input string
	want  string
}

func runTests(t *testing.T, tests []awkTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := runAWK(t, tt.src, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecords(t *testing.T) {
	runTests(t, []awkTest{
		{"sum of fields", `{ print $1+$2 }`, "3 4\n5 6\n", "7\n11\n"},
		{"pattern only", `$1 > 4`, "3\n5\n9\n", "5\n9\n"},
		{"last record without newline", `{ print NR ":" $0 }`, "a\nb", "1:a\n2:b\n"},
		{"empty record has no fields", `{ print NF }`, "\n  \n", "0\n0\n"},
		{"record number in END", `END { print NR, $0 }`, "x\ny\n", "2 y\n"},
		{"strnum record", `{ print ($0 == 3) }`, " 3.0 \n", "1\n"},
		{"strnum fields", `{ print ($1 < $2) }`, "10 9\nabc abd\n", "0\n1\n"},
		{"single char RS", `BEGIN { RS = ";" } { print NR, $0 }`, "a;b;c", "1 a\n2 b\n3 c\n"},
		{"paragraph mode",
			`BEGIN { RS = "" } { print NR ": " $1 "," $NF }`,
			"\n\na b\nc\n\n\nd\n", "1: a,c\n2: d,d\n"},
		{"paragraph mode with FS",
			`BEGIN { RS = ""; FS = ":" } { print NF; print $2 }`,
			"a:b\nc\n", "3\nb\n"},
	})
}

func TestFieldSplitting(t *testing.T) {
	runTests(t, []awkTest{
		{"blanks", `{ print NF, $2 }`, "  a \t b  c \n", "3 b\n"},
		{"single char", `BEGIN { FS = ":" } { print $2 }`, "a:b:c\n", "b\n"},
		{"empty fields kept", `BEGIN { FS = "," } { print NF }`, "a,,b\n", "3\n"},
		{"tab", `BEGIN { FS = "\t" } { print $2 }`, "a b\tc d\n", "c d\n"},
		{"regex", `BEGIN { FS = "[0-9]+" } { print $1 "|" $2 "|" $3 }`, "ab12cd345ef\n", "ab|cd|ef\n"},
		{"empty FS splits bytes", `BEGIN { FS = "" } { print NF, $2 }`, "abc\n", "3 b\n"},
		{"FS change applies to next record", `{ FS = ":"; print $1 }`, "a:b c\nd:e f\n", "a:b\nd\n"},
		{"FS from $0 assignment", `{ FS = ","; $0 = "x,y"; print $2 }`, "a\n", "y\n"},
	})
}

func TestFieldAssignment(t *testing.T) {
	runTests(t, []awkTest{
		{"NF truncates", `{ NF = 2; print }`, "a b c d\n", "a b\n"},
		{"NF extends", `{ NF = 4; print; print NF }`, "a b\n", "a b  \n4\n"},
		{"rebuild with OFS", `BEGIN { OFS = "-" } { $1 = $1; print }`, "a  b   c\n", "a-b-c\n"},
		{"field past NF", `{ $5 = "x"; print; print NF }`, "a b\n", "a b   x\n5\n"},
		{"computed field", `{ $(NF+1) = "z"; print }`, "a b\n", "a b z\n"},
		{"record assignment resplits", `{ $0 = "p q r"; print NF, $2 }`, "a\n", "3 q\n"},
		{"field increment", `{ $2++; print }`, "1 5\n", "1 6\n"},
		{"record reflects field write", `{ $2 = "X"; print $0; print length() }`, "a b c\n", "a X c\n5\n"},
		{"sub on record resplits", `{ gsub(/o/, "0"); print $2 }`, "foo boo\n", "b00\n"},
		{"round trip", `{ $3 = "z"; r = $0; $0 = r; print NF, $1, $3, $4 }`, "a b c d\n", "4 a z d\n"},
		{"getting a far field leaves NF", `{ x = $9; print NF }`, "a b\n", "2\n"},
	})
}

func TestExpressions(t *testing.T) {
	runTests(t, []awkTest{
		{"uninitialized", `BEGIN { print x + 0, "[" x "]", length(x) }`, "", "0 [] 0\n"},
		{"concat precedence", `BEGIN { print 1 " " 2+3 }`, "", "1 5\n"},
		{"power", `BEGIN { print 2^10, 2^0.5, 2^53 }`, "", "1024 1.41421 9007199254740992\n"},
		{"modulus", `BEGIN { print 7 % 3, -7 % 3, 5.5 % 2 }`, "", "1 -1 1.5\n"},
		{"unary", `BEGIN { print -"3x", +"4" }`, "", "-3 4\n"},
		{"logical", `BEGIN { print (1 && 0), (1 || 0), !0, !"a" }`, "", "0 1 1 0\n"},
		{"string compare of constants", `BEGIN { x = "10"; y = 9; print (x < y) }`, "", "1\n"},
		{"constants never cache a number",
			`BEGIN { a = "10" + 0; print ("10" < 9); x = "10"; b = x + 0; print (x < 9) }`, "", "1\n0\n"},
		{"negative zero", `BEGIN { x = -0; print x, x "", -0 }`, "", "-0 -0 -0\n"},
		{"ternary", `BEGIN { x = 5; print (x > 3 ? "big" : "small") }`, "", "big\n"},
		{"assignment operators",
			`BEGIN { x = 10; x += 5; x -= 3; x *= 2; x /= 4; x %= 4; x ^= 2; print x }`, "", "4\n"},
		{"increments", `BEGIN { x = 5; print ++x, x++, x, x--, --x }`, "", "6 6 7 7 5\n"},
		{"match operators", `{ print ($0 ~ /^a.c$/), ($0 ~ "b"), ($0 !~ /z/) }`, "abc\n", "1 1 1\n"},
		{"dynamic regex", `BEGIN { re = "^[0-9]+$" } $0 ~ re { print }`, "12\nx1\n", "12\n"},
		{"CONVFMT and OFMT",
			`BEGIN { CONVFMT = "%.2f"; x = 3.14159; y = x ""; print y; print x }`, "", "3.14\n3.14159\n"},
		{"OFMT for print only", `BEGIN { OFMT = "%.1f"; x = 2.25; print x, x "" }`, "", "2.2 2.25\n"},
		{"integers ignore CONVFMT", `BEGIN { CONVFMT = "%.2f"; x = 17; print x "" }`, "", "17\n"},
	})
}

func TestStatements(t *testing.T) {
	runTests(t, []awkTest{
		{"for with continue and break",
			`BEGIN { for (i = 0; i < 10; i++) { if (i == 2) continue; if (i == 5) break; s = s i } print s }`,
			"", "0134\n"},
		{"do while", `BEGIN { i = 0; do { i++ } while (i < 3); print i }`, "", "3\n"},
		{"while break", `BEGIN { while (1) { if (++n > 4) break }; print n }`, "", "5\n"},
		{"if else", `{ if ($1 > 1) print "big"; else print "small" }`, "1\n2\n", "small\nbig\n"},
		{"next", `$1 == "b" { next } { print }`, "a\nb\nc\n", "a\nc\n"},
		{"range", `NR == 2, NR == 3`, "a\nb\nc\nd\n", "b\nc\n"},
		{"range closing on same record", `/b/, /b/`, "a\nb\nc\nb\n", "b\nb\n"},
		{"open range", `/c/, /nope/`, "a\nc\nd\n", "c\nd\n"},
		{"exit skips to END", `{ print; exit } END { print "end" }`, "a\nb\n", "a\nend\n"},
		{"exit in END stops", `END { print 1; exit; print 2 }`, "", "1\n"},
		{"BEGIN only reads no input", `BEGIN { print "hi" }`, "ignored\n", "hi\n"},
	})
}

func TestArrays(t *testing.T) {
	runTests(t, []awkTest{
		{"in does not create", `BEGIN { a["x"] = 1; print ("x" in a), ("y" in a), length(a) }`, "", "1 0 1\n"},
		{"reference creates", `BEGIN { if (a["x"] == "") print length(a) }`, "", "1\n"},
		{"delete", `BEGIN { a[1]; a[2]; delete a[1]; print length(a); delete a; print length(a) }`, "", "1\n0\n"},
		{"multiple subscripts",
			`BEGIN { a[1,2] = 3; for (k in a) { split(k, p, SUBSEP); print p[1], p[2], ((1,2) in a) } }`,
			"", "1 2 1\n"},
		{"SUBSEP", `BEGIN { SUBSEP = ":"; a["x","y"] = 1; for (k in a) print k }`, "", "x:y\n"},
		{"for in snapshot", `BEGIN { a[1]; a[2]; a[3]; for (k in a) { delete a; n++ } print n, length(a) }`, "", "3 0\n"},
		{"count words", `{ for (i = 1; i <= NF; i++) c[$i]++ } END { print c["a"], c["b"] }`, "a b a\nb a\n", "3 2\n"},
		{"numeric subscripts use CONVFMT", `BEGIN { a[0.1 + 0.2] = 1; for (k in a) print k }`, "", "0.3\n"},
		{"ENVIRON", `BEGIN { print ENVIRON["HOME"], ENVIRON["ANSWER"] + 1 }`, "", "/home/awk 43\n"},
		{"SYMTAB", `BEGIN { x = 7; print ("x" in SYMTAB), SYMTAB["x"], ("nosuch" in SYMTAB) }`, "", "1 7 0\n"},
	})
}

func TestFunctions(t *testing.T) {
	runTests(t, []awkTest{
		{"recursion",
			`function fact(n) { return n <= 1 ? 1 : n * fact(n-1) } BEGIN { print fact(10) }`,
			"", "3628800\n"},
		{"scalars by value", `function f(x) { x = 9 } BEGIN { y = 1; f(y); print y }`, "", "1\n"},
		{"arrays by reference", `function fill(arr) { arr["k"] = "v" } BEGIN { fill(a); print a["k"] }`, "", "v\n"},
		{"untyped argument becomes array",
			`function fill(arr) { arr["k"] = "v" } function get(arr) { return arr["k"] } BEGIN { fill(b); print get(b) }`,
			"", "v\n"},
		{"locals", `function f(a,   i) { i = a * 2; return i } BEGIN { i = 7; print f(3), i }`, "", "6 7\n"},
		{"local arrays are fresh",
			`function f(   t) { t[1]++; return t[1] } BEGIN { print f(), f() }`, "", "1 1\n"},
		{"missing return value", `function g() { return } BEGIN { x = g(); print "[" x "]" }`, "", "[]\n"},
		{"next in function",
			`function skip() { next } { if ($1 == "b") skip(); print }`, "a\nb\nc\n", "a\nc\n"},
		{"exit in function inside expression",
			`function f() { exit } BEGIN { x = 1 + f(); print "no" } END { print "end" }`, "", "end\n"},
		{"return in loop", `function f(   i) { for (i = 0; ; i++) if (i == 3) return i } BEGIN { print f() }`, "", "3\n"},
	})
}

func TestBuiltins(t *testing.T) {
	runTests(t, []awkTest{
		{"length", `{ print length, length($2), length() }`, "hello wo\n", "8 2 8\n"},
		{"substr", `BEGIN { s = "hello"; print substr(s, 2, 3), substr(s, 4), substr(s, -1), substr(s, 10) "|" substr(s, 2, -1) "|" }`,
			"", "ell lo hello ||\n"},
		{"index", `BEGIN { print index("hello", "ll"), index("hello", "z"), index("", "") }`, "", "3 0 0\n"},
		{"split string", `BEGIN { n = split("a:b:c", a, ":"); print n, a[1], a[3] }`, "", "3 a c\n"},
		{"split regex", `BEGIN { n = split("a1b22c", a, /[0-9]+/); print n, a[2] }`, "", "3 b\n"},
		{"split default FS", `BEGIN { n = split("  x  y ", a); print n, a[1] a[2] }`, "", "2 xy\n"},
		{"split empty string", `BEGIN { a[9] = 1; print split("", a), length(a) }`, "", "0 0\n"},
		{"split strnum elements", `BEGIN { split("10 9", a); print (a[1] > a[2]) }`, "", "1\n"},
		{"gsub with ampersand", `BEGIN { s = "aaa"; n = gsub(/a/, "<&>", s); print n, s }`, "", "3 <a><a><a>\n"},
		{"sub escaped ampersand", `BEGIN { s = "abc"; sub(/b/, "[\\&]", s); print s }`, "", "a[&]c\n"},
		{"sub first only", `BEGIN { s = "aXbXc"; print sub("X", "-", s), s }`, "", "1 a-bXc\n"},
		{"sub no match", `BEGIN { s = "abc"; print sub(/z/, "-", s), s }`, "", "0 abc\n"},
		{"sub on field", `{ sub(/b/, "B", $2); print; print NF }`, "a b c\n", "a B c\n3\n"},
		{"match", `BEGIN { print match("foobar", /ob/), RSTART, RLENGTH }`, "", "3 3 2\n"},
		{"match fails", `BEGIN { print match("abc", "z"), RSTART, RLENGTH }`, "", "0 0 -1\n"},
		{"case", `BEGIN { print toupper("abc1"), tolower("ABC"), toupper("é") }`, "", "ABC1 abc É\n"},
		{"math", `BEGIN { print int(3.9), int(-3.9), sqrt(16), exp(0), log(1), atan2(0, -1), sin(0), cos(0) }`,
			"", "3 -3 4 1 0 3.14159 0 1\n"},
		{"srand returns previous seed", `BEGIN { print srand(5); print srand(7) }`, "", "1\n5\n"},
		{"rand range", `BEGIN { srand(3); r = rand(); print (r >= 0 && r < 1) }`, "", "1\n"},
		{"rand repeats with seed", `BEGIN { srand(9); a = rand(); srand(9); b = rand(); print (a == b) }`, "", "1\n"},
		{"array length", `BEGIN { a[1]; a[2]; print length(a) }`, "", "2\n"},
	})
}

func TestPrintf(t *testing.T) {
	runTests(t, []awkTest{
		{"width", `BEGIN { printf("%5d\n", 3) }`, "", "    3\n"},
		{"mixed", `BEGIN { printf "%d %.2f %s\n", 42, 3.14159, "test" }`, "", "42 3.14 test\n"},
		{"zero pad", `BEGIN { printf "%s-%03d|%-4s|\n", "x", 7, "ab" }`, "", "x-007|ab  |\n"},
		{"hex and octal", `BEGIN { printf "%x %X %o %u\n", 255, 255, 8, 3 }`, "", "ff FF 10 3\n"},
		{"integer conversion truncates", `BEGIN { printf "%d %i\n", 3.99, -2.5 }`, "", "3 -2\n"},
		{"float forms", `BEGIN { printf "%.2e %g %G %5.1f\n", 1234, 0.0001, 1e20, 2.25 }`, "", "1.23e+03 0.0001 1E+20   2.2\n"},
		{"char", `BEGIN { printf "%c%c%c\n", 65, "hello", "" }`, "", "Ah\n"},
		{"nul char", `BEGIN { printf "%c", 0 }`, "", "\x00"},
		{"star width", `BEGIN { printf "%*d|\n", 4, 7 }`, "", "   7|\n"},
		{"percent", `BEGIN { printf "100%%\n" }`, "", "100%\n"},
		{"dangling percent", `BEGIN { printf "50%" }`, "", "50%"},
		{"length modifiers ignored", `BEGIN { printf "%ld %lf\n", 5, 1.5 }`, "", "5 1.500000\n"},
		{"sprintf", `BEGIN { s = sprintf("[%s]", 1/4); print s }`, "", "[0.25]\n"},
		{"print separators", `BEGIN { OFS = "-"; ORS = "|"; print "a", "b"; print "c" }`, "", "a-b|c|"},
	})
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"default", `BEGIN { }`, 0},
		{"exit in BEGIN", `BEGIN { exit 3 }`, 3},
		{"END overrides", `BEGIN { exit 1 } END { exit 4 }`, 4},
		{"END keeps status", `BEGIN { exit 1 } END { }`, 1},
		{"exit in function", `function f() { exit 5 } BEGIN { f() }`, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code, err := runAWK(t, tt.src, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code != tt.want {
				t.Errorf("got status %d, want %d", code, tt.want)
			}
		})
	}
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
		want  string
	}{
		{"division", `BEGIN { x = 0; y = 1 / x }`, "", "division by zero"},
		{"modulus", `BEGIN { x = 0; y = 5 % x }`, "", "division by zero in mod"},
		{"divide assign", `BEGIN { x = 0; y = 1; y /= x }`, "", "division by zero in /="},
		{"mod assign", `BEGIN { x = 0; y = 1; y %= x }`, "", "division by zero in %="},
		{"negative field", `{ print $(-1) }`, "a\n", "trying to access out of range field -1"},
		{"bad field name", `{ x = "abc"; print $x }`, "a\n", `illegal field $(abc), name "x"`},
		{"negative NF", `{ NF = -1 }`, "a\n", "cannot set NF to a negative value"},
		{"scalar as array", `function f(p) { p[1] = 1 } BEGIN { x = 5; f(x) }`, "", "can't use scalar p as array"},
		{"array as scalar", `function f(p) { return p + 1 } BEGIN { a[1]; f(a) }`, "", "can't read value of a; it's an array name."},
		{"unknown conversion", `BEGIN { printf("%z") }`, "", "unknown printf conversion %z"},
		{"not enough args", `BEGIN { printf("%d %d", 1) }`, "", "not enough args in printf(%d %d)"},
		{"bad dynamic regex", `BEGIN { if ("x" ~ "(") print }`, "", "syntax error in regular expression ("},
		{"delete SYMTAB", `BEGIN { x = 1; delete SYMTAB }`, "", "can't delete from SYMTAB"},
		{"delete SYMTAB element", `BEGIN { x = 1; delete SYMTAB["x"] }`, "", "can't delete from SYMTAB"},
		{"split into SYMTAB", `BEGIN { split("p q", SYMTAB) }`, "", "can't split into SYMTAB"},
		{"SYMTAB by reference", `function f(a) { delete a } BEGIN { f(SYMTAB) }`, "", "can't delete from SYMTAB"},
		{"bad static regex", `BEGIN { print "hi" } /(/ { }`, "", "syntax error in regular expression ("},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code, err := runAWK(t, tt.src, tt.input)
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("got %v (output %q), want *Error", err, out)
			}
			if !strings.HasPrefix(e.Message, tt.want) {
				t.Errorf("got message %q, want prefix %q", e.Message, tt.want)
			}
			if code != 2 {
				t.Errorf("got status %d, want 2", code)
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	_, _, err := runAWK(t, "{ print }\n{ x = $1 / 0 }", "a\nb\n")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("got %v, want *Error", err)
	}
	if e.Line != 2 || e.Record != 1 {
		t.Errorf("got line %d record %d, want line 2 record 1", e.Line, e.Record)
	}
	want := "division by zero\n input record number 1\n source line number 2"
	if e.Error() != want {
		t.Errorf("got %q, want %q", e.Error(), want)
	}
}

func TestInputFiles(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "one")
	f2 := filepath.Join(dir, "two")
	if err := os.WriteFile(f1, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f2, []byte("c\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, _, err := runAWK(t, `{ print FNR, NR, v, $0 }`, "unused\n", f1, "v=7", f2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1 1  a\n2 2  b\n1 3 7 c\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, _, err = runAWK(t, `END { print FILENAME == ARGV[1], NR }`, "", f2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1 1\n" {
		t.Errorf("got %q, want %q", got, "1 1\n")
	}

	got, _, err = runAWK(t, `{ print }`, "from stdin\n", "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from stdin\n" {
		t.Errorf("got %q, want %q", got, "from stdin\n")
	}

	got, _, err = runAWK(t, `END { print v, NR }`, "x\n", "v=a\\tb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a\tb 1\n" {
		t.Errorf("got %q, want %q", got, "a\tb 1\n")
	}

	_, _, err = runAWK(t, `{ print }`, "", filepath.Join(dir, "missing"))
	if err == nil || !strings.Contains(err.Error(), "can't open file") {
		t.Errorf("got %v, want can't open file", err)
	}
}

func TestOutputRedirection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	src := `BEGIN { f = "` + path + `"; print "x" > f; print "y" > f; close(f); print "z" >> f; print close(f), close(f) }`
	got, _, err := runAWK(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0 -1\n" {
		t.Errorf("got %q, want %q", got, "0 -1\n")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x\ny\nz\n" {
		t.Errorf("got file %q, want %q", data, "x\ny\nz\n")
	}
}

func TestSetVar(t *testing.T) {
	var out bytes.Buffer
	in := New(Config{Stdout: &out, Environ: []string{}})
	tree, err := parser.Parse(`BEGIN { print n + 1, s, (n < 9) }`, in.Table())
	if err != nil {
		t.Fatal(err)
	}
	if err := in.SetVar("n", "10"); err != nil {
		t.Fatal(err)
	}
	if err := in.SetVar("s", "str"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "1x", "a-b"} {
		if err := in.SetVar(name, "v"); err == nil {
			t.Errorf("SetVar(%q): expected error", name)
		}
	}
	if err := in.SetVar("ENVIRON", "v"); err == nil {
		t.Error("SetVar on an array: expected error")
	}
	if _, err := in.Run(tree, nil); err != nil {
		t.Fatal(err)
	}
	if out.String() != "11 str 0\n" {
		t.Errorf("got %q, want %q", out.String(), "11 str 0\n")
	}
}

func TestTempCurdled(t *testing.T) {
	in := New(Config{Environ: []string{}})
	defer func() {
		r := recover()
		e, ok := r.(*Error)
		if !ok {
			t.Fatalf("got %v, want *Error panic", r)
		}
		if e.Message != "tempcell list is curdled" {
			t.Errorf("got %q, want %q", e.Message, "tempcell list is curdled")
		}
	}()
	x := in.tempcell()
	in.tempfree(x)
	in.tempfree(x)
}

func TestTempReuse(t *testing.T) {
	in := New(Config{Environ: []string{}})
	x := in.strTemp("abc")
	in.tempfree(x)
	y := in.tempcell()
	if y != x {
		t.Fatalf("freed temporary not reused")
	}
	if y.Sval != "" || y.Fval != 0 || !y.IsNum() || !y.IsStr() {
		t.Errorf("got %q %v %s, want a reset cell", y.Sval, y.Fval, y.Flags)
	}
	in.tempfree(in.True) // not a temporary
}

func TestDebugLogging(t *testing.T) {
	var out, logs bytes.Buffer
	in := New(Config{Stdout: &out, Stderr: &logs, Debug: true, Environ: []string{}})
	tree, err := parser.Parse(`{ $1 = $1 }`, in.Table())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := in.Run(tree, strings.NewReader("a b\n")); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"msg=record", "msg=split", "nf=2"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log %q does not contain %q", logs.String(), want)
		}
	}
}
