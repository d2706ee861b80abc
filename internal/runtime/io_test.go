package runtime

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStreams() (*Streams, *bytes.Buffer) {
	var out bytes.Buffer
	return NewStreams(&out, nil), &out
}

func TestStreamsStdout(t *testing.T) {
	s, out := newTestStreams()
	defer s.CloseAll()

	for _, target := range []string{"", "/dev/stdout"} {
		mode := Stdout
		if target != "" {
			mode = Truncate
		}
		w, err := s.Resolve(mode, target)
		if err != nil {
			t.Fatalf("Resolve(%s, %q): %v", mode, target, err)
		}
		io.WriteString(w, "x")
	}
	if got := out.String(); got != "xx" {
		t.Errorf("got %q, want %q", got, "xx")
	}
	if s.streams["/dev/stdout"] != nil {
		t.Errorf("/dev/stdout should not be tracked as a stream")
	}
}

func TestStreamsTruncate(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(testFile, []byte("old content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, _ := newTestStreams()
	w, err := s.Resolve(Truncate, testFile)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	io.WriteString(w, "hello\n")
	if errs := s.CloseAll(); len(errs) > 0 {
		t.Fatalf("CloseAll: %v", errs)
	}

	content, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got := string(content); got != "hello\n" {
		t.Errorf("got %q, want %q", got, "hello\n")
	}
}

func TestStreamsAppend(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "append.txt")
	if err := os.WriteFile(testFile, []byte("first\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, _ := newTestStreams()
	w, err := s.Resolve(Append, testFile)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	io.WriteString(w, "second\n")
	s.CloseAll()

	content, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got := string(content); got != "first\nsecond\n" {
		t.Errorf("got %q, want %q", got, "first\nsecond\n")
	}
}

func TestStreamsReuse(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "cache.txt")

	s, _ := newTestStreams()
	defer s.CloseAll()

	w1, err := s.Resolve(Truncate, testFile)
	if err != nil {
		t.Fatal(err)
	}
	// A later >> on the same name keeps writing to the open file.
	w2, err := s.Resolve(Append, testFile)
	if err != nil {
		t.Fatal(err)
	}
	if w1 != w2 {
		t.Error("expected the same writer for the same name")
	}
}

func TestStreamsClose(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "close.txt")

	s, _ := newTestStreams()
	defer s.CloseAll()

	w, err := s.Resolve(Truncate, testFile)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "a\n")

	if got := s.Close(testFile); got != 0 {
		t.Errorf("Close: got %d, want 0", got)
	}
	if got := s.Close(testFile); got != -1 {
		t.Errorf("second Close: got %d, want -1", got)
	}

	// Reopening with > truncates again.
	w, err = s.Resolve(Truncate, testFile)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "b\n")
	s.Close(testFile)

	content, _ := os.ReadFile(testFile)
	if got := string(content); got != "b\n" {
		t.Errorf("got %q, want %q", got, "b\n")
	}
}

func TestStreamsFlush(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "flush.txt")

	s, _ := newTestStreams()
	defer s.CloseAll()

	w, err := s.Resolve(Truncate, testFile)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "buffered")

	if got := s.Flush(testFile); got != 0 {
		t.Errorf("Flush: got %d, want 0", got)
	}
	content, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(content); got != "buffered" {
		t.Errorf("got %q, want %q", got, "buffered")
	}
	if got := s.Flush(""); got != 0 {
		t.Errorf("Flush all: got %d, want 0", got)
	}
	if got := s.Flush("/nonexistent/file.txt"); got != -1 {
		t.Errorf("Flush of unknown stream: got %d, want -1", got)
	}
}

func TestStreamsOpenError(t *testing.T) {
	s, _ := newTestStreams()
	defer s.CloseAll()

	if _, err := s.Resolve(Truncate, "/nonexistent/path/file.txt"); err == nil {
		t.Error("expected error for unwritable path")
	}
	if s.streams["/nonexistent/path/file.txt"] != nil {
		t.Error("failed open should not be tracked")
	}
}

func TestStreamsPipe(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no shell available")
	}
	t.Setenv("SHELL", "/bin/sh")

	s, out := newTestStreams()
	w, err := s.Resolve(Pipe, "sort")
	if err != nil {
		t.Fatalf("Resolve pipe: %v", err)
	}
	io.WriteString(w, "b\na\n")
	if got := s.Close("sort"); got != 0 {
		t.Errorf("Close: got %d, want 0", got)
	}
	if got := out.String(); got != "a\nb\n" {
		t.Errorf("got %q, want %q", got, "a\nb\n")
	}
}

func TestStreamsSystem(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no shell available")
	}
	t.Setenv("SHELL", "/bin/sh")

	s, out := newTestStreams()
	defer s.CloseAll()

	if got := s.System("echo hi"); got != 0 {
		t.Errorf("status: got %d, want 0", got)
	}
	if got := s.System("exit 3"); got != 3 {
		t.Errorf("status: got %d, want 3", got)
	}
	if !strings.Contains(out.String(), "hi\n") {
		t.Errorf("command output missing: %q", out.String())
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Stdout, "stdout"},
		{Truncate, ">"},
		{Append, ">>"},
		{Pipe, "|"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func BenchmarkStreamsResolve(b *testing.B) {
	testFile := filepath.Join(b.TempDir(), "bench.txt")
	s := NewStreams(io.Discard, nil)
	defer s.CloseAll()

	for i := 0; i < b.N; i++ {
		w, _ := s.Resolve(Truncate, testFile)
		io.WriteString(w, "benchmark line\n")
	}
}
