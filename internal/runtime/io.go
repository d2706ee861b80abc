package runtime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// Mode selects where print output goes.
type Mode int

const (
	Stdout   Mode = iota // the interpreter's standard output
	Truncate             // > file
	Append               // >> file
	Pipe                 // | command
)

func (m Mode) String() string {
	switch m {
	case Stdout:
		return "stdout"
	case Truncate:
		return ">"
	case Append:
		return ">>"
	case Pipe:
		return "|"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Streams owns the output files and pipes opened by print redirection.
// A stream stays open, keyed by its file name or command text, until it
// is closed by name or CloseAll runs at the end of the program.
type Streams struct {
	stdout *lockedWriter
	stderr io.Writer

	streams map[string]*stream
	order   []string // open order, for CloseAll
}

type stream struct {
	mode   Mode
	file   *os.File
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	writer *bufio.Writer
}

// lockedWriter serializes writes to standard output: commands started
// through pipes and system() share it with the interpreter.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (l *lockedWriter) flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// NewStreams returns a stream table writing standard output to stdout and
// command diagnostics to stderr. A nil stderr discards them.
func NewStreams(stdout, stderr io.Writer) *Streams {
	if stderr == nil {
		stderr = io.Discard
	}
	return &Streams{
		stdout:  &lockedWriter{w: stdout},
		stderr:  stderr,
		streams: make(map[string]*stream),
	}
}

// Resolve returns the writer for a print with the given redirection.
// A target already open is reused whatever mode it was opened with.
func (s *Streams) Resolve(mode Mode, target string) (io.Writer, error) {
	if mode == Stdout {
		return s.stdout, nil
	}
	switch target {
	case "/dev/stdout":
		return s.stdout, nil
	case "/dev/stderr":
		return s.stderr, nil
	}
	if st, ok := s.streams[target]; ok {
		return st.writer, nil
	}

	var st *stream
	var err error
	switch mode {
	case Truncate:
		st, err = openFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	case Append:
		st, err = openFile(target, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
	case Pipe:
		st, err = s.startPipe(target)
	default:
		err = fmt.Errorf("unknown output mode %s", mode)
	}
	if err != nil {
		return nil, err
	}
	st.mode = mode
	s.streams[target] = st
	s.order = append(s.order, target)
	return st.writer, nil
}

func openFile(name string, flag int) (*stream, error) {
	file, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return nil, err
	}
	return &stream{file: file, writer: bufio.NewWriter(file)}, nil
}

func (s *Streams) startPipe(command string) (*stream, error) {
	// Output already printed must reach the command's stdout first.
	if err := s.stdout.flush(); err != nil {
		return nil, err
	}
	cmd := exec.Command(getShell(), getShellArg(), command)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}
	return &stream{cmd: cmd, stdin: stdin, writer: bufio.NewWriter(stdin)}, nil
}

// Close flushes and closes the stream named name. It returns 0 on
// success and -1 when the stream is not open or closing fails.
func (s *Streams) Close(name string) int {
	st, ok := s.streams[name]
	if !ok {
		return -1
	}
	delete(s.streams, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if err := st.close(); err != nil {
		return -1
	}
	return 0
}

func (st *stream) close() error {
	flushErr := st.writer.Flush()
	var err error
	if st.cmd != nil {
		st.stdin.Close()
		err = st.cmd.Wait()
	} else {
		err = st.file.Close()
	}
	return errors.Join(flushErr, err)
}

// Flush flushes the stream named name, or every stream and standard
// output when name is empty. It returns 0 on success and -1 when the
// stream is not open or flushing fails.
func (s *Streams) Flush(name string) int {
	if name == "" {
		status := 0
		for _, n := range s.order {
			if s.streams[n].writer.Flush() != nil {
				status = -1
			}
		}
		if s.stdout.flush() != nil {
			status = -1
		}
		return status
	}
	st, ok := s.streams[name]
	if !ok {
		return -1
	}
	if err := st.writer.Flush(); err != nil {
		return -1
	}
	return 0
}

// CloseAll closes every open stream in the order they were opened and
// flushes standard output. It returns the errors met along the way.
func (s *Streams) CloseAll() []error {
	var errs []error
	for _, name := range s.order {
		if err := s.streams[name].close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	s.streams = make(map[string]*stream)
	s.order = s.order[:0]
	if err := s.stdout.flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush stdout: %w", err))
	}
	return errs
}

// System runs command through the shell after flushing all output, and
// returns its exit status.
func (s *Streams) System(command string) int {
	s.Flush("")
	cmd := exec.Command(getShell(), getShellArg(), command)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	err := cmd.Run()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	fmt.Fprintf(s.stderr, "nawk: %v\n", err)
	return -1
}

// getShell returns the shell used for pipes and system().
func getShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if comspec := os.Getenv("COMSPEC"); comspec != "" {
		return comspec
	}
	return "sh"
}

// getShellArg returns the flag that passes a command string to the shell.
func getShellArg() string {
	shell := getShell()
	if shell == os.Getenv("COMSPEC") || shell == "cmd.exe" || shell == "cmd" {
		return "/c"
	}
	return "-c"
}
