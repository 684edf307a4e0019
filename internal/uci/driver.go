// Package uci drives an external UCI chess engine that suggests moves for
// the computer side, and maps difficulty levels to the engine's skill
// settings.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Engine manages a UCI engine process.
type Engine struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	mu     sync.Mutex
	closed bool
}

// Start launches an external engine process. ctx bounds the lifetime of
// the process, not of individual searches.
func Start(ctx context.Context, path string, args ...string) (*Engine, error) {
	if path == "" {
		return nil, errors.New("engine path is required")
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = filepath.Dir(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine %s: %w", path, err)
	}
	return &Engine{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// newPipeEngine wires an engine to existing streams, without a process.
func newPipeEngine(stdin io.WriteCloser, stdout io.ReadCloser) *Engine {
	return &Engine{stdin: stdin, stdout: stdout}
}

func (e *Engine) Reader() *Reader {
	return NewReader(e.stdout)
}

// Stderr returns the stderr stream of the engine process, or nil.
func (e *Engine) Stderr() io.Reader {
	if e.stderr == nil {
		return nil
	}
	return e.stderr
}

// Send writes a single command line to the engine.
func (e *Engine) Send(line string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	return e.write(line)
}

// write requires e.mu.
func (e *Engine) write(line string) error {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, err := io.WriteString(e.stdin, line)
	return err
}

// Close asks the engine to quit and kills it if it does not exit in time.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	// quit is the last line the engine ever receives
	_ = e.write("quit")
	e.closed = true
	e.mu.Unlock()

	if e.cmd == nil {
		return e.stdin.Close()
	}
	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		_ = e.cmd.Process.Kill()
		return errors.New("engine did not exit in time")
	}
}

// Reader reads and parses UCI lines from the engine.
type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next blocks until a line is available or EOF occurs.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		if strings.TrimSpace(r.scanner.Text()) == "" {
			continue
		}
		return ParseLine(r.scanner.Text())
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// ParseLine converts a raw engine line into a protocol event.
func ParseLine(line string) (Event, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Event{}, errors.New("empty line")
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "id":
		if len(fields) < 3 {
			return Event{}, fmt.Errorf("invalid id: %q", line)
		}
		return Event{Type: EventID, Key: fields[1], Value: strings.Join(fields[2:], " ")}, nil
	case "uciok":
		return Event{Type: EventUCIOK}, nil
	case "readyok":
		return Event{Type: EventReadyOK}, nil
	case "bestmove":
		if len(fields) < 2 {
			return Event{}, fmt.Errorf("invalid bestmove: %q", line)
		}
		e := Event{Type: EventBestMove, Move: fields[1]}
		if len(fields) >= 4 && fields[2] == "ponder" {
			e.Ponder = fields[3]
		}
		return e, nil
	case "info":
		return Event{Type: EventInfo, Raw: line}, nil
	default:
		return Event{Type: EventUnknown, Raw: line}, nil
	}
}

type EventType int

const (
	EventUnknown EventType = iota
	EventID
	EventUCIOK
	EventReadyOK
	EventInfo
	EventBestMove
)

// Event is a parsed UCI line.
type Event struct {
	Type   EventType
	Key    string
	Value  string
	Move   string
	Ponder string
	Raw    string
}
