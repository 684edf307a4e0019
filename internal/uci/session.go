package uci

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// Oracle suggests a move for a FEN position. The reply is in coordinate
// notation ("e7e5", "e7e8q").
type Oracle interface {
	BestMove(ctx context.Context, fen string, moveTime time.Duration) (string, error)
}

// Session is a running engine plus the goroutine that turns its output into
// events. Searches are serialized; a single engine process serves every
// game.
type Session struct {
	engine *Engine
	events chan Event
	errCh  chan error

	search sync.Mutex
	level  int
}

// StartSession launches an engine and starts reading its output.
func StartSession(ctx context.Context, path string, args ...string) (*Session, error) {
	engine, err := Start(ctx, path, args...)
	if err != nil {
		return nil, err
	}
	if stderr := engine.Stderr(); stderr != nil {
		go func() { _, _ = io.Copy(io.Discard, stderr) }()
	}
	return newSession(engine), nil
}

func newSession(engine *Engine) *Session {
	reader := engine.Reader()
	events := make(chan Event, 64)
	errCh := make(chan error, 1)
	go func() {
		defer close(events)
		for {
			event, err := reader.Next()
			if err != nil {
				select {
				case errCh <- err:
				default:
				}
				return
			}
			events <- event
		}
	}()
	return &Session{engine: engine, events: events, errCh: errCh}
}

func (s *Session) Close() error {
	if s == nil || s.engine == nil {
		return nil
	}
	return s.engine.Close()
}

// Handshake runs the standard UCI handshake and reports the engine's name.
func (s *Session) Handshake(ctx context.Context) (string, error) {
	s.search.Lock()
	defer s.search.Unlock()

	if err := s.engine.Send("uci"); err != nil {
		return "", err
	}
	name := ""
	for {
		event, err := s.nextEvent(ctx)
		if err != nil {
			return "", err
		}
		if event.Type == EventID && event.Key == "name" {
			name = event.Value
		}
		if event.Type == EventUCIOK {
			break
		}
	}
	return name, s.ready(ctx)
}

// SetDifficulty configures skill level and thinking-time cap for a level
// in [1,20].
func (s *Session) SetDifficulty(ctx context.Context, level int) error {
	s.search.Lock()
	defer s.search.Unlock()
	return s.setDifficulty(ctx, level)
}

func (s *Session) setDifficulty(ctx context.Context, level int) error {
	tier, err := TierFor(level)
	if err != nil {
		return err
	}
	if err := s.engine.Send(fmt.Sprintf("setoption name Skill Level value %d", tier.Level)); err != nil {
		return err
	}
	budget := tier.ThinkingTime().Milliseconds()
	if err := s.engine.Send(fmt.Sprintf("setoption name Maximum Thinking Time value %d", budget)); err != nil {
		return err
	}
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.level = level
	return nil
}

// AtLevel returns an Oracle that searches at a fixed difficulty. Games at
// different levels can share one session; the level is switched only when
// it changes.
func (s *Session) AtLevel(level int) Oracle {
	return leveled{session: s, level: level}
}

type leveled struct {
	session *Session
	level   int
}

func (l leveled) BestMove(ctx context.Context, fen string, moveTime time.Duration) (string, error) {
	s := l.session
	s.search.Lock()
	defer s.search.Unlock()
	if s.level != l.level {
		if err := s.setDifficulty(ctx, l.level); err != nil {
			return "", err
		}
	}
	return s.bestMove(ctx, fen, moveTime)
}

// BestMove searches the position for a fixed time and returns the engine's
// move. If ctx ends first the search is stopped and its late reply drained.
func (s *Session) BestMove(ctx context.Context, fen string, moveTime time.Duration) (string, error) {
	s.search.Lock()
	defer s.search.Unlock()
	return s.bestMove(ctx, fen, moveTime)
}

func (s *Session) bestMove(ctx context.Context, fen string, moveTime time.Duration) (string, error) {
	if err := s.engine.Send("position fen " + fen); err != nil {
		return "", err
	}
	ms := moveTime.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	if err := s.engine.Send(fmt.Sprintf("go movetime %d", ms)); err != nil {
		return "", err
	}
	event, err := s.waitForEvent(ctx, EventBestMove)
	if err != nil {
		if ctx.Err() != nil {
			s.abandonSearch()
		}
		return "", err
	}
	if event.Move == "(none)" || event.Move == "0000" {
		return "", ErrNoMove
	}
	return event.Move, nil
}

func (s *Session) abandonSearch() {
	if err := s.engine.Send("stop"); err != nil {
		return
	}
	drain, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.waitForEvent(drain, EventBestMove); err != nil {
		log.Printf("uci: engine did not answer stop: %v", err)
	}
}

func (s *Session) ready(ctx context.Context) error {
	if err := s.engine.Send("isready"); err != nil {
		return err
	}
	_, err := s.waitForEvent(ctx, EventReadyOK)
	return err
}

func (s *Session) waitForEvent(ctx context.Context, want EventType) (Event, error) {
	for {
		event, err := s.nextEvent(ctx)
		if err != nil {
			return Event{}, err
		}
		if event.Type == want {
			return event, nil
		}
	}
}

func (s *Session) nextEvent(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case event, ok := <-s.events:
		if !ok {
			select {
			case err := <-s.errCh:
				return Event{}, err
			default:
				return Event{}, io.EOF
			}
		}
		return event, nil
	}
}
