package model

import (
	"sync"
	"time"
)

// Stopwatch measures how long a game has been running.
type Stopwatch struct {
	mu          sync.Mutex
	elapsed     time.Duration
	lastStarted time.Time
	isRunning   bool
	now         func() time.Time
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{now: time.Now}
}

func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		s.lastStarted = s.now()
		s.isRunning = true
	}
}

func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		s.elapsed += s.now().Sub(s.lastStarted)
		s.isRunning = false
	}
}

func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return s.elapsed + s.now().Sub(s.lastStarted)
	}
	return s.elapsed
}
