package service

import (
	"sync/atomic"
	"time"
)

// State is the shared readiness snapshot for the health endpoints. The
// runner flips it as sessions come and go.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	sessions      atomic.Int64
	lastLoginUnix atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetSessions(n int64) { s.sessions.Store(n) }
func (s *State) Sessions() int64     { return s.sessions.Load() }

func (s *State) TouchLogin(t time.Time) { s.lastLoginUnix.Store(t.Unix()) }
func (s *State) LastLogin() time.Time {
	u := s.lastLoginUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
