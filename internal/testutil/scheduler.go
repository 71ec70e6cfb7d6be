package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/vytor/learnearn/internal/services"
)

// ManualScheduler is a services.Scheduler driven by Advance instead of the
// wall clock.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) services.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves time forward by d and runs every timer that came due, in
// deadline order. Callbacks run on the calling goroutine without the
// scheduler lock held, so they may schedule more timers.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.fired = true
		s.mu.Unlock()
		next.fn()
	}
}

// Pending is the number of timers neither fired nor stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTimer {
	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	s.pending = live
	sort.Slice(s.pending, func(i, j int) bool {
		if s.pending[i].at != s.pending[j].at {
			return s.pending[i].at < s.pending[j].at
		}
		return s.pending[i].seq < s.pending[j].seq
	})
	if len(s.pending) == 0 || s.pending[0].at > target {
		return nil
	}
	return s.pending[0]
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
