package game

import (
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay and reports the current time
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// RealScheduler uses the runtime timers
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (RealScheduler) Now() time.Time {
	return time.Now()
}

// LockedScheduler runs every callback while holding a lock, so timer
// callbacks and input handlers that take the same lock never interleave
type LockedScheduler struct {
	Scheduler
	Lock sync.Locker
}

func (s LockedScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return s.Scheduler.AfterFunc(d, func() {
		s.Lock.Lock()
		defer s.Lock.Unlock()
		f()
	})
}

// ManualScheduler is a Scheduler whose clock only moves when Advance is called
type ManualScheduler struct {
	mu     sync.Mutex
	start  time.Time
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	sched *ManualScheduler
	at    time.Duration
	seq   int
	f     func()
	done  bool
}

// NewManualScheduler creates a manual scheduler whose clock starts at start
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{start: start}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTimer{sched: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start.Add(s.now)
}

// Advance moves the clock forward by d, running due callbacks in deadline
// order. Callbacks run without the scheduler lock held and may schedule or
// stop other timers.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d

	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		next.done = true
		s.now = next.at
		s.mu.Unlock()
		next.f()
		s.mu.Lock()
	}

	s.now = target
	s.compact()
	s.mu.Unlock()
}

// Pending returns the number of timers that have neither fired nor been stopped
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.timers {
		if !t.done {
			count++
		}
	}
	return count
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	var next *manualTimer
	for _, t := range s.timers {
		if t.done || t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *ManualScheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	s.timers = live
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}
