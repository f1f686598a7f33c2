// Package sched runs time-based continuations on the game loop goroutine.
//
// Continuations are plain funcs queued with After and fired from Advance, which
// the loop calls once per tick. Nothing here blocks or spawns goroutines, and a
// scheduled continuation cannot be cancelled: callers that may outlive their
// target must validate it when the continuation fires.
package sched

import (
	"container/heap"
	"time"

	"github.com/eapache/queue"
)

type timer struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Scheduler keeps its own clock, advanced only by Advance.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
	ready  *queue.Queue
}

func New() *Scheduler {
	return &Scheduler{
		timers: make(timerHeap, 0, 64),
		ready:  queue.New(),
	}
}

// After queues fn to run once the clock has moved d past the current time.
// A non-positive d fires on the next Advance.
func (s *Scheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	heap.Push(&s.timers, &timer{at: s.now + d, seq: s.seq, fn: fn})
}

// Advance moves the clock by dt and runs every continuation that became due,
// in due-time order. Continuations queued while running wait for the next call.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt > 0 {
		s.now += dt
	}
	for len(s.timers) > 0 && s.timers[0].at <= s.now {
		s.ready.Add(heap.Pop(&s.timers).(*timer).fn)
	}
	fired := 0
	for s.ready.Length() > 0 {
		fn := s.ready.Remove().(func())
		fn()
		fired++
	}
	return fired
}

// Now is the scheduler clock.
func (s *Scheduler) Now() time.Duration { return s.now }

// Pending returns the number of continuations not yet fired.
func (s *Scheduler) Pending() int { return len(s.timers) }
