package sim

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Thread is a kernel thread. Its context is cancelled when it is zapped.
type Thread struct {
	Pid  int
	Name string

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Done is closed when the thread returns.
func (t *Thread) Done() <-chan struct{} { return t.done }

// Err is the thread's result. Only valid after Done is closed.
func (t *Thread) Err() error { return t.err }

// Scheduler runs threads as goroutines and counts time slices.
type Scheduler struct {
	slices int64

	mu      sync.Mutex
	nextPid int
	threads map[int]*Thread
	wg      sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{nextPid: 1, threads: make(map[int]*Thread)}
}

func (s *Scheduler) TimeSlice() {
	atomic.AddInt64(&s.slices, 1)
}

func (s *Scheduler) Slices() int64 {
	return atomic.LoadInt64(&s.slices)
}

func (s *Scheduler) IsZapped(ctx context.Context) bool {
	return ctx.Err() != nil
}

// Spawn starts fn as a new thread. A halt inside fn ends the thread with a
// models.HaltStatus error.
func (s *Scheduler) Spawn(parent context.Context, name string, fn func(ctx context.Context) error) *Thread {
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	t := &Thread{Pid: s.nextPid, Name: name, ctx: ctx, cancel: cancel, done: make(chan struct{})}
	s.nextPid++
	s.threads[t.Pid] = t
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(t.done)
		defer cancel()
		var ret error
		if err := CatchHalt(func() { ret = fn(ctx) }); err != nil {
			ret = err
		}
		t.err = ret
	}()
	return t
}

func (s *Scheduler) Thread(pid int) (*Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[pid]
	return t, ok
}

// Threads lists live threads.
func (s *Scheduler) Threads() []*Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Thread
	for _, t := range s.threads {
		select {
		case <-t.done:
		default:
			out = append(out, t)
		}
	}
	return out
}

// Zap marks a thread for termination. A thread blocked in WaitDevice wakes up
// with models.ErrInterrupted.
func (s *Scheduler) Zap(pid int) error {
	t, ok := s.Thread(pid)
	if !ok {
		return errors.Errorf("zap: no such pid %d", pid)
	}
	t.cancel()
	return nil
}

// Join waits for a thread and returns its result.
func (s *Scheduler) Join(pid int) error {
	t, ok := s.Thread(pid)
	if !ok {
		return errors.Errorf("join: no such pid %d", pid)
	}
	<-t.done
	return t.err
}

// Wait blocks until every spawned thread has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
