package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/lunixbochs/intrbox/go/models"
)

// Machine is a scripted models.Machine. Halt panics with models.HaltStatus.
type Machine struct {
	sync.Mutex
	Units    models.Units
	Statuses map[models.Address]models.Status
	UserMode bool
	Masked   bool
	Lines    []string

	Halts       []int
	Disables    int
	Enables     int
	StatusReads int
}

func NewMachine(units models.Units) *Machine {
	return &Machine{Units: units, Statuses: make(map[models.Address]models.Status)}
}

func (m *Machine) SetStatus(dev models.DeviceClass, unit int, s models.Status) {
	m.Lock()
	m.Statuses[models.Address{Dev: dev, Unit: unit}] = s
	m.Unlock()
}

func (m *Machine) DeviceInput(dev models.DeviceClass, unit int) (models.Status, error) {
	m.Lock()
	defer m.Unlock()
	m.StatusReads++
	if unit < 0 || unit >= m.Units.Count(dev) {
		return 0, models.ErrDevInvalid
	}
	return m.Statuses[models.Address{Dev: dev, Unit: unit}], nil
}

func (m *Machine) Halt(code int) {
	m.Lock()
	m.Halts = append(m.Halts, code)
	m.Unlock()
	panic(models.HaltStatus(code))
}

func (m *Machine) Console(format string, a ...interface{}) {
	m.Lock()
	m.Lines = append(m.Lines, fmt.Sprintf(format, a...))
	m.Unlock()
}

func (m *Machine) RequireKernelMode(caller string) {
	m.Lock()
	user := m.UserMode
	m.Unlock()
	if user {
		m.Console("%s: called while in user mode. Halting...\n", caller)
		m.Halt(1)
	}
}

func (m *Machine) InterruptsEnabled() bool {
	m.Lock()
	defer m.Unlock()
	return !m.Masked
}

func (m *Machine) DisableInterrupts() {
	m.Lock()
	m.Masked = true
	m.Disables++
	m.Unlock()
}

func (m *Machine) EnableInterrupts() {
	m.Lock()
	m.Masked = false
	m.Enables++
	m.Unlock()
}

// Scheduler counts time slices. Threads are zapped by cancelling their context.
type Scheduler struct {
	sync.Mutex
	Slices int
}

func (s *Scheduler) TimeSlice() {
	s.Lock()
	s.Slices++
	s.Unlock()
}

func (s *Scheduler) IsZapped(ctx context.Context) bool {
	return ctx.Err() != nil
}

// Recorder is an Observer that keeps every event.
type Recorder struct {
	sync.Mutex
	Events []models.Event
}

func (r *Recorder) Interrupt(ev models.Event) {
	r.Lock()
	r.Events = append(r.Events, ev)
	r.Unlock()
}

func (r *Recorder) Count(kind models.EventKind) int {
	r.Lock()
	defer r.Unlock()
	n := 0
	for _, ev := range r.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// CatchHalt runs fn and returns the halt code it panicked with, or -1.
func CatchHalt(fn func()) (code int) {
	code = -1
	defer func() {
		if r := recover(); r != nil {
			if h, ok := r.(models.HaltStatus); ok {
				code = int(h)
				return
			}
			panic(r)
		}
	}()
	fn()
	return
}
