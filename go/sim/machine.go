// Package sim is a small simulated substrate: device status registers, a
// kernel/user mode bit, an interrupt mask, an interrupt vector and a clock.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mgutz/ansi"
	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/kernel/common"
	"github.com/lunixbochs/intrbox/go/models"
)

var haltColor = ansi.ColorFunc("red+b")
var consoleColor = ansi.ColorFunc("yellow")

type Machine struct {
	Hooks

	cfg *models.Config

	// intr serializes interrupt delivery
	intr sync.Mutex

	mu       sync.Mutex
	status   map[models.Address]models.Status
	userMode bool
	intrOn   bool
	halted   *models.HaltStatus
	raised   uint64
}

func NewMachine(cfg *models.Config) *Machine {
	return &Machine{
		cfg:    cfg,
		status: make(map[models.Address]models.Status),
		intrOn: true,
	}
}

func (m *Machine) validUnit(dev models.DeviceClass, unit int) bool {
	return unit >= 0 && unit < m.cfg.Units.Count(dev)
}

// SetStatus loads a device status register.
func (m *Machine) SetStatus(dev models.DeviceClass, unit int, s models.Status) error {
	if !m.validUnit(dev, unit) {
		return errors.Wrapf(models.ErrDevInvalid, "%s unit %d", dev, unit)
	}
	m.mu.Lock()
	m.status[models.Address{Dev: dev, Unit: unit}] = s
	m.mu.Unlock()
	return nil
}

func (m *Machine) DeviceInput(dev models.DeviceClass, unit int) (models.Status, error) {
	if !m.validUnit(dev, unit) {
		return 0, models.ErrDevInvalid
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status[models.Address{Dev: dev, Unit: unit}], nil
}

// Halt stops the machine. It never returns: the halt unwinds to Raise or to
// the thread that called it.
func (m *Machine) Halt(code int) {
	h := models.HaltStatus(code)
	m.mu.Lock()
	if m.halted == nil {
		m.halted = &h
	}
	m.mu.Unlock()
	if m.cfg.Verbose {
		m.Console("halt(%d)\n", code)
	}
	panic(h)
}

// Halted returns the halt code, if the machine has halted.
func (m *Machine) Halted() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.halted == nil {
		return 0, false
	}
	return int(*m.halted), true
}

func (m *Machine) Console(format string, a ...interface{}) {
	s := fmt.Sprintf(format, a...)
	if m.cfg.Color {
		if _, halting := m.Halted(); halting {
			s = haltColor(s)
		} else {
			s = consoleColor(s)
		}
	}
	fmt.Fprint(m.cfg.Output, s)
}

func (m *Machine) SetUserMode(user bool) {
	m.mu.Lock()
	m.userMode = user
	m.mu.Unlock()
}

func (m *Machine) RequireKernelMode(caller string) {
	m.mu.Lock()
	user := m.userMode
	m.mu.Unlock()
	if user {
		m.Console("%s: called while in user mode, by process. Halting...\n", caller)
		m.Halt(1)
	}
}

func (m *Machine) InterruptsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intrOn
}

func (m *Machine) DisableInterrupts() {
	m.mu.Lock()
	m.intrOn = false
	m.mu.Unlock()
}

func (m *Machine) EnableInterrupts() {
	m.mu.Lock()
	m.intrOn = true
	m.mu.Unlock()
}

// Raised is the number of interrupts delivered so far.
func (m *Machine) Raised() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raised
}

// Raise delivers one interrupt. Deliveries never overlap. A halt inside a
// handler comes back as a models.HaltStatus error, and every later Raise
// fails with models.ErrHalted.
func (m *Machine) Raise(dev models.DeviceClass, arg interface{}) (err error) {
	m.intr.Lock()
	defer m.intr.Unlock()
	if code, ok := m.Halted(); ok {
		return errors.Wrapf(models.ErrHalted, "halted with %d", code)
	}
	m.mu.Lock()
	m.raised++
	m.mu.Unlock()
	return CatchHalt(func() {
		if m.OnIntr(dev, arg) == 0 {
			m.Console("no handler for %s interrupt\n", dev)
		}
	})
}

// Syscall traps into the kernel with number num and up to five argument
// words, and returns the first result word.
func (m *Machine) Syscall(num int32, args ...uint64) (uint64, error) {
	sa := &common.SystemArgs{Number: num}
	if len(args) > common.NumArgs {
		return 0, errors.Errorf("syscall %d: too many arguments (%d)", num, len(args))
	}
	copy(sa.Args[:], args)
	if err := m.Raise(models.SyscallInt, sa); err != nil {
		return 0, err
	}
	return sa.Args[0], nil
}

// RunClock raises a clock interrupt every cfg.TickInterval until ctx is done
// or the machine halts.
func (m *Machine) RunClock(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.Raise(models.ClockDev, 0); err != nil {
				return err
			}
		}
	}
}

// CatchHalt runs fn and turns a halt panic into a models.HaltStatus error.
func CatchHalt(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if h, ok := r.(models.HaltStatus); ok {
				err = h
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}
