// Package devio turns device interrupts into mailbox notifications and lets
// kernel threads wait for them.
package devio

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/kernel/common"
	"github.com/lunixbochs/intrbox/go/models"
)

type Kernel struct {
	// first for 64-bit alignment
	blocked int64

	cfg   *models.Config
	m     models.Machine
	sched models.Scheduler
	boxes models.Mailboxes
	obs   models.Observer

	Registry *Registry
	Syscalls *common.Table

	// only touched by ClockHandler, which never runs concurrently with itself
	clockCount int
	ticks      uint64
}

// New builds the device mailboxes and the syscall table. obs may be nil.
func New(cfg *models.Config, m models.Machine, sched models.Scheduler, boxes models.Mailboxes, obs models.Observer) (*Kernel, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	reg, err := NewRegistry(cfg.Units, boxes, cfg.MailboxSlots, policy)
	if err != nil {
		return nil, err
	}
	if obs == nil {
		obs = models.Observers(nil)
	}
	return &Kernel{
		cfg:      cfg,
		m:        m,
		sched:    sched,
		boxes:    boxes,
		obs:      obs,
		Registry: reg,
		Syscalls: common.NewTable(m, cfg.MaxSyscalls),
	}, nil
}

// Install points the substrate's interrupt vector at the kernel handlers.
func (k *Kernel) Install(vec models.Vector) error {
	handlers := map[models.DeviceClass]models.IntHandler{
		models.ClockDev:   k.ClockHandler,
		models.DiskDev:    k.DiskHandler,
		models.TermDev:    k.TermHandler,
		models.SyscallInt: k.SyscallHandler,
	}
	for _, dev := range []models.DeviceClass{models.ClockDev, models.DiskDev, models.TermDev, models.SyscallInt} {
		if err := vec.SetHandler(dev, handlers[dev]); err != nil {
			return errors.Wrapf(err, "installing %s handler", dev)
		}
	}
	return nil
}

// Channels snapshots mailbox occupancy for every device address.
func (k *Kernel) Channels() []models.ChannelState {
	addrs := k.Registry.Addresses()
	out := make([]models.ChannelState, 0, len(addrs))
	for _, a := range addrs {
		id, _ := k.Registry.Lookup(a.Dev, a.Unit)
		out = append(out, models.ChannelState{Addr: a, ID: id, Pending: k.boxes.Pending(id)})
	}
	return out
}

func (k *Kernel) debugf(format string, a ...interface{}) {
	if k.cfg.Verbose {
		k.m.Console(format, a...)
	}
}

func (k *Kernel) emit(kind models.EventKind, dev models.DeviceClass, unit int, status models.Status) {
	k.obs.Interrupt(models.Event{Kind: kind, Dev: dev, Unit: unit, Status: status, Tick: k.ticks})
}
