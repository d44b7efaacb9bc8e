package devio

import (
	"github.com/lunixbochs/intrbox/go/kernel/common"
	"github.com/lunixbochs/intrbox/go/models"
)

// unitArg pulls a unit number out of an interrupt argument.
func unitArg(arg interface{}) (int, bool) {
	switch v := arg.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uintptr:
		return int(v), true
	}
	return 0, false
}

func (k *Kernel) ClockHandler(dev models.DeviceClass, arg interface{}) {
	defer k.mask("clockHandler2()")()
	k.debugf("clockHandler2(): called\n")
	if dev != models.ClockDev {
		k.debugf("clockHandler2(): called by other device, returning\n")
		k.emit(models.EvSpurious, dev, 0, 0)
		return
	}
	k.ticks++
	k.emit(models.EvTick, dev, 0, 0)

	k.clockCount++
	if k.clockCount >= k.cfg.ClockDivider {
		k.clockCount = 0
		k.notify(dev, 0)
	}
	k.sched.TimeSlice()
}

func (k *Kernel) DiskHandler(dev models.DeviceClass, arg interface{}) {
	defer k.mask("diskHandler()")()
	k.debugf("diskHandler(): called\n")
	k.unitInterrupt("diskHandler()", models.DiskDev, dev, arg)
}

func (k *Kernel) TermHandler(dev models.DeviceClass, arg interface{}) {
	defer k.mask("termHandler()")()
	k.debugf("termHandler(): called\n")
	k.unitInterrupt("termHandler()", models.TermDev, dev, arg)
}

// unitInterrupt is the shared body of the disk and terminal handlers.
func (k *Kernel) unitInterrupt(name string, want, dev models.DeviceClass, arg interface{}) {
	if dev != want {
		k.debugf("%s: called by other device, returning\n", name)
		k.emit(models.EvSpurious, dev, 0, 0)
		return
	}
	unit, ok := unitArg(arg)
	if !ok {
		k.debugf("%s: bad unit argument %v, returning\n", name, arg)
		k.emit(models.EvInvalidUnit, dev, -1, 0)
		return
	}
	k.notify(dev, unit)
}

// notify reads the unit's status and hands it to the unit's mailbox without
// blocking. Invalid units and full mailboxes are reported to the observer only.
func (k *Kernel) notify(dev models.DeviceClass, unit int) {
	status, err := k.m.DeviceInput(dev, unit)
	if err != nil {
		k.debugf("%s: unit number %d invalid, returning\n", dev, unit)
		k.emit(models.EvInvalidUnit, dev, unit, 0)
		return
	}
	id, err := k.Registry.Lookup(dev, unit)
	if err != nil {
		// the substrate knows more units than the table was sized for
		k.debugf("%s: %v, returning\n", dev, err)
		k.emit(models.EvInvalidUnit, dev, unit, status)
		return
	}
	res, err := k.boxes.CondSend(id, status)
	if err != nil {
		k.debugf("%s: send to mbox %d failed: %v\n", dev, id, err)
		res = models.Dropped
	}
	k.emit(models.SendEvent(res), dev, unit, status)
}

func (k *Kernel) SyscallHandler(dev models.DeviceClass, arg interface{}) {
	defer k.mask("syscallHandler()")()
	k.debugf("syscallHandler(): called\n")
	if dev != models.SyscallInt {
		k.debugf("sysCallHandler(): called by other device, returning\n")
		k.emit(models.EvSpurious, dev, 0, 0)
		return
	}
	args, ok := arg.(*common.SystemArgs)
	if !ok || args == nil {
		k.m.Console("syscallHandler(): bad argument block %T. Halting...\n", arg)
		k.m.Halt(1)
		return
	}
	k.emit(models.EvSyscall, dev, 0, models.Status(args.Number))
	if sys := k.Syscalls.Lookup(int(args.Number)); sys != nil {
		k.debugf("syscallHandler(): %s\n", sys.Trace(args))
	}
	k.Syscalls.Dispatch(args)
}
