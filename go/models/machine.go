package models

import "context"

// Machine is the simulated hardware the kernel runs on.
type Machine interface {
	// DeviceInput reads the status register of a device unit.
	// Returns ErrDevInvalid if the unit does not exist.
	DeviceInput(dev DeviceClass, unit int) (Status, error)
	// Halt stops the machine. It does not return.
	Halt(code int)
	Console(format string, a ...interface{})

	// RequireKernelMode halts the machine if the caller is not in kernel mode.
	RequireKernelMode(caller string)
	InterruptsEnabled() bool
	DisableInterrupts()
	EnableInterrupts()
}

// Scheduler is the part of the process layer the I/O layer needs.
type Scheduler interface {
	// TimeSlice is the per-tick preemption check.
	TimeSlice()
	// IsZapped reports whether the thread owning ctx was terminated.
	IsZapped(ctx context.Context) bool
}
