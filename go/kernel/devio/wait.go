package devio

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
)

// WaitDevice blocks the calling thread until the next notification for the
// given device unit. It returns models.ErrInterrupted if the thread was zapped
// while waiting; the status is meaningless in that case.
func (k *Kernel) WaitDevice(ctx context.Context, dev models.DeviceClass, unit int) (models.Status, error) {
	k.m.RequireKernelMode("waitDevice()")
	id, err := k.Registry.Lookup(dev, unit)
	if err != nil {
		k.m.Console("waitDevice(): %v. Halting...\n", err)
		k.m.Halt(1)
		return 0, err
	}

	atomic.AddInt64(&k.blocked, 1)
	status, err := k.boxes.Receive(ctx, id)
	atomic.AddInt64(&k.blocked, -1)

	if k.sched.IsZapped(ctx) || errors.Cause(err) == models.ErrZapped {
		return 0, models.ErrInterrupted
	}
	if err != nil {
		return 0, errors.Wrapf(err, "waitDevice(%s, %d)", dev, unit)
	}
	return status, nil
}
