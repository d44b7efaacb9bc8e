package devio

import "sync/atomic"

// AnyBlocked reports whether a thread is parked in WaitDevice.
func (k *Kernel) AnyBlocked() bool {
	return atomic.LoadInt64(&k.blocked) > 0
}

// Blocked is the number of threads parked in WaitDevice.
func (k *Kernel) Blocked() int64 {
	return atomic.LoadInt64(&k.blocked)
}
