package devio

// mask disables interrupts and checks privilege for a handler body. The
// returned func restores the interrupt state seen on entry and must run on
// every exit path:
//
//	defer k.mask("diskHandler()")()
func (k *Kernel) mask(caller string) func() {
	wasOn := k.m.InterruptsEnabled()
	k.m.DisableInterrupts()
	k.m.RequireKernelMode(caller)
	return func() {
		if wasOn {
			k.m.EnableInterrupts()
		}
	}
}
