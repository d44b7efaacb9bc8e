package common

// NumArgs is the number of argument words in a syscall trap.
const NumArgs = 5

// SystemArgs is the block a trapping process hands to the syscall handler.
// Handlers return results by overwriting Args.
type SystemArgs struct {
	Number int32
	Args   [NumArgs]uint64
}

func (a *SystemArgs) words(n int) []uint64 {
	if n > NumArgs {
		n = NumArgs
	}
	return a.Args[:n]
}
