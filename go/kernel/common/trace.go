package common

import (
	"fmt"
	"strings"
)

func hex(a uint64) string {
	return fmt.Sprintf("0x%x", a)
}

// Trace formats a call the way strace would.
func (s *Syscall) Trace(args *SystemArgs) string {
	n := len(s.In)
	if s.Raw {
		n = NumArgs
	}
	words := args.words(n)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = hex(w)
	}
	return fmt.Sprintf("%s#%d(%s)", s.Name, args.Number, strings.Join(out, ", "))
}
