package models

import "fmt"

// HaltStatus is the code a halted machine stopped with.
type HaltStatus int

func (h HaltStatus) Error() string {
	return fmt.Sprintf("halt %d", h)
}
