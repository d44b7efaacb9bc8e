package common

import "github.com/pkg/errors"

var ErrSyscallRange = errors.New("syscall number out of range")
var ErrBadHandler = errors.New("syscall handler must be a func")
