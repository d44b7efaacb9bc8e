package models

import "github.com/pkg/errors"

var ErrInvalidAddress = errors.New("invalid device address")
var ErrDevInvalid = errors.New("device unit invalid")
var ErrInterrupted = errors.New("wait interrupted")
var ErrZapped = errors.New("receiver zapped")
var ErrNoMailbox = errors.New("no such mailbox")
var ErrHalted = errors.New("machine halted")
