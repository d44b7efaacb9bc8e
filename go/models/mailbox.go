package models

import "context"

type MboxID int

// Policy decides what a conditional send does when every slot is taken.
type Policy int

const (
	// PolicyOverwrite replaces the oldest pending message.
	PolicyOverwrite Policy = iota
	// PolicyDropNewest discards the message being sent.
	PolicyDropNewest
)

func (p Policy) String() string {
	switch p {
	case PolicyOverwrite:
		return "overwrite"
	case PolicyDropNewest:
		return "drop-newest"
	}
	return "unknown"
}

type SendResult int

const (
	Delivered SendResult = iota
	Replaced
	Dropped
)

func (r SendResult) String() string {
	switch r {
	case Delivered:
		return "delivered"
	case Replaced:
		return "replaced"
	case Dropped:
		return "dropped"
	}
	return "unknown"
}

// Mailboxes is the rendezvous primitive between interrupt and task context.
type Mailboxes interface {
	Create(slots int, policy Policy) (MboxID, error)
	// Send blocks until the message is queued or ctx is done.
	Send(ctx context.Context, id MboxID, msg Status) error
	// CondSend never blocks.
	CondSend(id MboxID, msg Status) (SendResult, error)
	// Receive blocks until a message arrives. It returns ErrZapped if ctx ends first.
	Receive(ctx context.Context, id MboxID) (Status, error)
	Pending(id MboxID) int
}
