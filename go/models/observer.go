package models

type EventKind uint8

const (
	EvTick EventKind = iota + 1
	EvSpurious
	EvInvalidUnit
	EvDelivered
	EvReplaced
	EvDropped
	EvSyscall
)

var eventNames = map[EventKind]string{
	EvTick:        "tick",
	EvSpurious:    "spurious",
	EvInvalidUnit: "invalid-unit",
	EvDelivered:   "delivered",
	EvReplaced:    "replaced",
	EvDropped:     "dropped",
	EvSyscall:     "syscall",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event describes one thing an interrupt handler did.
type Event struct {
	Kind   EventKind
	Dev    DeviceClass
	Unit   int
	Status Status
	// Tick is the clock tick count when the event happened.
	Tick uint64
}

// Observer receives handler events. It is called from interrupt context and must not block.
type Observer interface {
	Interrupt(ev Event)
}

type Observers []Observer

func (o Observers) Interrupt(ev Event) {
	for _, v := range o {
		v.Interrupt(ev)
	}
}

// SendEvent maps a mailbox send result to the matching event kind.
func SendEvent(r SendResult) EventKind {
	switch r {
	case Replaced:
		return EvReplaced
	case Dropped:
		return EvDropped
	}
	return EvDelivered
}
