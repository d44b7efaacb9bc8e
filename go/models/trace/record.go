package trace

import (
	"github.com/lunixbochs/intrbox/go/models"
)

// Record is the on-disk form of a models.Event.
type Record struct {
	Kind   uint8
	Dev    uint8
	Unit   int16
	Status int32
	Tick   uint64
}

func NewRecord(ev models.Event) Record {
	return Record{
		Kind:   uint8(ev.Kind),
		Dev:    uint8(ev.Dev),
		Unit:   int16(ev.Unit),
		Status: int32(ev.Status),
		Tick:   ev.Tick,
	}
}

func (r Record) Event() models.Event {
	return models.Event{
		Kind:   models.EventKind(r.Kind),
		Dev:    models.DeviceClass(r.Dev),
		Unit:   int(r.Unit),
		Status: models.Status(r.Status),
		Tick:   r.Tick,
	}
}
