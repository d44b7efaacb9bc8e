package devio

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
)

// Registry maps device addresses to mailboxes. It is read-only after NewRegistry.
type Registry struct {
	units models.Units
	base  [models.NumDeviceClasses]int
	ids   []models.MboxID
}

// NewRegistry creates one mailbox per device unit. Classes are laid out back
// to back in clock, disk, terminal order.
func NewRegistry(units models.Units, boxes models.Mailboxes, slots int, policy models.Policy) (*Registry, error) {
	r := &Registry{units: units}
	next := 0
	for _, dev := range []models.DeviceClass{models.ClockDev, models.DiskDev, models.TermDev} {
		r.base[dev] = next
		next += units.Count(dev)
	}
	r.ids = make([]models.MboxID, next)
	for i := range r.ids {
		id, err := boxes.Create(slots, policy)
		if err != nil {
			return nil, errors.Wrapf(err, "creating device mailbox %d", i)
		}
		r.ids[i] = id
	}
	return r, nil
}

func (r *Registry) index(dev models.DeviceClass, unit int) (int, error) {
	switch dev {
	case models.ClockDev, models.DiskDev, models.TermDev:
	default:
		return 0, errors.Wrapf(models.ErrInvalidAddress, "unknown device class %d", int(dev))
	}
	if unit < 0 || unit >= r.units.Count(dev) {
		return 0, errors.Wrapf(models.ErrInvalidAddress, "%s unit %d", dev, unit)
	}
	return r.base[dev] + unit, nil
}

// Lookup returns the mailbox for a device unit.
func (r *Registry) Lookup(dev models.DeviceClass, unit int) (models.MboxID, error) {
	i, err := r.index(dev, unit)
	if err != nil {
		return -1, err
	}
	return r.ids[i], nil
}

// Addresses lists every valid address in table order.
func (r *Registry) Addresses() []models.Address {
	out := make([]models.Address, 0, len(r.ids))
	for _, dev := range []models.DeviceClass{models.ClockDev, models.DiskDev, models.TermDev} {
		for unit := 0; unit < r.units.Count(dev); unit++ {
			out = append(out, models.Address{Dev: dev, Unit: unit})
		}
	}
	return out
}

func (r *Registry) Len() int { return len(r.ids) }
