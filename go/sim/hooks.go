package sim

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
)

type Hook interface{}

type intrHook struct {
	dev models.DeviceClass
	cb  models.IntHandler
}

// Hooks is the interrupt vector. A class may have several hooks; they run in
// the order they were added.
type Hooks struct {
	intr [models.NumDeviceClasses][]*intrHook
}

func checkClass(dev models.DeviceClass) error {
	if dev < 0 || dev >= models.NumDeviceClasses {
		return errors.Errorf("unknown interrupt class %d", int(dev))
	}
	return nil
}

func (h *Hooks) HookAdd(dev models.DeviceClass, cb models.IntHandler) (Hook, error) {
	if err := checkClass(dev); err != nil {
		return nil, err
	}
	if cb == nil {
		return nil, errors.New("nil interrupt hook")
	}
	hh := &intrHook{dev, cb}
	h.intr[dev] = append(h.intr[dev], hh)
	return hh, nil
}

func (h *Hooks) HookDel(hh Hook) error {
	ih, ok := hh.(*intrHook)
	if !ok {
		return errors.Errorf("not an interrupt hook: %T", hh)
	}
	var tmp []*intrHook
	found := false
	for _, v := range h.intr[ih.dev] {
		if v != ih {
			tmp = append(tmp, v)
		} else {
			found = true
		}
	}
	if !found {
		return errors.New("hook not installed")
	}
	h.intr[ih.dev] = tmp
	return nil
}

// SetHandler replaces every hook for dev with h.
func (h *Hooks) SetHandler(dev models.DeviceClass, cb models.IntHandler) error {
	if err := checkClass(dev); err != nil {
		return err
	}
	h.intr[dev] = nil
	_, err := h.HookAdd(dev, cb)
	return err
}

// OnIntr runs the hooks for dev and returns how many ran.
func (h *Hooks) OnIntr(dev models.DeviceClass, arg interface{}) int {
	if checkClass(dev) != nil {
		return 0
	}
	hooks := h.intr[dev]
	for _, v := range hooks {
		v.cb(dev, arg)
	}
	return len(hooks)
}
