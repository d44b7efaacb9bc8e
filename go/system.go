package intrbox

import (
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/kernel/devio"
	"github.com/lunixbochs/intrbox/go/mbox"
	"github.com/lunixbochs/intrbox/go/models"
	"github.com/lunixbochs/intrbox/go/models/trace"
	"github.com/lunixbochs/intrbox/go/sim"
)

// System is a kernel wired to the simulated substrate.
type System struct {
	Config  *models.Config
	Machine *sim.Machine
	Sched   *sim.Scheduler
	Boxes   *mbox.Table
	Kernel  *devio.Kernel
	Stats   *devio.Stats

	trace *trace.TraceWriter
}

func NewSystem(config *models.Config) (*System, error) {
	config.Init()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &System{
		Config:  config,
		Machine: sim.NewMachine(config),
		Sched:   sim.NewScheduler(),
		Boxes:   mbox.NewTable(),
		Stats:   devio.NewStats(),
	}
	obs := models.Observers{s.Stats}
	if config.Tracefile != "" {
		f, err := os.Create(config.Tracefile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open trace file")
		}
		tw, err := trace.NewWriter(f, config)
		if err != nil {
			f.Close()
			return nil, err
		}
		s.trace = tw
		obs = append(obs, tw)
	}
	k, err := devio.New(config, s.Machine, s.Sched, s.Boxes, obs)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := k.Install(s.Machine); err != nil {
		s.Close()
		return nil, err
	}
	s.Kernel = k
	return s, nil
}

// Close flushes the trace file, if any.
func (s *System) Close() error {
	if s.trace != nil {
		err := s.trace.Close()
		s.trace = nil
		return err
	}
	return nil
}

// Interrupt loads a device status register and raises the device's interrupt.
func (s *System) Interrupt(dev models.DeviceClass, unit int, status models.Status) error {
	if err := s.Machine.SetStatus(dev, unit, status); err != nil {
		return err
	}
	return s.Machine.Raise(dev, unit)
}
