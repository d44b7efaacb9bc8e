package intrbox

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lunixbochs/fvbommel-util/sortorder"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lunixbochs/intrbox/go/models"
	"github.com/lunixbochs/intrbox/go/sim"
)

// Script describes a batch simulation: one waiter thread per device unit,
// each waiting Waits times while the devices fire every Interval.
type Script struct {
	Waits    int
	Interval time.Duration
	// ZapAfter zaps every waiter still blocked after this long (0 disables).
	ZapAfter time.Duration
}

// Result summarizes a finished script.
type Result struct {
	Received    map[models.Address]int
	Interrupted int
	Slices      int64
	Blocked     int64
}

type waiterResult struct {
	addr        models.Address
	received    int
	interrupted bool
}

// Run drives the clock, the device generators and the waiter threads as one
// group. It returns once every waiter has finished or the machine halts.
func (s *System) Run(ctx context.Context, script Script) (*Result, error) {
	if script.Waits < 1 {
		return nil, errors.Errorf("script needs at least one wait, got %d", script.Waits)
	}
	if script.Interval <= 0 {
		script.Interval = s.Config.TickInterval
	}
	g, gctx := errgroup.WithContext(ctx)
	devCtx, stopDevices := context.WithCancel(gctx)
	defer stopDevices()

	addrs := s.Kernel.Registry.Addresses()
	results := make([]waiterResult, len(addrs))
	threads := make([]*sim.Thread, len(addrs))
	for i, a := range addrs {
		i, a := i, a
		results[i].addr = a
		threads[i] = s.Sched.Spawn(gctx, a.String(), func(ctx context.Context) error {
			for n := 0; n < script.Waits; n++ {
				if _, err := s.Kernel.WaitDevice(ctx, a.Dev, a.Unit); err != nil {
					if err == models.ErrInterrupted {
						results[i].interrupted = true
						return nil
					}
					return err
				}
				results[i].received++
			}
			return nil
		})
	}

	g.Go(func() error { return s.Machine.RunClock(devCtx) })
	for _, a := range addrs {
		if a.Dev == models.ClockDev {
			continue
		}
		a := a
		g.Go(func() error { return s.generate(devCtx, a, script.Interval) })
	}
	if script.ZapAfter > 0 {
		g.Go(func() error {
			select {
			case <-time.After(script.ZapAfter):
			case <-devCtx.Done():
				return nil
			}
			for _, t := range s.Sched.Threads() {
				s.Sched.Zap(t.Pid)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer stopDevices()
		for _, t := range threads {
			if err := s.Sched.Join(t.Pid); err != nil {
				return errors.Wrapf(err, "thread %d (%s)", t.Pid, t.Name)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Received: make(map[models.Address]int),
		Slices:   s.Sched.Slices(),
		Blocked:  s.Kernel.Blocked(),
	}
	for _, r := range results {
		res.Received[r.addr] = r.received
		if r.interrupted {
			res.Interrupted++
		}
	}
	return res, nil
}

// generate fires one device unit's interrupt every interval with an
// increasing status word.
func (s *System) generate(ctx context.Context, a models.Address, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var seq models.Status
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			seq++
			if err := s.Interrupt(a.Dev, a.Unit, seq); err != nil {
				return errors.Wrapf(err, "raising %s", a)
			}
		}
	}
}

func (r *Result) String() string {
	counts := make(map[string]int, len(r.Received))
	names := make([]string, 0, len(r.Received))
	for addr, n := range r.Received {
		counts[addr.String()] = n
		names = append(names, addr.String())
	}
	sort.Slice(names, func(i, j int) bool { return sortorder.NaturalLess(names[i], names[j]) })
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, counts[name])
	}
	return fmt.Sprintf("received: %s\ninterrupted: %d, time slices: %d, blocked: %d",
		strings.Join(parts, " "), r.Interrupted, r.Slices, r.Blocked)
}
