package sim

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/kernel/devio"
	"github.com/lunixbochs/intrbox/go/mbox"
	"github.com/lunixbochs/intrbox/go/models"
)

type rig struct {
	out   *bytes.Buffer
	cfg   *models.Config
	m     *Machine
	sched *Scheduler
	k     *devio.Kernel
}

func newRig(t *testing.T) *rig {
	r := &rig{out: &bytes.Buffer{}}
	r.cfg = &models.Config{Output: r.out, TickInterval: time.Millisecond}
	r.cfg.Init()
	r.m = NewMachine(r.cfg)
	r.sched = NewScheduler()
	k, err := devio.New(r.cfg, r.m, r.sched, mbox.NewTable(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := k.Install(r.m); err != nil {
		t.Fatal(err)
	}
	r.k = k
	return r
}

func TestHooks(t *testing.T) {
	var h Hooks
	var results []string
	cb := func(name string) models.IntHandler {
		return func(dev models.DeviceClass, arg interface{}) {
			results = append(results, fmt.Sprintf("%s(%s, %v)", name, dev, arg))
		}
	}
	if n := h.OnIntr(models.DiskDev, 0); n != 0 {
		t.Fatalf("empty vector ran %d hooks", n)
	}
	a, err := h.HookAdd(models.DiskDev, cb("a"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.HookAdd(models.DiskDev, cb("b")); err != nil {
		t.Fatal(err)
	}
	h.OnIntr(models.DiskDev, 1)
	if err := h.HookDel(a); err != nil {
		t.Fatal(err)
	}
	if err := h.HookDel(a); err == nil {
		t.Fatal("deleting a removed hook should fail")
	}
	h.OnIntr(models.DiskDev, 2)
	want := []string{"a(disk, 1)", "b(disk, 1)", "b(disk, 2)"}
	if strings.Join(results, " ") != strings.Join(want, " ") {
		t.Fatalf("got %q, want %q", results, want)
	}
	if _, err := h.HookAdd(models.DeviceClass(9), cb("c")); err == nil {
		t.Fatal("HookAdd accepted an unknown class")
	}
	if err := h.SetHandler(models.DiskDev, cb("d")); err != nil {
		t.Fatal(err)
	}
	if n := h.OnIntr(models.DiskDev, 3); n != 1 {
		t.Fatalf("SetHandler left %d hooks", n)
	}
}

func TestRaiseWakesThread(t *testing.T) {
	r := newRig(t)
	th := r.sched.Spawn(context.Background(), "disk0", func(ctx context.Context) error {
		s, err := r.k.WaitDevice(ctx, models.DiskDev, 0)
		if err != nil {
			return err
		}
		if s != 7 {
			return errors.Errorf("status = %d, want 7", s)
		}
		return nil
	})
	deadline := time.Now().Add(5 * time.Second)
	for !r.k.AnyBlocked() {
		if time.Now().After(deadline) {
			t.Fatal("thread never blocked")
		}
		time.Sleep(time.Millisecond)
	}
	if err := r.m.SetStatus(models.DiskDev, 0, 7); err != nil {
		t.Fatal(err)
	}
	if err := r.m.Raise(models.DiskDev, 0); err != nil {
		t.Fatal(err)
	}
	if err := r.sched.Join(th.Pid); err != nil {
		t.Fatal(err)
	}
	if !r.m.InterruptsEnabled() {
		t.Fatal("interrupts left disabled after handler")
	}
}

func TestZapThread(t *testing.T) {
	r := newRig(t)
	th := r.sched.Spawn(context.Background(), "term1", func(ctx context.Context) error {
		_, err := r.k.WaitDevice(ctx, models.TermDev, 1)
		return err
	})
	deadline := time.Now().Add(5 * time.Second)
	for !r.k.AnyBlocked() {
		if time.Now().After(deadline) {
			t.Fatal("thread never blocked")
		}
		time.Sleep(time.Millisecond)
	}
	if err := r.sched.Zap(th.Pid); err != nil {
		t.Fatal(err)
	}
	if err := r.sched.Join(th.Pid); err != models.ErrInterrupted {
		t.Fatalf("zapped thread returned %v, want ErrInterrupted", err)
	}
	if r.k.AnyBlocked() {
		t.Fatal("blocked count not restored after zap")
	}
	if err := r.sched.Zap(99); err == nil {
		t.Fatal("Zap accepted an unknown pid")
	}
}

func TestSyscallHalts(t *testing.T) {
	r := newRig(t)
	_, err := r.m.Syscall(int32(r.cfg.MaxSyscalls))
	if h, ok := err.(models.HaltStatus); !ok || h != 1 {
		t.Fatalf("out of range syscall returned %v, want halt 1", err)
	}
	if !strings.Contains(r.out.String(), "is wrong") {
		t.Fatalf("missing diagnostic, console: %q", r.out.String())
	}
	if err := r.m.Raise(models.ClockDev, 0); errors.Cause(err) != models.ErrHalted {
		t.Fatalf("Raise after halt returned %v", err)
	}
}

func TestSyscallRegistered(t *testing.T) {
	r := newRig(t)
	err := r.k.Syscalls.Register(3, "add", func(a, b uint64) uint64 { return a + b })
	if err != nil {
		t.Fatal(err)
	}
	ret, err := r.m.Syscall(3, 40, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ret != 42 {
		t.Fatalf("syscall returned %d, want 42", ret)
	}
	if _, err := r.m.Syscall(3, 1, 2, 3, 4, 5, 6); err == nil {
		t.Fatal("Syscall accepted six argument words")
	}
}

func TestUserModeHalts(t *testing.T) {
	r := newRig(t)
	r.m.SetUserMode(true)
	if err := r.m.Raise(models.TermDev, 0); err != models.HaltStatus(1) {
		t.Fatalf("handler in user mode returned %v", err)
	}
	if code, ok := r.m.Halted(); !ok || code != 1 {
		t.Fatalf("Halted() = %d, %v", code, ok)
	}
}

func TestRunClock(t *testing.T) {
	r := newRig(t)
	th := r.sched.Spawn(context.Background(), "clock", func(ctx context.Context) error {
		_, err := r.k.WaitDevice(ctx, models.ClockDev, 0)
		return err
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.m.RunClock(ctx) }()
	if err := r.sched.Join(th.Pid); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if r.sched.Slices() < int64(r.cfg.ClockDivider) {
		t.Fatalf("only %d time slices before the clock notification", r.sched.Slices())
	}
}

func TestDeviceInputRange(t *testing.T) {
	r := newRig(t)
	if _, err := r.m.DeviceInput(models.DiskDev, 2); err != models.ErrDevInvalid {
		t.Fatalf("DeviceInput(disk, 2) err = %v", err)
	}
	if err := r.m.SetStatus(models.TermDev, 4, 1); errors.Cause(err) != models.ErrDevInvalid {
		t.Fatalf("SetStatus(term, 4) err = %v", err)
	}
}
