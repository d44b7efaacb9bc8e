package common

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
	"github.com/lunixbochs/intrbox/go/models/mock"
)

func newTable(max int) (*mock.Machine, *Table) {
	m := mock.NewMachine(models.Units{Clock: 1, Disk: 2, Term: 4})
	return m, NewTable(m, max)
}

func TestDispatchOutOfRangeHalts(t *testing.T) {
	m, tab := newTable(50)
	for _, num := range []int32{-1, 50, 1 << 20} {
		code := mock.CatchHalt(func() { tab.Dispatch(&SystemArgs{Number: num}) })
		if code != 1 {
			t.Fatalf("Dispatch(%d) halt code = %d, want 1", num, code)
		}
	}
	if len(m.Lines) != 3 {
		t.Fatalf("expected 3 console lines, got %d", len(m.Lines))
	}
}

func TestDispatchReachesNullsys(t *testing.T) {
	m, tab := newTable(50)
	for num := 0; num < tab.Len(); num++ {
		m.Lines = nil
		code := mock.CatchHalt(func() { tab.Dispatch(&SystemArgs{Number: int32(num)}) })
		if code != 1 {
			t.Fatalf("Dispatch(%d) halt code = %d, want 1", num, code)
		}
		if len(m.Lines) != 1 || m.Lines[0] != fmt.Sprintf("nullsys(): Invalid syscall %d. Halting...\n", num) {
			t.Fatalf("Dispatch(%d) did not reach nullsys: %q", num, m.Lines)
		}
	}
}

func TestRegisterRaw(t *testing.T) {
	_, tab := newTable(8)
	var seen int32
	if err := tab.Register(3, "raw", func(a *SystemArgs) { seen = a.Number; a.Args[1] = 9 }); err != nil {
		t.Fatal(err)
	}
	args := &SystemArgs{Number: 3}
	tab.Dispatch(args)
	if seen != 3 || args.Args[1] != 9 {
		t.Fatalf("raw handler not called correctly: seen=%d args=%v", seen, args.Args)
	}
}

func TestRegisterTyped(t *testing.T) {
	_, tab := newTable(8)
	var gotUnit int
	var gotFlag bool
	err := tab.Register(4, "typed", func(unit int, flag bool) int64 {
		gotUnit, gotFlag = unit, flag
		return 44
	})
	if err != nil {
		t.Fatal(err)
	}
	args := &SystemArgs{Number: 4, Args: [NumArgs]uint64{2, 1}}
	tab.Dispatch(args)
	if gotUnit != 2 || !gotFlag {
		t.Fatalf("typed handler got unit=%d flag=%v", gotUnit, gotFlag)
	}
	if args.Args[0] != 44 {
		t.Fatalf("return value not written back: %d", args.Args[0])
	}
	if s := tab.Lookup(4).Trace(&SystemArgs{Number: 4, Args: [NumArgs]uint64{2, 1}}); s != "typed#4(0x2, 0x1)" {
		t.Fatalf("Trace() = %q", s)
	}
}

func TestRegisterErrors(t *testing.T) {
	_, tab := newTable(8)
	if err := tab.Register(8, "x", func() {}); errors.Cause(err) != ErrSyscallRange {
		t.Fatalf("Register(8) err = %v", err)
	}
	if err := tab.Register(1, "x", 5); errors.Cause(err) != ErrBadHandler {
		t.Fatalf("Register(non-func) err = %v", err)
	}
	if err := tab.Register(1, "x", func(a, b, c, d, e, f int) {}); err == nil {
		t.Fatal("Register() accepted 6 parameters")
	}
}
