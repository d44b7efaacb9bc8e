package common

import (
	"fmt"
	"reflect"

	"github.com/lunixbochs/argjoy"
	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
)

var sysArgsType = reflect.TypeOf(&SystemArgs{})

// Syscall is one dispatch table entry.
type Syscall struct {
	Name string
	Fn   reflect.Value
	In   []reflect.Type
	Out  []reflect.Type
	// Raw is set when Fn takes the *SystemArgs block itself.
	Raw bool
}

// Table maps syscall numbers to handlers. Unregistered numbers go to nullsys.
type Table struct {
	m       models.Machine
	entries []*Syscall
	conv    argjoy.Argjoy
}

func NewTable(m models.Machine, max int) *Table {
	t := &Table{m: m, entries: make([]*Syscall, max)}
	t.conv.Register(argCodec)
	t.conv.Register(argjoy.IntToInt)
	null := t.nullsys
	for i := range t.entries {
		t.entries[i] = &Syscall{
			Name: "nullsys",
			Fn:   reflect.ValueOf(null),
			In:   []reflect.Type{sysArgsType},
			Raw:  true,
		}
	}
	return t
}

func (t *Table) Len() int { return len(t.entries) }

// nullsys is the default entry for every unimplemented syscall.
func (t *Table) nullsys(args *SystemArgs) {
	t.m.Console("nullsys(): Invalid syscall %d. Halting...\n", args.Number)
	t.m.Halt(1)
}

// Register binds fn to a syscall number. fn may take *SystemArgs directly, or
// up to NumArgs parameters converted from the argument words. If fn's first
// result converts to uint64 it is written back to Args[0].
func (t *Table) Register(num int, name string, fn interface{}) error {
	if num < 0 || num >= len(t.entries) {
		return errors.Wrapf(ErrSyscallRange, "register %s(%d)", name, num)
	}
	val := reflect.ValueOf(fn)
	if !val.IsValid() || val.Kind() != reflect.Func {
		return errors.Wrapf(ErrBadHandler, "register %s: got %T", name, fn)
	}
	typ := val.Type()
	in := make([]reflect.Type, typ.NumIn())
	for i := range in {
		in[i] = typ.In(i)
	}
	out := make([]reflect.Type, typ.NumOut())
	for i := range out {
		out[i] = typ.Out(i)
	}
	raw := len(in) == 1 && in[0] == sysArgsType
	if !raw && len(in) > NumArgs {
		return errors.Errorf("register %s: %d parameters, max %d", name, len(in), NumArgs)
	}
	t.entries[num] = &Syscall{Name: name, Fn: val, In: in, Out: out, Raw: raw}
	return nil
}

// Lookup returns the entry for num, or nil if num is out of range.
func (t *Table) Lookup(num int) *Syscall {
	if num < 0 || num >= len(t.entries) {
		return nil
	}
	return t.entries[num]
}

// Dispatch runs the handler for args.Number. An out of range number halts the machine.
func (t *Table) Dispatch(args *SystemArgs) {
	sys := t.Lookup(int(args.Number))
	if sys == nil {
		t.m.Console("syscallHandler(): sys number %d is wrong.  Halting...\n", args.Number)
		t.m.Halt(1)
		return
	}
	sys.Call(&t.conv, args)
}

// Call a syscall entry. Will panic() if argument conversion fails.
func (sys *Syscall) Call(conv *argjoy.Argjoy, args *SystemArgs) {
	if sys.Raw {
		sys.Fn.Call([]reflect.Value{reflect.ValueOf(args)})
		return
	}
	converted, err := conv.Convert(sys.In, false, args.words(len(sys.In)))
	if err != nil {
		panic(fmt.Sprintf("calling %s(): %s", sys.Name, err))
	}
	out := sys.Fn.Call(converted)
	// return output if first return of function is representable as an int type
	Uint64Type := reflect.TypeOf(uint64(0))
	if len(out) > 0 && out[0].Type().ConvertibleTo(Uint64Type) {
		args.Args[0] = out[0].Convert(Uint64Type).Uint()
	}
}
