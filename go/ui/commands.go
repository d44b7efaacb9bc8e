package ui

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/lunixbochs/argjoy"
	"github.com/lunixbochs/fvbommel-util/sortorder"
	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
)

type Command struct {
	Name string
	Desc string
	Run  interface{}
}

var Commands = make(map[string]*Command)

func cmd(c *Command) *Command {
	fn := reflect.ValueOf(c.Run)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("Command.Run must be a func: got (%T) %#v\n", c.Run, c.Run))
	}
	Commands[c.Name] = c
	return c
}

var aj = argjoy.NewArgjoy()

func init() { aj.Register(shellCodec) }

// Exec runs one shell line. Command errors are printed, not returned.
func Exec(c *Context, line string) {
	args, err := shlex.Split(line)
	if err != nil {
		c.Printf("parse error: %v\n", err)
		return
	}
	if len(args) == 0 {
		return
	}
	name, args := args[0], args[1:]
	cmd, ok := Commands[name]
	if !ok {
		c.Printf("command not found: %s (try help)\n", name)
		return
	}
	out, err := aj.Call(cmd.Run, c, args)
	if err != nil {
		c.Printf("usage error: %v\n", err)
		return
	}
	if len(out) > 0 {
		if err, ok := out[0].(error); ok && err != nil {
			if h, ok := errors.Cause(err).(models.HaltStatus); ok {
				c.Printf("machine halted with status %d\n", int(h))
				return
			}
			c.Printf("error: %v\n", err)
		}
	}
}

var HelpCmd = cmd(&Command{
	Name: "help",
	Desc: "List commands.",
	Run: func(c *Context) {
		names := make([]string, 0, len(Commands))
		pad := 0
		for name := range Commands {
			names = append(names, name)
			if len(name) > pad {
				pad = len(name)
			}
		}
		sort.Slice(names, func(i, j int) bool { return sortorder.NaturalLess(names[i], names[j]) })
		for _, name := range names {
			c.Printf("  %-*s  %s\n", pad, name, Commands[name].Desc)
		}
	},
})

var TickCmd = cmd(&Command{
	Name: "tick",
	Desc: "Raise <n> clock interrupts.",
	Run: func(c *Context, n int) error {
		for i := 0; i < n; i++ {
			if err := c.Sys.Machine.Raise(models.ClockDev, 0); err != nil {
				return err
			}
		}
		c.Printf("%d time slices\n", c.Sys.Sched.Slices())
		return nil
	},
})

var RaiseCmd = cmd(&Command{
	Name: "raise",
	Desc: "Raise an interrupt: raise <clock|disk|term> <unit> <status>.",
	Run: func(c *Context, dev models.DeviceClass, unit int, status models.Status) error {
		return c.Sys.Interrupt(dev, unit, status)
	},
})

var DiskCmd = cmd(&Command{
	Name: "disk",
	Desc: "Complete a disk request: disk <unit> <status>.",
	Run: func(c *Context, unit int, status models.Status) error {
		return c.Sys.Interrupt(models.DiskDev, unit, status)
	},
})

var TermCmd = cmd(&Command{
	Name: "term",
	Desc: "Raise a terminal interrupt: term <unit> <status>.",
	Run: func(c *Context, unit int, status models.Status) error {
		return c.Sys.Interrupt(models.TermDev, unit, status)
	},
})

var WaitCmd = cmd(&Command{
	Name: "wait",
	Desc: "Spawn a thread that waits on a device: wait <class> <unit>.",
	Run: func(c *Context, dev models.DeviceClass, unit int) error {
		if _, err := c.Sys.Kernel.Registry.Lookup(dev, unit); err != nil {
			return err
		}
		name := models.Address{Dev: dev, Unit: unit}.String()
		t := c.Sys.Sched.Spawn(context.Background(), name, func(ctx context.Context) error {
			status, err := c.Sys.Kernel.WaitDevice(ctx, dev, unit)
			if err != nil {
				c.Printf("[%s] %v\n", name, err)
				return err
			}
			c.Printf("[%s] status %#x\n", name, uint32(status))
			return nil
		})
		c.Printf("pid %d waiting on %s\n", t.Pid, name)
		return nil
	},
})

var ZapCmd = cmd(&Command{
	Name: "zap",
	Desc: "Zap a thread: zap <pid>.",
	Run: func(c *Context, pid int) error {
		return c.Sys.Sched.Zap(pid)
	},
})

var ThreadsCmd = cmd(&Command{
	Name: "threads",
	Desc: "List live threads.",
	Run: func(c *Context) {
		threads := c.Sys.Sched.Threads()
		sort.Slice(threads, func(i, j int) bool { return threads[i].Pid < threads[j].Pid })
		for _, t := range threads {
			c.Printf("  %3d %s\n", t.Pid, t.Name)
		}
	},
})

var BlockedCmd = cmd(&Command{
	Name: "blocked",
	Desc: "Show how many threads are waiting on a device.",
	Run: func(c *Context) {
		c.Printf("%d blocked (any: %v)\n", c.Sys.Kernel.Blocked(), c.Sys.Kernel.AnyBlocked())
	},
})

var ChannelsCmd = cmd(&Command{
	Name: "channels",
	Desc: "Show device mailboxes; changed rows are marked.",
	Run: func(c *Context) {
		c.Printf("%s", c.channels.Diff(c.Sys.Kernel.Channels(), false, c.Sys.Config.Color))
	},
})

var SyscallCmd = cmd(&Command{
	Name: "syscall",
	Desc: "Trap into the kernel: syscall <num> [args...].",
	Run: func(c *Context, num int32, args ...uint64) error {
		ret, err := c.Sys.Machine.Syscall(num, args...)
		if err != nil {
			return err
		}
		c.Printf("= %#x\n", ret)
		return nil
	},
})

var StatsCmd = cmd(&Command{
	Name: "stats",
	Desc: "Show interrupt statistics.",
	Run: func(c *Context) {
		c.Printf("%s\n", c.Sys.Stats)
	},
})

var ModeCmd = cmd(&Command{
	Name: "mode",
	Desc: "Switch the processor mode: mode <kernel|user>.",
	Run: func(c *Context, mode string) error {
		switch strings.ToLower(mode) {
		case "kernel":
			c.Sys.Machine.SetUserMode(false)
		case "user":
			c.Sys.Machine.SetUserMode(true)
		default:
			return errors.Errorf("unknown mode %q", mode)
		}
		return nil
	},
})
