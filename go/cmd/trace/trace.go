package trace

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lunixbochs/intrbox/go/cmd"
	"github.com/lunixbochs/intrbox/go/models"
	"github.com/lunixbochs/intrbox/go/models/trace"
)

func dump(path string, only string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	tf, err := trace.NewReader(f)
	if err != nil {
		return err
	}
	defer tf.Close()
	h := tf.Header
	fmt.Printf("# units clock=%d disk=%d term=%d divider=%d policy=%s\n",
		h.ClockUnits, h.DiskUnits, h.TermUnits, h.ClockDivider, models.Policy(h.Policy))
	for {
		ev, err := tf.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if only != "" && ev.Kind.String() != only {
			continue
		}
		fmt.Printf("%8d %-12s %s%d status=%#x\n", ev.Tick, ev.Kind, ev.Dev, ev.Unit, uint32(ev.Status))
	}
}

func Main(args []string) {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	only := fs.String("kind", "", "only show events of this kind (tick, delivered, dropped, ...)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <tracefile>\n", args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	if err := dump(fs.Arg(0), *only); err != nil {
		cmd.NewIntrCmd().PrintError(err)
		os.Exit(1)
	}
}

func init() { cmd.Register("trace", "dump an interrupt trace file", Main) }
