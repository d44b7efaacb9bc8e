package run

import (
	"context"
	"fmt"
	"os"
	"time"

	intrbox "github.com/lunixbochs/intrbox/go"
	"github.com/lunixbochs/intrbox/go/cmd"
)

func Main(args []string) {
	c := cmd.NewIntrCmd()
	waits := c.Flags.Int("waits", 10, "notifications each waiter thread collects")
	interval := c.Flags.Duration("every", 5*time.Millisecond, "device interrupt interval")
	zap := c.Flags.Duration("zap", 0, "zap remaining waiters after this long (0 disables)")
	timeout := c.Flags.Duration("timeout", time.Minute, "give up after this long")

	c.RunSystem = func(sys *intrbox.System) error {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		res, err := sys.Run(ctx, intrbox.Script{Waits: *waits, Interval: *interval, ZapAfter: *zap})
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, res)
		fmt.Fprintln(os.Stderr, sys.Stats)
		if sys.Kernel.AnyBlocked() {
			fmt.Fprintln(os.Stderr, "warning: threads still blocked")
		}
		return nil
	}
	c.Run(args)
}

func init() { cmd.Register("run", "run a scripted interrupt simulation", Main) }
