package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	intrbox "github.com/lunixbochs/intrbox/go"
	"github.com/lunixbochs/intrbox/go/models"
)

type IntrCmd struct {
	Config *models.Config

	SetupFlags func() error
	RunSystem  func(sys *intrbox.System) error
	Teardown   func()

	System *intrbox.System
	Flags  *flag.FlagSet
}

func NewIntrCmd() *IntrCmd {
	fs := flag.NewFlagSet("cli", flag.ExitOnError)
	return &IntrCmd{Flags: fs}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (c *IntrCmd) PrintError(err error) {
	// print an error, and a stacktrace if available
	fmt.Fprintf(os.Stderr, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if err, ok := err.(stackTracer); ok {
		// parse full path and method name for each stack frame
		var frames [][]string
		for _, f := range err.StackTrace() {
			fullpath := ""
			fileline := fmt.Sprintf("%s:%d", f, f)
			method := fmt.Sprintf("%n", f)

			frame := fmt.Sprintf("%+s", f)
			tmp := strings.SplitN(frame, "\n", 3)
			if len(tmp) == 2 {
				pathsplit := strings.Split(tmp[0], "/")
				method = pathsplit[len(pathsplit)-1]
				fullpath = strings.TrimSpace(tmp[1])
			}
			frames = append(frames, []string{fullpath, fileline, method})
			if method == "main.main" {
				break
			}
		}
		widths := make([]int, 2)
		for _, f := range frames {
			for i := 0; i < 2; i++ {
				if len(f[i]) > widths[i] {
					widths[i] = len(f[i])
				}
			}
		}
		for _, f := range frames {
			for i := 0; i < 2; i++ {
				if widths[i] > 0 {
					pad := strings.Repeat(" ", widths[i]-len(f[i]))
					fmt.Fprintf(os.Stderr, "%s%s | ", f[i], pad)
				}
			}
			fmt.Fprintf(os.Stderr, "%s()\n", f[2])
		}
	}
}

// loadConfig reads the config file and applies any flags that were set on
// the command line on top of it.
func (c *IntrCmd) loadConfig(path string, set map[string]func(*models.Config)) (*models.Config, error) {
	if path == "" {
		path = models.FindConfig()
	}
	config := &models.Config{}
	config.Init()
	if path != "" {
		var err error
		if config, err = models.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	c.Flags.Visit(func(f *flag.Flag) {
		if apply, ok := set[f.Name]; ok {
			apply(config)
		}
	})
	return config, nil
}

func (c *IntrCmd) Run(argv []string) {
	fs := c.Flags
	configPath := fs.String("config", "", "config file (default: "+models.ConfigName+" in the user config dir)")
	verbose := fs.Bool("v", false, "verbose handler output")
	color := fs.Bool("color", isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()), "colored output")
	disks := fs.Int("disks", 2, "number of disk units")
	terms := fs.Int("terms", 4, "number of terminal units")
	divider := fs.Int("divider", 5, "clock ticks per clock notification")
	slots := fs.Int("slots", 1, "slots per device mailbox")
	policy := fs.String("policy", models.PolicyOverwrite.String(), "full mailbox policy: overwrite or drop-newest")
	tick := fs.Duration("tick", 20*time.Millisecond, "clock interrupt interval")
	maxsys := fs.Int("maxsys", 50, "size of the syscall table")
	tracefile := fs.String("to", "", "binary interrupt trace output file")
	outfile := fs.String("o", "", "redirect kernel output to file (default stderr)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nOptions:\n", argv[0])
		fs.PrintDefaults()
	}
	if c.SetupFlags != nil {
		if err := c.SetupFlags(); err != nil {
			panic(err)
		}
	}
	fs.Parse(argv[1:])

	config, err := c.loadConfig(*configPath, map[string]func(*models.Config){
		"v":       func(c *models.Config) { c.Verbose = *verbose },
		"disks":   func(c *models.Config) { c.Units.Disk = *disks },
		"terms":   func(c *models.Config) { c.Units.Term = *terms },
		"divider": func(c *models.Config) { c.ClockDivider = *divider },
		"slots":   func(c *models.Config) { c.MailboxSlots = *slots },
		"policy":  func(c *models.Config) { c.DropPolicy = *policy },
		"tick":    func(c *models.Config) { c.TickInterval = *tick },
		"maxsys":  func(c *models.Config) { c.MaxSyscalls = *maxsys },
		"to":      func(c *models.Config) { c.Tracefile = *tracefile },
	})
	if err != nil {
		c.PrintError(err)
		os.Exit(1)
	}
	config.Color = *color
	if *outfile != "" {
		out, err := os.OpenFile(*outfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			c.PrintError(errors.Wrap(err, "opening output file"))
			os.Exit(1)
		}
		defer out.Close()
		config.Output = out
	} else if config.Color {
		config.Output = colorable.NewColorableStderr()
	}
	c.Config = config

	sys, err := intrbox.NewSystem(config)
	if err != nil {
		c.PrintError(err)
		os.Exit(1)
	}
	c.System = sys
	// won't run on os.Exit(), so it's manually run below
	teardown := func() {
		if err := sys.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing trace: %v\n", err)
		}
		if c.Teardown != nil {
			c.Teardown()
		}
	}

	if c.RunSystem != nil {
		err = c.RunSystem(sys)
	}
	teardown()
	if err != nil {
		if h, ok := errors.Cause(err).(models.HaltStatus); ok {
			os.Exit(int(h))
		}
		c.PrintError(err)
		os.Exit(1)
	}
}
