package shell

import (
	intrbox "github.com/lunixbochs/intrbox/go"
	"github.com/lunixbochs/intrbox/go/cmd"
	"github.com/lunixbochs/intrbox/go/ui"
)

func Main(args []string) {
	c := cmd.NewIntrCmd()
	c.RunSystem = func(sys *intrbox.System) error {
		repl, err := ui.NewRepl(sys)
		if err != nil {
			return err
		}
		repl.Run()
		return nil
	}
	c.Run(args)
}

func init() { cmd.Register("shell", "interactive interrupt shell", Main) }
