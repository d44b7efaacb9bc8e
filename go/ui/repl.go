package ui

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/shibukawa/configdir"

	intrbox "github.com/lunixbochs/intrbox/go"
)

type Repl struct {
	ctx *Context
	rl  *readline.Instance
}

type nullCloser struct{ io.Writer }

func (n *nullCloser) Close() error { return nil }

func NewRepl(sys *intrbox.System) (*Repl, error) {
	// get history path
	configDirs := configdir.New("intrbox", "shell")
	cacheDir := configDirs.QueryCacheFolder()
	historyPath := ""
	if err := cacheDir.MkdirAll(); err == nil {
		historyPath = filepath.Join(cacheDir.Path, "history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "intrbox> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		HistoryFile:     historyPath,
	})
	if err != nil {
		return nil, err
	}
	// kernel diagnostics go through readline so the prompt is redrawn
	sys.Config.Output = &nullCloser{rl.Stderr()}
	return &Repl{ctx: &Context{Writer: rl.Stderr(), Sys: sys}, rl: rl}, nil
}

// Run reads commands until EOF or quit.
func (r *Repl) Run() {
	defer r.Close()
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "quit" || line == "exit" {
			break
		}
		Exec(r.ctx, line)
	}
}

func (r *Repl) Close() {
	r.rl.Close()
}
