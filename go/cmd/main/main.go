package main

import (
	"github.com/lunixbochs/intrbox/go/cmd"

	_ "github.com/lunixbochs/intrbox/go/cmd/run"
	_ "github.com/lunixbochs/intrbox/go/cmd/shell"
	_ "github.com/lunixbochs/intrbox/go/cmd/trace"
)

func main() { cmd.Main() }
