package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/earthengine/lincoln/internal/maincmd"
	"github.com/earthengine/lincoln/lang/program"
)

var (
	// placeholder values, replaced on build
	version   = "{v}" // must be N.N[.N]
	buildDate = "{d}" // must be YYYY-mm-DD
)

func main() {
	c := maincmd.Cmd{
		BuildVersion: version,
		BuildDate:    buildDate,
		Externs: func(stdio mainer.Stdio) []program.Extern {
			return demonstrationExterns(stdio.Stdout)
		},
	}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
