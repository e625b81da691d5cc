package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/activecm/xrootd-monitor/commands"
	"github.com/activecm/xrootd-monitor/config"
	"github.com/urfave/cli"
)

// Entry point of xrootd-monitor
func main() {
	app := cli.NewApp()
	app.Name = "xrootd-monitor"
	app.Usage = "Plot the transfer activity of XRootD instances."

	// Change the version string with updates so that a quick help command will
	// let operators know which version they're on
	app.Version = config.Version

	// Define commands used with this application
	app.Commands = commands.Commands()

	runtime.GOMAXPROCS(runtime.NumCPU())
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
