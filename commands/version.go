package commands

import (
	"fmt"

	"github.com/activecm/xrootd-monitor/config"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:   "version",
		Usage:  "Show xrootd-monitor version",
		Action: showVersion,
	}

	bootstrapCommands(command)
}

func showVersion(c *cli.Context) error {
	fmt.Println(config.Version)
	if config.ExactVersion != config.Version {
		fmt.Println(config.ExactVersion)
	}
	return nil
}
