package commands

import (
	"github.com/activecm/xrootd-monitor/reporting"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{

		Name:  "html-report",
		Usage: "Create an html report of the latest acquired datasets",
		UsageText: "xrootd-monitor html-report [command-options] [instance...]\n\n" +
			"If no instance is specified, the report covers every configured instance.",
		Flags: []cli.Flag{
			configFlag,
			dirFlag,
			noBrowserFlag,
		},
		Action: func(c *cli.Context) error {
			res, repo, err := openRepository(c)
			if err != nil {
				return cli.NewExitError(err.Error(), -1)
			}
			defer res.Close()

			instances, err := selectInstances(res.Config, c.Args())
			if err != nil {
				return cli.NewExitError(err.Error(), -1)
			}

			_, err = reporting.PrintHTML(instances, c.String("directory"), repo,
				newArchive(res.Config), !c.Bool("no-browser"))
			if err != nil {
				return cli.NewExitError(err.Error(), -1)
			}
			return nil
		},
	}
	bootstrapCommands(command)
}
