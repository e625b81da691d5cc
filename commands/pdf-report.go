package commands

import (
	"fmt"

	"github.com/activecm/xrootd-monitor/reporting"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "pdf-report",
		Usage: "Create a pdf report of the latest acquired datasets",
		UsageText: "xrootd-monitor pdf-report [command-options] [instance...]\n\n" +
			"If no instance is specified, the report covers every configured instance.",
		Flags: []cli.Flag{
			configFlag,
			outputFlag,
		},
		Action: pdfReport,
	}
	bootstrapCommands(command)
}

func pdfReport(c *cli.Context) error {
	res, repo, err := openRepository(c)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	defer res.Close()

	instances, err := selectInstances(res.Config, c.Args())
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	out := c.String("output")
	err = reporting.PrintPDF(instances, out, repo, newArchive(res.Config))
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	fmt.Printf("%s Wrote %s\n", okStatus("[+]"), out)
	return nil
}
