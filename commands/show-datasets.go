package commands

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/activecm/xrootd-monitor/pkg/xrootd"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "show-datasets",
		Usage:     "Print the datasets acquired for an instance",
		ArgsUsage: "[instance]",
		Flags: []cli.Flag{
			humanFlag,
			configFlag,
		},
		Action: showDatasets,
	}

	bootstrapCommands(command)
}

func showDatasets(c *cli.Context) error {
	res, repo, err := openRepository(c)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	defer res.Close()

	data, err := repo.FindDatasets(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if len(data) == 0 {
		return cli.NewExitError("No datasets were found", -1)
	}

	if c.Bool("human-readable") {
		return showDatasetsHuman(os.Stdout, data)
	}
	return showDatasetsRaw(os.Stdout, data)
}

func datasetHeaders() []string {
	return []string{"ID", "Instance", "Run", "Time", "Tier", "Plot", "Source"}
}

func datasetRow(d xrootd.Dataset) []string {
	return []string{d.ID, d.Instance, d.RunID, t(d.Time), d.TierName, d.FilenamePlot, d.SourceURL}
}

func showDatasetsHuman(w io.Writer, data []xrootd.Dataset) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(datasetHeaders())
	for _, d := range data {
		table.Append(datasetRow(d))
	}
	table.Render()
	return nil
}

func showDatasetsRaw(w io.Writer, data []xrootd.Dataset) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Write(datasetHeaders())
	for _, d := range data {
		csvWriter.Write(datasetRow(d))
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
