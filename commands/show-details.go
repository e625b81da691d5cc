package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/activecm/xrootd-monitor/pkg/xrootd"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "show-details",
		Usage:     "Print the per bin transfer details of an instance's latest dataset",
		ArgsUsage: "<instance>",
		Flags: []cli.Flag{
			humanFlag,
			datasetFlag,
			configFlag,
		},
		Action: showDetails,
	}

	bootstrapCommands(command)
}

func showDetails(c *cli.Context) error {
	instance := c.Args().Get(0)
	if instance == "" && c.String("dataset") == "" {
		return cli.NewExitError("Specify an instance", -1)
	}

	res, repo, err := openRepository(c)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	defer res.Close()

	var dataset *xrootd.Dataset
	if id := c.String("dataset"); id != "" {
		dataset, err = repo.FindDataset(id)
	} else {
		dataset, err = repo.LatestDataset(instance)
	}
	if errors.Is(err, xrootd.ErrNotFound) {
		return cli.NewExitError("No datasets were found for "+instance, -1)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	details, err := repo.FindDetails(dataset.ID)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	if c.Bool("human-readable") {
		fmt.Printf("%s (%s) acquired %s\n", dataset.Instance, dataset.TierName, t(dataset.Time))
		return showDetailsHuman(os.Stdout, details)
	}
	return showDetailsRaw(os.Stdout, details)
}

func detailHeaders() []string {
	return []string{"Date", "Rate (MB/s)", "Active", "Finished", "Running"}
}

func detailRow(d xrootd.Detail) []string {
	return []string{d.Date, f(d.Rate), f(d.Active), f(d.Finished), f(d.Running())}
}

func showDetailsHuman(w io.Writer, details []xrootd.Detail) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(detailHeaders())
	for _, d := range details {
		table.Append(detailRow(d))
	}
	table.Render()
	return nil
}

func showDetailsRaw(w io.Writer, details []xrootd.Detail) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Write(detailHeaders())
	for _, d := range details {
		csvWriter.Write(detailRow(d))
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
