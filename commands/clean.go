package commands

import (
	"fmt"
	"time"

	"github.com/urfave/cli"
)

func init() {
	clean := cli.Command{
		Name:  "clean",
		Usage: "Removes old datasets, their details and their archived plots. Prompts before deleting unless --force is provided.",
		Flags: []cli.Flag{
			configFlag,
			daysFlag,
			forceFlag,
		},
		Action: cleanDatasets,
	}

	bootstrapCommands(clean)
}

// cleanDatasets removes every dataset acquired more than --days days ago
func cleanDatasets(c *cli.Context) error {
	days := c.Int("days")
	if days <= 0 {
		return cli.NewExitError("Specify the number of days to keep with --days", -1)
	}

	res, repo, err := openRepository(c)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	defer res.Close()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	if !c.Bool("force") &&
		!confirmAction(fmt.Sprintf("\t[?] Confirm we'll be deleting datasets acquired before %s", t(cutoff))) {
		fmt.Print("Clean aborted: Nothing was removed.\n")
		return nil
	}

	removed, err := repo.RemoveDatasetsBefore(cutoff)
	if err != nil {
		fmt.Print("Clean failed: Failed to remove datasets.\n")
		return cli.NewExitError(err.Error(), -1)
	}

	if len(removed) == 0 {
		fmt.Print("Clean successful: Nothing to remove.\n")
		return nil
	}

	archive := newArchive(res.Config)
	for _, dataset := range removed {
		fmt.Printf("\t[-] %s %s acquired %s\n", dataset.Instance, dataset.ID, t(dataset.Time))
		err := archive.Remove(dataset.Time, dataset.RunID, dataset.FilenamePlot)
		if err != nil {
			printWarning("Failed to remove plot of " + dataset.ID + ": " + err.Error())
		}
	}

	fmt.Printf("Clean successful: Removed %d dataset(s).\n", len(removed))
	return nil
}
