package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/activecm/xrootd-monitor/config"
	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/activecm/xrootd-monitor/pkg/xrootd"
	"github.com/activecm/xrootd-monitor/resources"
	"github.com/fatih/color"
	"github.com/urfave/cli"
)

var (
	allCommands []cli.Command

	// below are some prebuilt flags that get used often in various commands

	// configFlag allows users to specify an alternate config file to use
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Use a given `CONFIG_FILE` when running this command",
		Value: "",
	}

	threadsFlag = cli.IntFlag{
		Name:  "threads, t",
		Usage: "Run at most `N` instances at once, 0 uses the configured value",
		Value: 0,
	}

	humanFlag = cli.BoolFlag{
		Name:  "human-readable, H",
		Usage: "Print a report instead of csv",
	}

	dirFlag = cli.StringFlag{
		Name:  "directory, d",
		Usage: "Write the report into `DIR`",
		Value: "",
	}

	noBrowserFlag = cli.BoolFlag{
		Name:  "no-browser",
		Usage: "Do not open the report in a browser once written",
	}

	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "Write the report to `FILE`",
		Value: "xrootd-report.pdf",
	}

	datasetFlag = cli.StringFlag{
		Name:  "dataset",
		Usage: "Show the dataset with the given `ID` instead of the latest one",
		Value: "",
	}

	daysFlag = cli.IntFlag{
		Name:  "days",
		Usage: "Remove datasets older than `N` days",
		Value: 0,
	}

	forceFlag = cli.BoolFlag{
		Name:  "force, f",
		Usage: "Remove without asking for confirmation",
	}

	okStatus   = color.New(color.FgGreen).SprintFunc()
	warnStatus = color.New(color.FgYellow).SprintFunc()
	failStatus = color.New(color.FgRed, color.Bold).SprintFunc()
)

// bootstrapCommands simply adds a given command to the allCommands array
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}

// openRepository initializes the configured resources and the dataset store
// backing them. The caller must close the returned resources.
func openRepository(c *cli.Context) (*resources.Resources, xrootd.Repository, error) {
	res, err := resources.InitResources(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	repo := xrootd.NewRepository(res)
	if err := repo.CreateIndexes(); err != nil {
		res.Close()
		return nil, nil, err
	}
	return res, repo, nil
}

// newArchive returns the archive configured for the running system
func newArchive(conf *config.Config) *acquisition.Archive {
	return acquisition.NewArchive(conf.S.Acquisition.ArchivePath)
}

// selectInstances returns the requested instance names, or every configured
// instance when none were given. Unknown names are an error.
func selectInstances(conf *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		instances := make([]string, 0, len(conf.R.Modules))
		for _, mod := range conf.R.Modules {
			instances = append(instances, mod.InstanceName)
		}
		return instances, nil
	}

	var unknown []string
	for _, arg := range args {
		if _, ok := conf.R.FindModule(arg); !ok {
			unknown = append(unknown, arg)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown instance(s): %s", strings.Join(unknown, ", "))
	}
	return args, nil
}

// confirmAction asks the user to confirm an action on standard in
func confirmAction(confimationMessage string) bool {
	fmt.Printf("%s [y/N] ", confimationMessage)

	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// printWarning writes a highlighted status line to standard error
func printWarning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warnStatus("[!]"), msg)
}
