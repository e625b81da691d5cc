package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/activecm/xrootd-monitor/pkg/xrootd"
	"github.com/activecm/xrootd-monitor/util"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "acquire",
		Usage: "Download, extract and plot the current transfer data of XRootD instances",
		UsageText: "xrootd-monitor acquire [command-options] [instance...]\n\n" +
			"If no instance is specified, every configured instance is acquired.",
		Flags: []cli.Flag{
			configFlag,
			threadsFlag,
		},
		Action: acquire,
	}

	bootstrapCommands(command)
}

func acquire(c *cli.Context) error {
	res, repo, err := openRepository(c)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	defer res.Close()

	instances, err := selectInstances(res.Config, c.Args())
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if len(instances) == 0 {
		return cli.NewExitError("No XRootD instances are configured", -1)
	}

	archive := newArchive(res.Config)
	var modules []*xrootd.Module
	for _, mod := range xrootd.NewModules(res.Config, repo, archive, res.Log) {
		if util.StringInSlice(mod.Instance(), instances) {
			modules = append(modules, mod)
		}
	}

	threads := c.Int("threads")
	if threads <= 0 {
		threads = res.Config.S.Acquisition.Threads
	}

	downloads := acquisition.NewDownloadService(
		res.Config.S.Acquisition.TmpPath, http.DefaultClient, res.Log,
	)

	start := time.Now()
	summary, err := xrootd.Acquire(context.Background(), modules, downloads, repo, res.Log,
		xrootd.AcquireOptions{
			Threads:         threads,
			DownloadTimeout: res.Config.S.Acquisition.DownloadTimeout,
		},
	)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	fmt.Printf("\t[-] Run %s finished in %s\n", summary.Run.ID.String(),
		util.FormatDuration(time.Since(start).Round(time.Millisecond)))
	for _, result := range summary.Results {
		if result.Err != nil {
			fmt.Printf("\t%s %s: %s\n", failStatus("[!]"), result.Instance, result.Err.Error())
			continue
		}
		fmt.Printf("\t%s %s: %s\n", okStatus("[+]"), result.Instance,
			archive.Locate(result.Dataset.Time, result.Dataset.RunID, result.Dataset.FilenamePlot))
	}

	if failed := summary.Failed(); failed > 0 {
		return cli.NewExitError(
			fmt.Sprintf("%d of %d instance(s) failed, see the log for details", failed, len(summary.Results)), -1,
		)
	}
	return nil
}
