package xrootd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/activecm/xrootd-monitor/util"
	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
)

type (
	//InstanceResult is the outcome of one module in a run
	InstanceResult struct {
		Instance string
		Dataset  *Dataset
		Err      error
	}

	//Summary collects the outcome of every module in a run
	Summary struct {
		Run     acquisition.Run
		Results []InstanceResult
	}

	//AcquireOptions tunes an acquisition run
	AcquireOptions struct {
		Threads         int
		DownloadTimeout time.Duration
		Progress        io.Writer // defaults to stdout
	}

	cycleJob struct {
		index  int
		module *Module
	}

	//cycler runs the modules' acquisition cycles on a pool of goroutines
	cycler struct {
		run            acquisition.Run
		repo           Repository
		log            *log.Logger
		doneCallback   func(int, InstanceResult) // called with each finished cycle
		closedCallback func()                    // called once all cycles finished
		cycleChannel   chan cycleJob
		cycleWg        sync.WaitGroup
	}
)

//Failed returns the number of modules whose cycle failed
func (s *Summary) Failed() int {
	failed := 0
	for _, res := range s.Results {
		if res.Err != nil {
			failed++
		}
	}
	return failed
}

//Acquire runs one acquisition cycle for every module. The error is only
//set when the run could not start. Per module failures are reported in
//the summary.
func Acquire(ctx context.Context, modules []*Module, downloads *acquisition.DownloadService,
	repo Repository, logger *log.Logger, opts AcquireOptions) (*Summary, error) {

	if err := repo.CreateIndexes(); err != nil {
		return nil, fmt.Errorf("failed to prepare tables: %w", err)
	}

	summary := &Summary{
		Run:     acquisition.NewRun(),
		Results: make([]InstanceResult, len(modules)),
	}
	logger.WithFields(log.Fields{
		"run":     summary.Run.ID.String(),
		"modules": len(modules),
	}).Info("starting acquisition")

	for _, m := range modules {
		m.PrepareAcquisition(downloads)
	}
	defer downloads.Cleanup()

	fetchCtx := ctx
	if opts.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, opts.DownloadTimeout)
		defer cancel()
	}
	failedDownloads, err := downloads.Fetch(fetchCtx)
	if err != nil {
		return nil, err
	}
	if failedDownloads > 0 {
		logger.WithFields(log.Fields{
			"failed": failedDownloads,
		}).Warn("some downloads failed")
	}

	progress := opts.Progress
	if progress == nil {
		progress = os.Stdout
	}
	p := mpb.New(mpb.WithWidth(20), mpb.WithOutput(progress))
	bar := p.AddBar(int64(len(modules)),
		mpb.PrependDecorators(
			decor.Name("\t[-] Acquiring XRootD instances:", decor.WC{W: 34, C: decor.DidentRight}),
			decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	worker := newCycler(summary.Run, repo, logger,
		func(index int, res InstanceResult) {
			summary.Results[index] = res
			bar.Increment()
		},
		func() {},
	)

	for i := 0; i < util.Max(1, util.Min(opts.Threads, len(modules))); i++ {
		worker.start()
	}
	for i, m := range modules {
		worker.collect(cycleJob{index: i, module: m})
	}
	worker.close()
	p.Wait()

	logger.WithFields(log.Fields{
		"run":    summary.Run.ID.String(),
		"failed": summary.Failed(),
	}).Info("finished acquisition")
	return summary, nil
}

func newCycler(run acquisition.Run, repo Repository, logger *log.Logger,
	doneCallback func(int, InstanceResult), closedCallback func()) *cycler {
	return &cycler{
		run:            run,
		repo:           repo,
		log:            logger,
		doneCallback:   doneCallback,
		closedCallback: closedCallback,
		cycleChannel:   make(chan cycleJob),
	}
}

//collect hands a module to the next free goroutine
func (c *cycler) collect(job cycleJob) {
	c.cycleChannel <- job
}

//close waits for the running cycles to finish
func (c *cycler) close() {
	close(c.cycleChannel)
	c.cycleWg.Wait()
	c.closedCallback()
}

//start kicks off a new cycle goroutine
func (c *cycler) start() {
	c.cycleWg.Add(1)
	go func() {
		for job := range c.cycleChannel {
			res := c.cycle(job.module)
			if res.Err != nil {
				c.log.WithFields(log.Fields{
					"Module":   "xrootd",
					"Instance": res.Instance,
					"error":    res.Err.Error(),
				}).Error("acquisition cycle failed")
			} else {
				c.log.WithFields(log.Fields{
					"Module":   "xrootd",
					"Instance": res.Instance,
					"dataset":  res.Dataset.ID,
				}).Info("acquisition cycle finished")
			}
			c.doneCallback(job.index, res)
		}
		c.cycleWg.Done()
	}()
}

//cycle extracts the module's data, then writes the dataset and its details
func (c *cycler) cycle(m *Module) InstanceResult {
	res := InstanceResult{Instance: m.Instance()}

	dataset, err := m.ExtractData(c.run)
	if err != nil {
		res.Err = err
		return res
	}
	if err := c.repo.InsertDataset(dataset); err != nil {
		res.Err = err
		return res
	}
	if err := m.FillSubtables(dataset.ID); err != nil {
		res.Err = err
		if rmErr := c.repo.RemoveDataset(dataset.ID); rmErr != nil {
			c.log.WithFields(log.Fields{
				"Module":   "xrootd",
				"Instance": res.Instance,
				"dataset":  dataset.ID,
				"error":    rmErr.Error(),
			}).Error("failed to remove dataset without details")
		}
		return res
	}
	res.Dataset = dataset
	return res
}
