package xrootd

import (
	"fmt"

	"github.com/activecm/xrootd-monitor/config"
	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/activecm/xrootd-monitor/pkg/plot"
	log "github.com/sirupsen/logrus"
)

//plotSuffix completes the instance name to the plot's file name
const plotSuffix = "_xrootd.png"

//Module runs the acquisition cycle of one configured XRootD instance.
//A Module is driven by one goroutine at a time.
type Module struct {
	cfg      config.ModuleStaticCfg
	plotCfg  config.PlotStaticCfg
	repo     Repository
	archive  *acquisition.Archive
	log      *log.Logger
	download *acquisition.Download
	details  []Detail
}

//NewModule creates the module for one configured instance
func NewModule(cfg config.ModuleStaticCfg, plotCfg config.PlotStaticCfg, repo Repository,
	archive *acquisition.Archive, logger *log.Logger) *Module {
	return &Module{
		cfg:     cfg,
		plotCfg: plotCfg,
		repo:    repo,
		archive: archive,
		log:     logger,
	}
}

//NewModules creates a module for every configured instance
func NewModules(conf *config.Config, repo Repository, archive *acquisition.Archive, logger *log.Logger) []*Module {
	modules := make([]*Module, 0, len(conf.R.Modules))
	for _, cfg := range conf.R.Modules {
		modules = append(modules, NewModule(cfg, conf.S.Plot, repo, archive, logger))
	}
	return modules
}

//Instance returns the configured instance name
func (m *Module) Instance() string {
	return m.cfg.InstanceName
}

//PlotFilename returns the name of the plot written by the module
func (m *Module) PlotFilename() string {
	return m.cfg.InstanceName + plotSuffix
}

//PrepareAcquisition registers the module's source file for download
func (m *Module) PrepareAcquisition(downloads *acquisition.DownloadService) {
	m.download = downloads.AddDownload(m.cfg.SourceURL)
}

//ExtractData reads the downloaded snapshot and writes the plot into the
//run's archive directory. The returned dataset has no ID yet.
func (m *Module) ExtractData(run acquisition.Run) (*Dataset, error) {
	if m.download == nil {
		return nil, fmt.Errorf("no download registered for %s", m.cfg.InstanceName)
	}
	if err := m.download.Err(); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", m.download.SourceURL(), err)
	}

	snap, err := LoadSnapshot(m.download.TmpPath())
	if err != nil {
		return nil, err
	}
	details, err := Extract(snap, m.cfg.TierName)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		m.log.WithFields(log.Fields{
			"Module":   "xrootd",
			"Instance": m.cfg.InstanceName,
			"tier":     m.cfg.TierName,
		}).Warn("tier not found in snapshot")
	}

	filename := m.PlotFilename()
	path, err := m.archive.Path(run, filename)
	if err != nil {
		return nil, err
	}
	err = plot.RenderFile(path, plotBins(details), plot.Options{
		Title:  m.cfg.TierName,
		Width:  m.plotCfg.Width,
		Height: m.plotCfg.Height,
	})
	if err != nil {
		return nil, err
	}

	m.details = details
	return &Dataset{
		Instance:     m.cfg.InstanceName,
		RunID:        run.ID.String(),
		Time:         run.Time,
		SourceURL:    m.download.SourceURL(),
		TierName:     m.cfg.TierName,
		FilenamePlot: filename,
		Attribute:    Attribute,
	}, nil
}

//FillSubtables stores the details extracted by the last ExtractData call
//below the dataset parentID
func (m *Module) FillSubtables(parentID string) error {
	details := m.details
	m.details = nil
	return m.repo.InsertDetails(parentID, details)
}

//TemplateData adds the stored details of dataset to base
func (m *Module) TemplateData(dataset *Dataset, base map[string]interface{}) (map[string]interface{}, error) {
	return TemplateData(m.repo, dataset, base)
}
