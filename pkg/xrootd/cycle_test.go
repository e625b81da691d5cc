package xrootd

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/activecm/xrootd-monitor/config"
	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshotServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.json":
			fmt.Fprint(w, testSnapshot)
		case "/zero.json":
			fmt.Fprint(w, `{"transfers": [{"name": "GridKa-Tape", "bins": [{"start_time": "2020-01-01T00:00:00", "active": 0, "finished": 0, "bytes": 0, "active_time": 0}]}]}`)
		case "/broken.json":
			fmt.Fprint(w, `{"transfers": `)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAcquire(t *testing.T) {
	repo, res := newSQLiteTestRepo(t)
	srv := newSnapshotServer(t)
	archive := acquisition.NewArchive(res.Config.S.Acquisition.ArchivePath)

	cfgs := []config.ModuleStaticCfg{
		{InstanceName: "gridka_tape", SourceURL: srv.URL + "/ok.json", TierName: "GridKa-Tape"},
		{InstanceName: "gridka_empty", SourceURL: srv.URL + "/ok.json", TierName: "GridKa-Nothing"},
		{InstanceName: "gridka_zero", SourceURL: srv.URL + "/zero.json", TierName: "GridKa-Tape"},
		{InstanceName: "gridka_broken", SourceURL: srv.URL + "/broken.json", TierName: "GridKa-Tape"},
		{InstanceName: "gridka_missing", SourceURL: srv.URL + "/missing.json", TierName: "GridKa-Tape"},
	}
	var modules []*Module
	for _, cfg := range cfgs {
		modules = append(modules, NewModule(cfg, res.Config.S.Plot, repo, archive, res.Log))
	}

	downloads := acquisition.NewDownloadService(res.Config.S.Acquisition.TmpPath, srv.Client(), res.Log)
	summary, err := Acquire(context.Background(), modules, downloads, repo, res.Log, AcquireOptions{
		Threads:         3,
		DownloadTimeout: 5 * time.Second,
		Progress:        ioutil.Discard,
	})
	require.NoError(t, err)
	require.Len(t, summary.Results, len(cfgs))
	assert.Equal(t, 3, summary.Failed())

	// results keep the module order
	for i, cfg := range cfgs {
		assert.Equal(t, cfg.InstanceName, summary.Results[i].Instance)
	}
	assert.NoError(t, summary.Results[0].Err)
	assert.NoError(t, summary.Results[1].Err)
	assert.True(t, errors.Is(summary.Results[2].Err, ErrDivisionByZero))
	assert.Error(t, summary.Results[3].Err)
	assert.Error(t, summary.Results[4].Err)

	tape := summary.Results[0].Dataset
	require.NotNil(t, tape)
	assert.Equal(t, "gridka_tape_xrootd.png", tape.FilenamePlot)
	assert.Equal(t, "GridKa-Tape", tape.TierName)
	assert.Equal(t, Attribute, tape.Attribute)
	assert.Equal(t, summary.Run.ID.String(), tape.RunID)

	plotPath := archive.Locate(summary.Run.Time, summary.Run.ID.String(), tape.FilenamePlot)
	_, err = os.Stat(plotPath)
	assert.NoError(t, err)

	details, err := repo.FindDetails(tape.ID)
	require.NoError(t, err)
	assert.Len(t, details, 3)

	// an absent tier still produces a dataset and a plot
	empty := summary.Results[1].Dataset
	require.NotNil(t, empty)
	details, err = repo.FindDetails(empty.ID)
	require.NoError(t, err)
	assert.Len(t, details, 0)
	_, err = os.Stat(archive.Locate(summary.Run.Time, summary.Run.ID.String(), empty.FilenamePlot))
	assert.NoError(t, err)

	// failed cycles leave no rows behind
	datasets, err := repo.FindDatasets("")
	require.NoError(t, err)
	assert.Len(t, datasets, 2)
	_, err = repo.LatestDataset("gridka_zero")
	assert.Equal(t, ErrNotFound, err)

	// the downloaded snapshots are cleaned up
	entries, err := ioutil.ReadDir(res.Config.S.Acquisition.TmpPath)
	require.NoError(t, err)
	assert.Len(t, entries, 0)
}

type detailsFailingRepo struct {
	Repository
}

func (detailsFailingRepo) InsertDetails(string, []Detail) error {
	return errors.New("disk full")
}

func TestAcquireRemovesDatasetWithoutDetails(t *testing.T) {
	stored, res := newSQLiteTestRepo(t)
	repo := detailsFailingRepo{stored}
	srv := newSnapshotServer(t)
	archive := acquisition.NewArchive(res.Config.S.Acquisition.ArchivePath)

	module := NewModule(
		config.ModuleStaticCfg{InstanceName: "gridka_tape", SourceURL: srv.URL + "/ok.json", TierName: "GridKa-Tape"},
		res.Config.S.Plot, repo, archive, res.Log,
	)
	downloads := acquisition.NewDownloadService(res.Config.S.Acquisition.TmpPath, srv.Client(), res.Log)
	summary, err := Acquire(context.Background(), []*Module{module}, downloads, repo, res.Log, AcquireOptions{
		Threads:  1,
		Progress: ioutil.Discard,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed())
	assert.Nil(t, summary.Results[0].Dataset)

	datasets, err := stored.FindDatasets("")
	require.NoError(t, err)
	assert.Len(t, datasets, 0)
}

func TestExtractDataWithoutDownload(t *testing.T) {
	m := NewModule(config.ModuleStaticCfg{InstanceName: "x", SourceURL: "http://localhost/x", TierName: "X"},
		config.PlotStaticCfg{}, nil, acquisition.NewArchive(t.TempDir()), nil)
	_, err := m.ExtractData(acquisition.NewRun())
	assert.Error(t, err)
	assert.Equal(t, "x_xrootd.png", m.PlotFilename())
}
