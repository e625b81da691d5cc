package reporting

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/activecm/xrootd-monitor/pkg/plot"
	"github.com/activecm/xrootd-monitor/pkg/xrootd"
	"github.com/activecm/xrootd-monitor/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReport(t *testing.T) (xrootd.Repository, *acquisition.Archive) {
	res := resources.InitSQLiteTestingResources(t)
	repo := xrootd.NewRepository(res)
	require.NoError(t, repo.CreateIndexes())
	archive := acquisition.NewArchive(res.Config.S.Acquisition.ArchivePath)

	run := acquisition.NewRun()
	dataset := &xrootd.Dataset{
		Instance:     "gridka_tape",
		RunID:        run.ID.String(),
		Time:         run.Time,
		SourceURL:    "http://localhost/xrootd.json",
		TierName:     "GridKa-Tape",
		FilenamePlot: "gridka_tape_xrootd.png",
		Attribute:    xrootd.Attribute,
	}
	details := []xrootd.Detail{
		{Date: "2020-01-01 00:10", Rate: 0.4, Active: 5, Finished: 5},
		{Date: "2020-01-01 00:00", Rate: 0.1, Active: 4, Finished: 2},
	}
	path, err := archive.Path(run, dataset.FilenamePlot)
	require.NoError(t, err)
	require.NoError(t, plot.RenderFile(path, []plot.Bin{
		{Label: details[1].Date, Finished: 2, Running: 2, Rate: 0.1},
		{Label: details[0].Date, Finished: 5, Running: 0, Rate: 0.4},
	}, plot.Options{Title: dataset.TierName, Width: 320, Height: 240}))

	require.NoError(t, repo.InsertDataset(dataset))
	require.NoError(t, repo.InsertDetails(dataset.ID, details))
	return repo, archive
}

func TestPrintHTML(t *testing.T) {
	repo, archive := newTestReport(t)
	target := filepath.Join(t.TempDir(), "report")

	dir, err := PrintHTML([]string{"gridka_tape", "gridka_disk"}, target, repo, archive, false)
	require.NoError(t, err)
	assert.Equal(t, target, dir)

	home, err := ioutil.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), `href="gridka_tape/index.html"`)
	assert.Contains(t, string(home), "GridKa-Tape")
	assert.Contains(t, string(home), "gridka_disk")

	page, err := ioutil.ReadFile(filepath.Join(dir, "gridka_tape", "index.html"))
	require.NoError(t, err)
	content := string(page)
	assert.Contains(t, content, `src="gridka_tape_xrootd.png"`)
	first := strings.Index(content, "2020-01-01 00:00")
	second := strings.Index(content, "2020-01-01 00:10")
	require.True(t, first > 0)
	assert.True(t, first < second)
	assert.Contains(t, content, "<td>0.400</td>")

	_, err = os.Stat(filepath.Join(dir, "gridka_tape", "gridka_tape_xrootd.png"))
	assert.NoError(t, err)

	empty, err := ioutil.ReadFile(filepath.Join(dir, "gridka_disk", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(empty), "No datasets have been acquired")

	// an existing folder is never overwritten
	dir, err = PrintHTML([]string{"gridka_tape"}, target, repo, archive, false)
	require.NoError(t, err)
	assert.Equal(t, target+"1", dir)
}

func TestPrintHTMLNoInstances(t *testing.T) {
	_, err := PrintHTML(nil, "", nil, nil, false)
	assert.Error(t, err)
}

func TestPrintPDF(t *testing.T) {
	repo, archive := newTestReport(t)
	out := filepath.Join(t.TempDir(), "report.pdf")

	require.NoError(t, PrintPDF([]string{"gridka_tape", "gridka_disk"}, out, repo, archive))
	content, err := ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF-"))
}

func TestGetDetailsWriter(t *testing.T) {
	w, err := getDetailsWriter([]map[string]interface{}{
		xrootd.Detail{Date: "2020-01-01 00:00", Rate: 0.1, Active: 4, Finished: 1}.Map(),
	})
	require.NoError(t, err)
	assert.Equal(t, "<tr><td>2020-01-01 00:00</td><td>4</td><td>1</td><td>3</td><td>0.100</td></tr>\n", w)
}

func TestNextFreeFolder(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	assert.Equal(t, base, nextFreeFolder(base))
	require.NoError(t, os.Mkdir(base, 0755))
	require.NoError(t, os.Mkdir(base+"1", 0755))
	assert.Equal(t, base+"2", nextFreeFolder(base))
}
