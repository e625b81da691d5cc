package xrootd

import (
	"testing"
	"time"

	"github.com/activecm/xrootd-monitor/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteTestRepo(t *testing.T) (Repository, *resources.Resources) {
	res := resources.InitSQLiteTestingResources(t)
	repo := NewRepository(res)
	require.NoError(t, repo.CreateIndexes())
	// creating the tables twice is fine
	require.NoError(t, repo.CreateIndexes())
	return repo, res
}

func testDataset(instance string, runID string, at time.Time) *Dataset {
	return &Dataset{
		Instance:     instance,
		RunID:        runID,
		Time:         at,
		SourceURL:    "http://localhost/xrootd.json",
		TierName:     "TEST-Disk",
		FilenamePlot: instance + plotSuffix,
		Attribute:    Attribute,
	}
}

var testDetails = []Detail{
	{Date: "2020-01-01 00:20", Rate: 10, Active: 4, Finished: 2},
	{Date: "2020-01-01 00:00", Rate: 0.1, Active: 4, Finished: 2},
	{Date: "2020-01-01 00:10", Rate: 0.4, Active: 5, Finished: 5},
	{Date: "2020-01-01 00:10", Rate: 0.2, Active: 7, Finished: 1},
}

func TestSQLiteDetailsRoundTrip(t *testing.T) {
	repo, _ := newSQLiteTestRepo(t)

	dataset := testDataset("test_disk", "run-1", time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC))
	require.NoError(t, repo.InsertDataset(dataset))
	require.NotEmpty(t, dataset.ID)
	require.NoError(t, repo.InsertDetails(dataset.ID, testDetails))

	details, err := repo.FindDetails(dataset.ID)
	require.NoError(t, err)
	require.Len(t, details, len(testDetails))
	assert.Equal(t, testDetails[1], details[0])
	assert.Equal(t, testDetails[2], details[1])
	assert.Equal(t, testDetails[3], details[2])
	assert.Equal(t, testDetails[0], details[3])

	stored, err := repo.FindDataset(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, *dataset, *stored)
}

func TestSQLiteDatasetUniqueness(t *testing.T) {
	repo, _ := newSQLiteTestRepo(t)
	at := time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC)

	require.NoError(t, repo.InsertDataset(testDataset("test_disk", "run-1", at)))
	assert.Error(t, repo.InsertDataset(testDataset("test_disk", "run-1", at)))
	assert.NoError(t, repo.InsertDataset(testDataset("test_disk", "run-2", at)))
}

func TestSQLiteDetailsNeedParent(t *testing.T) {
	repo, _ := newSQLiteTestRepo(t)
	assert.Error(t, repo.InsertDetails("42", testDetails))
	assert.Error(t, repo.InsertDetails("not-an-id", testDetails))
}

func TestSQLiteFindDatasets(t *testing.T) {
	repo, _ := newSQLiteTestRepo(t)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, run := range []string{"run-1", "run-2", "run-3"} {
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.InsertDataset(testDataset("test_disk", run, at)))
		require.NoError(t, repo.InsertDataset(testDataset("test_tape", run, at)))
	}

	datasets, err := repo.FindDatasets("test_disk")
	require.NoError(t, err)
	require.Len(t, datasets, 3)
	assert.Equal(t, "run-3", datasets[0].RunID)
	assert.Equal(t, "run-1", datasets[2].RunID)

	all, err := repo.FindDatasets("")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	latest, err := repo.LatestDataset("test_tape")
	require.NoError(t, err)
	assert.Equal(t, "run-3", latest.RunID)
	assert.Equal(t, "test_tape", latest.Instance)

	_, err = repo.LatestDataset("unknown")
	assert.Equal(t, ErrNotFound, err)
	_, err = repo.FindDataset("12345")
	assert.Equal(t, ErrNotFound, err)
	_, err = repo.FindDataset("bogus")
	assert.Equal(t, ErrNotFound, err)
}

func TestSQLiteRemoveDataset(t *testing.T) {
	repo, _ := newSQLiteTestRepo(t)
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	gone := testDataset("test_disk", "run-1", at)
	kept := testDataset("test_tape", "run-1", at)
	for _, d := range []*Dataset{gone, kept} {
		require.NoError(t, repo.InsertDataset(d))
		require.NoError(t, repo.InsertDetails(d.ID, testDetails))
	}

	require.NoError(t, repo.RemoveDataset(gone.ID))
	_, err := repo.FindDataset(gone.ID)
	assert.Equal(t, ErrNotFound, err)
	details, err := repo.FindDetails(gone.ID)
	require.NoError(t, err)
	assert.Len(t, details, 0)

	details, err = repo.FindDetails(kept.ID)
	require.NoError(t, err)
	assert.Len(t, details, len(testDetails))

	// removing twice is fine, bad ids are not
	assert.NoError(t, repo.RemoveDataset(gone.ID))
	assert.Error(t, repo.RemoveDataset("bogus"))
}

func TestSQLiteRemoveDatasetsBefore(t *testing.T) {
	repo, _ := newSQLiteTestRepo(t)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	old := testDataset("test_disk", "run-1", base)
	recent := testDataset("test_disk", "run-2", base.Add(48*time.Hour))
	for _, d := range []*Dataset{old, recent} {
		require.NoError(t, repo.InsertDataset(d))
		require.NoError(t, repo.InsertDetails(d.ID, testDetails))
	}

	removed, err := repo.RemoveDatasetsBefore(base.Add(24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, old.ID, removed[0].ID)

	details, err := repo.FindDetails(old.ID)
	require.NoError(t, err)
	assert.Len(t, details, 0)

	details, err = repo.FindDetails(recent.ID)
	require.NoError(t, err)
	assert.Len(t, details, len(testDetails))

	removed, err = repo.RemoveDatasetsBefore(base.Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Len(t, removed, 0)
}
