package acquisition

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivePath(t *testing.T) {
	root := t.TempDir()
	a := NewArchive(root)
	run := Run{
		ID:   uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2"),
		Time: time.Date(2020, 3, 4, 23, 30, 0, 0, time.UTC),
	}

	path, err := a.Path(run, "gridka_tape_xrootd.png")
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(root, "2020", "03", "04", "7d444840-9dc0-11d1-b245-5ffdce74fad2", "gridka_tape_xrootd.png"),
		path,
	)
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, path, a.Locate(run.Time, run.ID.String(), "gridka_tape_xrootd.png"))
}

func TestArchiveRemove(t *testing.T) {
	a := NewArchive(t.TempDir())
	run := NewRun()

	first, err := a.Path(run, "a_xrootd.png")
	require.NoError(t, err)
	second, err := a.Path(run, "b_xrootd.png")
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(first, []byte("a"), 0644))
	require.NoError(t, ioutil.WriteFile(second, []byte("b"), 0644))

	require.NoError(t, a.Remove(run.Time, run.ID.String(), "a_xrootd.png"))
	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Dir(second))
	assert.NoError(t, err)

	require.NoError(t, a.Remove(run.Time, run.ID.String(), "b_xrootd.png"))
	_, err = os.Stat(filepath.Dir(second))
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	require.NoError(t, a.Remove(run.Time, run.ID.String(), "b_xrootd.png"))
}
