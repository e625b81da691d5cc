package resources

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/activecm/xrootd-monitor/config"
)

//InitIntegrationTestingResources creates a default testing
//resource bundle for use with integration testing.
//The MongoDB server is contacted via the URI provided
//as by go test -args [MongoDB URI].
func InitIntegrationTestingResources(t *testing.T) *Resources {
	if testing.Short() {
		t.Skip()
	}

	if len(os.Args) != 2 {
		t.Skip("-args [MongoDB URI] is required to run xrootd-monitor integration tests with go test")
	}

	mongoURI := os.Args[1]

	conf, err := config.LoadTestingConfig(mongoURI)
	if err != nil {
		t.Fatal(err)
	}

	res, err := newResources(conf)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

//InitSQLiteTestingResources creates a resource bundle backed by a
//fresh SQLite file inside the test's temporary directory
func InitSQLiteTestingResources(t *testing.T) *Resources {
	conf, err := config.LoadTestingConfig("")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	conf.S.Database.Backend = config.BackendSQLite
	conf.S.Database.SQLitePath = filepath.Join(dir, "xrootd.sqlite")
	conf.S.Log.LogToDB = false
	conf.S.Acquisition.TmpPath = filepath.Join(dir, "tmp")
	conf.S.Acquisition.ArchivePath = filepath.Join(dir, "archive")

	res, err := newResources(conf)
	if err != nil {
		t.Fatal(err)
	}
	res.Log.Out = ioutil.Discard
	t.Cleanup(res.Close)
	return res
}
