package acquisition

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

//Archive lays out run artifacts on disk as <root>/YYYY/MM/DD/<run id>/<file>
type Archive struct {
	root string
}

//NewArchive returns an archive rooted at the given directory
func NewArchive(root string) *Archive {
	return &Archive{root: root}
}

//Root returns the archive's base directory
func (a *Archive) Root() string {
	return a.root
}

//Locate returns where a file of the given run lives without touching the disk
func (a *Archive) Locate(runTime time.Time, runID string, filename string) string {
	return filepath.Join(a.root, runTime.UTC().Format("2006/01/02"), runID, filename)
}

//Path returns the location of filename within the run's directory,
//creating the directory if needed
func (a *Archive) Path(run Run, filename string) (string, error) {
	path := a.Locate(run.Time, run.ID.String(), filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	return path, nil
}

//Remove deletes an archived file along with its run directory once
//that directory is empty. Missing files are not an error.
func (a *Archive) Remove(runTime time.Time, runID string, filename string) error {
	path := a.Locate(runTime, runID, filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) == 0 {
		return os.Remove(dir)
	}
	return nil
}
