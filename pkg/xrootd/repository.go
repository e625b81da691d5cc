package xrootd

import (
	"errors"
	"time"

	"github.com/activecm/xrootd-monitor/config"
	"github.com/activecm/xrootd-monitor/resources"
)

//Attribute is the description stored with every dataset
const Attribute = "all information"

//ErrNotFound is returned when a dataset does not exist
var ErrNotFound = errors.New("dataset not found")

//Dataset is the summary row written once per instance and run
type Dataset struct {
	ID           string
	Instance     string
	RunID        string
	Time         time.Time
	SourceURL    string
	TierName     string
	FilenamePlot string
	Attribute    string
}

//Repository stores datasets and their details
type Repository interface {
	CreateIndexes() error
	InsertDataset(dataset *Dataset) error
	InsertDetails(parentID string, details []Detail) error
	FindDetails(parentID string) ([]Detail, error)
	RemoveDataset(id string) error
	FindDataset(id string) (*Dataset, error)
	LatestDataset(instance string) (*Dataset, error)
	FindDatasets(instance string) ([]Dataset, error)
	RemoveDatasetsBefore(t time.Time) ([]Dataset, error)
}

//NewRepository returns the repository for the configured backend
func NewRepository(res *resources.Resources) Repository {
	if res.Config.S.Database.Backend == config.BackendSQLite {
		return NewSQLiteRepository(res.SQL, res.Config, res.Log)
	}
	return NewMongoRepository(res.DB, res.Config, res.Log)
}
