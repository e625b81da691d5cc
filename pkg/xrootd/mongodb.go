package xrootd

import (
	"fmt"
	"time"

	"github.com/activecm/xrootd-monitor/config"
	"github.com/activecm/xrootd-monitor/database"
	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	log "github.com/sirupsen/logrus"
)

type (
	mongoRepo struct {
		database *database.DB
		config   *config.Config
		log      *log.Logger
	}

	datasetDoc struct {
		ID           bson.ObjectId `bson:"_id,omitempty"`
		Instance     string        `bson:"instance"`
		RunID        string        `bson:"run_id"`
		Time         time.Time     `bson:"time"`
		SourceURL    string        `bson:"source_url"`
		TierName     string        `bson:"tier_name"`
		FilenamePlot string        `bson:"filename_plot"`
		Attribute    string        `bson:"attribute"`
	}

	detailDoc struct {
		ParentID bson.ObjectId `bson:"parent_id"`
		Detail   `bson:",inline"`
	}
)

// mgo's bulk buffer stays well under the 16MB limit at this size
const bulkLimit = 500

//NewMongoRepository create new repository
func NewMongoRepository(db *database.DB, conf *config.Config, logger *log.Logger) Repository {
	return &mongoRepo{
		database: db,
		config:   conf,
		log:      logger,
	}
}

func (r *mongoRepo) CreateIndexes() error {
	datasetIndexes := []mgo.Index{
		{Key: []string{"run_id", "filename_plot"}, Unique: true},
		{Key: []string{"instance", "-time"}},
		{Key: []string{"time"}},
	}
	err := r.database.CreateCollection(r.config.T.XRootD.DatasetTable, datasetIndexes)
	if err != nil {
		return err
	}

	detailIndexes := []mgo.Index{
		{Key: []string{"parent_id"}},
	}
	return r.database.CreateCollection(r.config.T.XRootD.DetailsTable, detailIndexes)
}

func (r *mongoRepo) InsertDataset(dataset *Dataset) error {
	session := r.database.Session.Copy()
	defer session.Close()

	doc := datasetDoc{
		ID:           bson.NewObjectId(),
		Instance:     dataset.Instance,
		RunID:        dataset.RunID,
		Time:         dataset.Time,
		SourceURL:    dataset.SourceURL,
		TierName:     dataset.TierName,
		FilenamePlot: dataset.FilenamePlot,
		Attribute:    dataset.Attribute,
	}
	err := session.DB(r.database.GetSelectedDB()).C(r.config.T.XRootD.DatasetTable).Insert(doc)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	dataset.ID = doc.ID.Hex()
	return nil
}

func (r *mongoRepo) InsertDetails(parentID string, details []Detail) error {
	parent, err := objectID(parentID)
	if err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}

	session := r.database.Session.Copy()
	defer session.Close()

	bulk := session.DB(r.database.GetSelectedDB()).C(r.config.T.XRootD.DetailsTable).Bulk()
	count := 0
	for _, detail := range details {
		bulk.Insert(detailDoc{ParentID: parent, Detail: detail})
		count++

		if count >= bulkLimit {
			if _, err := bulk.Run(); err != nil {
				return fmt.Errorf("failed to insert details: %w", err)
			}
			bulk = session.DB(r.database.GetSelectedDB()).C(r.config.T.XRootD.DetailsTable).Bulk()
			count = 0
		}
	}
	if count > 0 {
		if _, err := bulk.Run(); err != nil {
			return fmt.Errorf("failed to insert details: %w", err)
		}
	}
	return nil
}

func (r *mongoRepo) FindDetails(parentID string) ([]Detail, error) {
	parent, err := objectID(parentID)
	if err != nil {
		return nil, err
	}

	session := r.database.Session.Copy()
	defer session.Close()

	var docs []detailDoc
	err = session.DB(r.database.GetSelectedDB()).C(r.config.T.XRootD.DetailsTable).
		Find(bson.M{"parent_id": parent}).Sort("date", "_id").All(&docs)
	if err != nil {
		return nil, fmt.Errorf("failed to query details: %w", err)
	}

	details := make([]Detail, len(docs))
	for i := range docs {
		details[i] = docs[i].Detail
	}
	SortDetails(details)
	return details, nil
}

func (r *mongoRepo) RemoveDataset(id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	session := r.database.Session.Copy()
	defer session.Close()

	db := session.DB(r.database.GetSelectedDB())
	if _, err := db.C(r.config.T.XRootD.DetailsTable).RemoveAll(bson.M{"parent_id": oid}); err != nil {
		return fmt.Errorf("failed to remove details: %w", err)
	}
	err = db.C(r.config.T.XRootD.DatasetTable).RemoveId(oid)
	if err != nil && err != mgo.ErrNotFound {
		return fmt.Errorf("failed to remove dataset: %w", err)
	}
	return nil
}

func (r *mongoRepo) FindDataset(id string) (*Dataset, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	session := r.database.Session.Copy()
	defer session.Close()

	var doc datasetDoc
	err = session.DB(r.database.GetSelectedDB()).C(r.config.T.XRootD.DatasetTable).FindId(oid).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	return doc.dataset(), nil
}

func (r *mongoRepo) LatestDataset(instance string) (*Dataset, error) {
	session := r.database.Session.Copy()
	defer session.Close()

	var doc datasetDoc
	err := session.DB(r.database.GetSelectedDB()).C(r.config.T.XRootD.DatasetTable).
		Find(bson.M{"instance": instance}).Sort("-time", "-_id").One(&doc)
	if err == mgo.ErrNotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	return doc.dataset(), nil
}

func (r *mongoRepo) FindDatasets(instance string) ([]Dataset, error) {
	session := r.database.Session.Copy()
	defer session.Close()

	query := bson.M{}
	if instance != "" {
		query["instance"] = instance
	}

	var docs []datasetDoc
	err := session.DB(r.database.GetSelectedDB()).C(r.config.T.XRootD.DatasetTable).
		Find(query).Sort("-time", "-_id").All(&docs)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}

	datasets := make([]Dataset, len(docs))
	for i := range docs {
		datasets[i] = *docs[i].dataset()
	}
	return datasets, nil
}

func (r *mongoRepo) RemoveDatasetsBefore(t time.Time) ([]Dataset, error) {
	session := r.database.Session.Copy()
	defer session.Close()

	db := session.DB(r.database.GetSelectedDB())
	var docs []datasetDoc
	err := db.C(r.config.T.XRootD.DatasetTable).Find(bson.M{"time": bson.M{"$lt": t}}).All(&docs)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]bson.ObjectId, len(docs))
	removed := make([]Dataset, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
		removed[i] = *docs[i].dataset()
	}

	info, err := db.C(r.config.T.XRootD.DetailsTable).RemoveAll(bson.M{"parent_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to remove details: %w", err)
	}
	r.log.WithFields(log.Fields{
		"Module":  "xrootd",
		"removed": info.Removed,
	}).Debug("removed details")

	_, err = db.C(r.config.T.XRootD.DatasetTable).RemoveAll(bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to remove datasets: %w", err)
	}
	return removed, nil
}

func (d *datasetDoc) dataset() *Dataset {
	return &Dataset{
		ID:           d.ID.Hex(),
		Instance:     d.Instance,
		RunID:        d.RunID,
		Time:         d.Time.UTC(),
		SourceURL:    d.SourceURL,
		TierName:     d.TierName,
		FilenamePlot: d.FilenamePlot,
		Attribute:    d.Attribute,
	}
}

func objectID(id string) (bson.ObjectId, error) {
	if !bson.IsObjectIdHex(id) {
		return "", fmt.Errorf("invalid dataset id %q", id)
	}
	return bson.ObjectIdHex(id), nil
}
