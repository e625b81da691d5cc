package xrootd

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/activecm/xrootd-monitor/config"
	"github.com/activecm/xrootd-monitor/database"
	log "github.com/sirupsen/logrus"
)

type sqliteRepo struct {
	database *database.SQLiteDB
	config   *config.Config
	log      *log.Logger
}

const datasetColumns = "id, instance, run_id, time, source_url, tier_name, filename_plot, attribute"

//NewSQLiteRepository creates a repository backed by the local SQLite file
func NewSQLiteRepository(db *database.SQLiteDB, conf *config.Config, logger *log.Logger) Repository {
	return &sqliteRepo{
		database: db,
		config:   conf,
		log:      logger,
	}
}

func (r *sqliteRepo) datasets() string {
	return r.config.T.XRootD.DatasetTable
}

func (r *sqliteRepo) details() string {
	return r.config.T.XRootD.DetailsTable
}

func (r *sqliteRepo) CreateIndexes() error {
	err := r.database.CreateTable(r.datasets(),
		fmt.Sprintf(`CREATE TABLE %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			instance TEXT NOT NULL,
			run_id TEXT NOT NULL,
			time INTEGER NOT NULL,
			source_url TEXT NOT NULL,
			tier_name TEXT NOT NULL,
			filename_plot TEXT NOT NULL,
			attribute TEXT NOT NULL
		)`, r.datasets()),
		fmt.Sprintf("CREATE UNIQUE INDEX %[1]s_run_plot ON %[1]s (run_id, filename_plot)", r.datasets()),
		fmt.Sprintf("CREATE INDEX %[1]s_instance_time ON %[1]s (instance, time)", r.datasets()),
	)
	if err != nil {
		return err
	}

	return r.database.CreateTable(r.details(),
		fmt.Sprintf(`CREATE TABLE %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			parent_id INTEGER NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			plot_data REAL NOT NULL,
			plot_data_active REAL NOT NULL,
			plot_data_finished REAL NOT NULL
		)`, r.details(), r.datasets()),
		fmt.Sprintf("CREATE INDEX %[1]s_parent ON %[1]s (parent_id)", r.details()),
	)
}

func (r *sqliteRepo) InsertDataset(dataset *Dataset) error {
	res, err := r.database.DB.Exec(
		fmt.Sprintf(`INSERT INTO %s (instance, run_id, time, source_url, tier_name, filename_plot, attribute)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, r.datasets()),
		dataset.Instance, dataset.RunID, dataset.Time.UnixNano(), dataset.SourceURL,
		dataset.TierName, dataset.FilenamePlot, dataset.Attribute,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	dataset.ID = strconv.FormatInt(id, 10)
	return nil
}

func (r *sqliteRepo) InsertDetails(parentID string, details []Detail) error {
	parent, err := rowID(parentID)
	if err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}

	tx, err := r.database.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to insert details: %w", err)
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %s (parent_id, date, plot_data, plot_data_active, plot_data_finished)
			VALUES (?, ?, ?, ?, ?)`, r.details()))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert details: %w", err)
	}
	defer stmt.Close()

	for _, d := range details {
		if _, err := stmt.Exec(parent, d.Date, d.Rate, d.Active, d.Finished); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert details: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to insert details: %w", err)
	}
	return nil
}

func (r *sqliteRepo) FindDetails(parentID string) ([]Detail, error) {
	parent, err := rowID(parentID)
	if err != nil {
		return nil, err
	}

	rows, err := r.database.DB.Query(fmt.Sprintf(
		`SELECT date, plot_data, plot_data_active, plot_data_finished FROM %s
			WHERE parent_id = ? ORDER BY date, id`, r.details()), parent)
	if err != nil {
		return nil, fmt.Errorf("failed to query details: %w", err)
	}
	defer rows.Close()

	details := []Detail{}
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.Date, &d.Rate, &d.Active, &d.Finished); err != nil {
			return nil, fmt.Errorf("failed to query details: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query details: %w", err)
	}
	SortDetails(details)
	return details, nil
}

func (r *sqliteRepo) RemoveDataset(id string) error {
	rid, err := rowID(id)
	if err != nil {
		return err
	}
	tx, err := r.database.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to remove dataset: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE parent_id = ?", r.details()), rid); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to remove details: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.datasets()), rid); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to remove dataset: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to remove dataset: %w", err)
	}
	return nil
}

func (r *sqliteRepo) FindDataset(id string) (*Dataset, error) {
	rid, err := rowID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	row := r.database.DB.QueryRow(fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = ?", datasetColumns, r.datasets()), rid)
	return scanDataset(row)
}

func (r *sqliteRepo) LatestDataset(instance string) (*Dataset, error) {
	row := r.database.DB.QueryRow(fmt.Sprintf(
		"SELECT %s FROM %s WHERE instance = ? ORDER BY time DESC, id DESC LIMIT 1",
		datasetColumns, r.datasets()), instance)
	return scanDataset(row)
}

func (r *sqliteRepo) FindDatasets(instance string) ([]Dataset, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", datasetColumns, r.datasets())
	var args []interface{}
	if instance != "" {
		query += " WHERE instance = ?"
		args = append(args, instance)
	}
	query += " ORDER BY time DESC, id DESC"
	return r.queryDatasets(r.database.DB, query, args...)
}

func (r *sqliteRepo) RemoveDatasetsBefore(t time.Time) ([]Dataset, error) {
	tx, err := r.database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to remove datasets: %w", err)
	}

	removed, err := r.queryDatasets(tx, fmt.Sprintf(
		"SELECT %s FROM %s WHERE time < ? ORDER BY time DESC, id DESC",
		datasetColumns, r.datasets()), t.UnixNano())
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(removed) == 0 {
		tx.Rollback()
		return nil, nil
	}

	placeholders := make([]string, len(removed))
	ids := make([]interface{}, len(removed))
	for i := range removed {
		placeholders[i] = "?"
		ids[i], _ = strconv.ParseInt(removed[i].ID, 10, 64)
	}
	in := strings.Join(placeholders, ", ")

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE parent_id IN (%s)", r.details(), in), ids...); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to remove details: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", r.datasets(), in), ids...); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to remove datasets: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to remove datasets: %w", err)
	}
	return removed, nil
}

type queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

func (r *sqliteRepo) queryDatasets(q queryer, query string, args ...interface{}) ([]Dataset, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	datasets := []Dataset{}
	for rows.Next() {
		dataset, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, *dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	return datasets, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDataset(row scanner) (*Dataset, error) {
	var d Dataset
	var id, nanos int64
	err := row.Scan(&id, &d.Instance, &d.RunID, &nanos, &d.SourceURL,
		&d.TierName, &d.FilenamePlot, &d.Attribute)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	d.ID = strconv.FormatInt(id, 10)
	d.Time = time.Unix(0, nanos).UTC()
	return &d, nil
}

func rowID(id string) (int64, error) {
	rid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dataset id %q", id)
	}
	return rid, nil
}
