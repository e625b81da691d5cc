package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// registers the sqlite3 driver with database/sql
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

//SQLiteDB wraps the local SQLite file used in place of MongoDB
type SQLiteDB struct {
	DB   *sql.DB
	Path string
	log  *log.Logger
}

//NewSQLiteDB opens (and creates if needed) the SQLite database at path
func NewSQLiteDB(path string, logger *log.Logger) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
	}
	conn, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// all workers share one connection so writes are serialized
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	logger.WithFields(log.Fields{
		"path": path,
	}).Debug("Opened SQLite database")

	return &SQLiteDB{
		DB:   conn,
		Path: path,
		log:  logger,
	}, nil
}

//TableExists reports whether the table is present in the database
func (s *SQLiteDB) TableExists(name string) (bool, error) {
	row := s.DB.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", name)
	var nm sql.NullString
	err := row.Scan(&nm)
	if err == sql.ErrNoRows {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to determine existence of table %s: %w", name, err)
	}
	return true, nil
}

//CreateTable runs the given DDL statements unless the table already exists
func (s *SQLiteDB) CreateTable(name string, statements ...string) error {
	exists, err := s.TableExists(name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	s.log.WithFields(log.Fields{"table": name}).Info("Created table")
	return nil
}

//Close closes the underlying connection pool
func (s *SQLiteDB) Close() error {
	return s.DB.Close()
}
