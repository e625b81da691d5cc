package resources

import (
	"fmt"

	"github.com/activecm/xrootd-monitor/config"
	"github.com/activecm/xrootd-monitor/database"
	log "github.com/sirupsen/logrus"
)

type (
	// Resources provides a data structure for passing system Resources
	Resources struct {
		Config *config.Config
		Log    *log.Logger
		DB     *database.DB       // set when the mongodb backend is configured
		SQL    *database.SQLiteDB // set when the sqlite backend is configured
	}
)

// InitResources grabs the configuration file and intitializes the configuration data
// returning a *Resources object which has all of the necessary configuration information
func InitResources(userConfig string) (*Resources, error) {
	conf, err := config.LoadConfig(userConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newResources(conf)
}

func newResources(conf *config.Config) (*Resources, error) {
	// Fire up the logging system
	log := initLogger(&conf.S.Log)
	if conf.S.Log.LogToFile {
		if err := addFileLogger(log, conf.S.Log.LogPath); err != nil {
			return nil, fmt.Errorf("failed to set up file logging: %w", err)
		}
	}

	r := &Resources{
		Config: conf,
		Log:    log,
	}

	switch conf.S.Database.Backend {
	case config.BackendSQLite:
		sqlDB, err := database.NewSQLiteDB(conf.S.Database.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		r.SQL = sqlDB
	default:
		db, err := database.NewDB(conf, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		r.DB = db

		//Begin logging to the database
		if conf.S.Log.LogToDB {
			err = addMongoLogger(log, db.Session, conf.S.Database.Name, conf.T.Log.LogTable)
			if err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to set up database logging: %w", err)
			}
		}
	}

	return r, nil
}

// Close releases the database handles held by the bundle
func (r *Resources) Close() {
	if r.DB != nil {
		r.DB.Close()
	}
	if r.SQL != nil {
		if err := r.SQL.Close(); err != nil {
			r.Log.WithError(err).Warn("failed to close sqlite database")
		}
	}
}
