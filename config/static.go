package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"time"

	yaml "gopkg.in/yaml.v2"
)

//Backend names the store used for datasets and their details
type Backend string

const (
	//BackendMongoDB stores datasets in MongoDB collections
	BackendMongoDB Backend = "mongodb"

	//BackendSQLite stores datasets in a local SQLite file
	BackendSQLite Backend = "sqlite"
)

const (
	defaultSocketTimeout   = 2
	defaultDownloadTimeout = 60
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		Database     DatabaseStaticCfg    `yaml:"Database"`
		MongoDB      MongoDBStaticCfg     `yaml:"MongoDB"`
		Log          LogStaticCfg         `yaml:"LogConfig"`
		Acquisition  AcquisitionStaticCfg `yaml:"Acquisition"`
		Plot         PlotStaticCfg        `yaml:"Plot"`
		Modules      []ModuleStaticCfg    `yaml:"Modules"`
		Version      string               `yaml:"-"`
		ExactVersion string               `yaml:"-"`
	}

	//DatabaseStaticCfg selects and names the dataset store
	DatabaseStaticCfg struct {
		Backend    Backend `yaml:"Backend" default:"mongodb"`
		Name       string  `yaml:"Name" default:"xrootd-monitor"`
		SQLitePath string  `yaml:"SQLitePath" default:"/var/lib/xrootd-monitor/xrootd.sqlite"`
	}

	//MongoDBStaticCfg contains the means for connecting to MongoDB
	MongoDBStaticCfg struct {
		ConnectionString string        `yaml:"ConnectionString" default:"mongodb://localhost:27017"`
		AuthMechanism    string        `yaml:"AuthenticationMechanism"`
		SocketTimeout    time.Duration `yaml:"SocketTimeout"`
		TLS              TLSStaticCfg  `yaml:"TLS"`
	}

	//TLSStaticCfg contains the means for connecting to MongoDB over TLS
	TLSStaticCfg struct {
		Enabled           bool   `yaml:"Enable"`
		VerifyCertificate bool   `yaml:"VerifyCertificate"`
		CAFile            string `yaml:"CAFile"`
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"2"`
		LogPath   string `yaml:"LogPath" default:"/var/lib/xrootd-monitor/logs"`
		LogToFile bool   `yaml:"LogToFile"`
		LogToDB   bool   `yaml:"LogToDB"`
	}

	//AcquisitionStaticCfg controls downloads and where artifacts are archived
	AcquisitionStaticCfg struct {
		TmpPath         string        `yaml:"TmpPath" default:"/tmp/xrootd-monitor"`
		ArchivePath     string        `yaml:"ArchivePath" default:"/var/lib/xrootd-monitor/archive"`
		DownloadTimeout time.Duration `yaml:"DownloadTimeout"`
		Threads         int           `yaml:"Threads" default:"4"`
	}

	//PlotStaticCfg sets the size of the rendered transfer plots
	PlotStaticCfg struct {
		Width  int `yaml:"Width" default:"640"`
		Height int `yaml:"Height" default:"480"`
	}

	//ModuleStaticCfg configures one instance of the XRootD module
	ModuleStaticCfg struct {
		InstanceName string `yaml:"InstanceName"`
		SourceURL    string `yaml:"SourceURL"`
		TierName     string `yaml:"TierName"`
	}
)

// loadStaticConfig attempts to parse a config file
func loadStaticConfig(cfgPath string, config *StaticCfg) error {
	_, err := os.Stat(cfgPath)

	if os.IsNotExist(err) {
		return err
	}

	cfgFile, err := ioutil.ReadFile(cfgPath)
	if err != nil {
		return err
	}

	return parseStaticConfig(cfgFile, config)
}

// parseStaticConfig deserializes yaml into a StaticCfg and normalizes the result
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {
	err := yaml.Unmarshal(cfgFile, config)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %s\n", err.Error())
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	// clean all filepaths
	config.Log.LogPath = cleanPath(config.Log.LogPath)
	config.Database.SQLitePath = cleanPath(config.Database.SQLitePath)
	config.Acquisition.TmpPath = cleanPath(config.Acquisition.TmpPath)
	config.Acquisition.ArchivePath = cleanPath(config.Acquisition.ArchivePath)

	// set the socket time out in hours
	if config.MongoDB.SocketTimeout <= 0 {
		config.MongoDB.SocketTimeout = defaultSocketTimeout
	}
	config.MongoDB.SocketTimeout *= time.Hour

	// set the download timeout in seconds
	if config.Acquisition.DownloadTimeout <= 0 {
		config.Acquisition.DownloadTimeout = defaultDownloadTimeout
	}
	config.Acquisition.DownloadTimeout *= time.Second

	// grab the version constants set by the build process
	config.Version = Version
	config.ExactVersion = ExactVersion

	return nil
}

func cleanPath(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}
