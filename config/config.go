package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"

	"github.com/creasty/defaults"
)

//Version is filled at compile time with the git version of xrootd-monitor
var Version = "undefined"

//ExactVersion is filled at compile time with the git describe output
var ExactVersion = "undefined"

//userConfigPath is the config file location relative to the user's home
const userConfigPath = ".xrootd-monitor/config.yaml"

//globalConfigPath is the system wide config file location
const globalConfigPath = "/etc/xrootd-monitor/config.yaml"

type (
	//Config holds the configuration for the running system
	Config struct {
		R RunningCfg
		S StaticCfg
		T TableCfg
	}
)

// LoadConfig retrieves a configuration in order of precedence:
// the given path, the user's home directory, then the global config
func LoadConfig(cfgPath string) (*Config, error) {
	if cfgPath != "" {
		return loadSystemConfig(cfgPath)
	}

	usr, err := user.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not get user info: %s\n", err.Error())
	} else {
		userPath := filepath.Join(usr.HomeDir, userConfigPath)
		if _, err := os.Stat(userPath); err == nil {
			return loadSystemConfig(userPath)
		}
	}

	return loadSystemConfig(globalConfigPath)
}

// loadSystemConfig parses a config file and derives the running config
func loadSystemConfig(cfgPath string) (*Config, error) {
	config := &Config{}

	// Initialize table config to the default values
	if err := defaults.Set(&config.T); err != nil {
		return nil, err
	}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	if err := loadStaticConfig(cfgPath, &config.S); err != nil {
		return nil, err
	}

	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.Struct {
			for j := 0; j < f.Len(); j++ {
				expandConfig(f.Index(j))
			}
		}
	}
}
