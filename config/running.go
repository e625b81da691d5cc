package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io/ioutil"
	"net/url"
	"strings"

	"github.com/activecm/mgosec"
	"github.com/blang/semver"
)

type (
	//RunningCfg holds configuration options that are parsed at run time
	RunningCfg struct {
		MongoDB MongoDBRunningCfg
		Modules []ModuleStaticCfg
		Version semver.Version
	}

	//MongoDBRunningCfg holds parsed information for connecting to MongoDB
	MongoDBRunningCfg struct {
		AuthMechanismParsed mgosec.AuthMechanism
		TLS                 struct {
			TLSConfig *tls.Config
		}
	}
)

// initRunningConfig uses data in the static config initialize
// the passed in running config
func initRunningConfig(static *StaticCfg, running *RunningCfg) error {
	var err error

	switch static.Database.Backend {
	case BackendMongoDB, BackendSQLite:
	default:
		return fmt.Errorf("unknown database backend %q", static.Database.Backend)
	}

	//parse the tls configuration
	if static.MongoDB.TLS.Enabled {
		tlsConf := &tls.Config{}
		if !static.MongoDB.TLS.VerifyCertificate {
			tlsConf.InsecureSkipVerify = true
		}
		if len(static.MongoDB.TLS.CAFile) > 0 {
			pem, err := ioutil.ReadFile(static.MongoDB.TLS.CAFile)
			if err != nil {
				return fmt.Errorf("could not read MongoDB CA file: %w", err)
			}
			tlsConf.RootCAs = x509.NewCertPool()
			tlsConf.RootCAs.AppendCertsFromPEM(pem)
		}
		running.MongoDB.TLS.TLSConfig = tlsConf
	}

	//parse out the mongo authentication mechanism
	authMechanism, err := mgosec.ParseAuthMechanism(
		static.MongoDB.AuthMechanism,
	)
	if err != nil {
		authMechanism = mgosec.None
		fmt.Println("[!] Could not parse MongoDB authentication mechanism")
	}
	running.MongoDB.AuthMechanismParsed = authMechanism

	running.Modules, err = validateModules(static.Modules)
	if err != nil {
		return err
	}

	running.Version, err = semver.ParseTolerant(static.Version)
	if err != nil {
		// development builds are not tagged
		running.Version = semver.Version{}
	}
	return nil
}

// validateModules checks that every module instance is complete and that
// instance names are unique, since they name the archived plot files
func validateModules(modules []ModuleStaticCfg) ([]ModuleStaticCfg, error) {
	seen := make(map[string]bool, len(modules))
	valid := make([]ModuleStaticCfg, 0, len(modules))
	for i, mod := range modules {
		mod.InstanceName = strings.TrimSpace(mod.InstanceName)
		if mod.InstanceName == "" {
			return nil, fmt.Errorf("module %d: InstanceName is required", i)
		}
		if strings.ContainsAny(mod.InstanceName, `/\`) || mod.InstanceName == "." || mod.InstanceName == ".." {
			return nil, fmt.Errorf("module %s: InstanceName must be usable as a file name", mod.InstanceName)
		}
		if seen[mod.InstanceName] {
			return nil, fmt.Errorf("module %s: duplicate InstanceName", mod.InstanceName)
		}
		seen[mod.InstanceName] = true

		if mod.SourceURL == "" {
			return nil, fmt.Errorf("module %s: SourceURL is required", mod.InstanceName)
		}
		if _, err := url.Parse(mod.SourceURL); err != nil {
			return nil, fmt.Errorf("module %s: invalid SourceURL: %w", mod.InstanceName, err)
		}
		if mod.TierName == "" {
			return nil, errors.New("module " + mod.InstanceName + ": TierName is required")
		}
		valid = append(valid, mod)
	}
	return valid, nil
}

// FindModule returns the configured module instance with the given name
func (r *RunningCfg) FindModule(instance string) (ModuleStaticCfg, bool) {
	for _, mod := range r.Modules {
		if mod.InstanceName == instance {
			return mod, true
		}
	}
	return ModuleStaticCfg{}, false
}
