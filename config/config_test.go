package config

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type TestStruct struct {
	InertString       string
	ExpandString      string
	ExpandStringSlice []string
	Inner             TestStructInner
	InnerSlice        []TestStructInner
}

type TestStructInner struct {
	InertString       string
	ExpandString      string
	ExpandStringSlice []string
}

func TestExpandConfig(t *testing.T) {
	inert := "DO_NOT_CHANGE"
	outerEnvVarName := "_OUTER_ENV_VAR"
	outerEnvVarValue := "OUTER_VALUE"
	innerEnvVarName := "_INNER_ENV_VAR"
	innerEnvVarValue := "INNER_VALUE"
	test := TestStruct{
		InertString:       inert,
		ExpandString:      "$" + outerEnvVarName,
		ExpandStringSlice: []string{"$" + outerEnvVarName, inert},
	}
	innerStruct := TestStructInner{
		InertString:       inert,
		ExpandString:      "$" + innerEnvVarName,
		ExpandStringSlice: []string{"$" + innerEnvVarName, inert},
	}
	test.Inner = innerStruct
	test.InnerSlice = []TestStructInner{innerStruct}

	os.Setenv(outerEnvVarName, outerEnvVarValue)
	os.Setenv(innerEnvVarName, innerEnvVarValue)
	defer os.Unsetenv(outerEnvVarName)
	defer os.Unsetenv(innerEnvVarName)

	expandConfig(reflect.ValueOf(&test).Elem())

	assert.Equal(t, inert, test.InertString)
	assert.Equal(t, outerEnvVarValue, test.ExpandString)
	assert.Equal(t, []string{outerEnvVarValue, inert}, test.ExpandStringSlice)
	assert.Equal(t, innerEnvVarValue, test.Inner.ExpandString)
	assert.Equal(t, innerEnvVarValue, test.InnerSlice[0].ExpandString)
	assert.Equal(t, inert, test.InnerSlice[0].InertString)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("./.no-such-config-8f2c1.yaml")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadConfig(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	err := os.WriteFile(path, []byte(staticConfigParserTestConfig), 0644)
	assert.Nil(t, err)

	conf, err := LoadConfig(path)
	assert.Nil(t, err)
	assert.Equal(t, "mod_xrootd", conf.T.XRootD.DatasetTable)
	assert.Equal(t, "sub_xrootd_details", conf.T.XRootD.DetailsTable)
	assert.Equal(t, "logs", conf.T.Log.LogTable)
	assert.Len(t, conf.R.Modules, 2)

	mod, ok := conf.R.FindModule("gridka_tape")
	assert.True(t, ok)
	assert.Equal(t, "GridKa-Tape", mod.TierName)

	_, ok = conf.R.FindModule("missing")
	assert.False(t, ok)
}

func TestLoadTestingConfig(t *testing.T) {
	conf, err := LoadTestingConfig("mongodb://localhost:27017")
	assert.Nil(t, err)
	assert.Equal(t, "mongodb://localhost:27017", conf.S.MongoDB.ConnectionString)
	assert.Equal(t, BackendMongoDB, conf.S.Database.Backend)
	assert.Equal(t, "test_disk", conf.R.Modules[0].InstanceName)
}
