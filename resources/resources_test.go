package resources

import (
	"testing"

	"github.com/activecm/xrootd-monitor/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerLevels(t *testing.T) {
	cases := map[int]log.Level{
		0: log.ErrorLevel,
		1: log.WarnLevel,
		2: log.InfoLevel,
		3: log.DebugLevel,
		7: log.ErrorLevel,
	}
	for level, expected := range cases {
		logger := initLogger(&config.LogStaticCfg{LogLevel: level})
		require.Equal(t, expected, logger.Level)
	}
}

func TestAddFileLogger(t *testing.T) {
	dir := t.TempDir()
	logger := initLogger(&config.LogStaticCfg{LogLevel: 2})
	require.NoError(t, addFileLogger(logger, dir))
	require.Len(t, logger.Hooks[log.InfoLevel], 1)
}

func TestSQLiteTestingResources(t *testing.T) {
	res := InitSQLiteTestingResources(t)
	require.Nil(t, res.DB)
	require.NotNil(t, res.SQL)
	exists, err := res.SQL.TableExists("mod_xrootd")
	require.NoError(t, err)
	require.False(t, exists)
}
