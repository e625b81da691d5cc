package acquisition

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	logger := log.New()
	logger.Out = ioutil.Discard
	return logger
}

func TestAddDownloadDeduplicates(t *testing.T) {
	s := NewDownloadService(t.TempDir(), nil, newTestLogger())
	a := s.AddDownload("http://example.org/a.json")
	b := s.AddDownload("http://example.org/a.json")
	c := s.AddDownload("http://example.org/c.json")

	assert.True(t, a == b)
	assert.False(t, a == c)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "http://example.org/a.json", a.SourceURL())
	assert.NotEqual(t, a.TmpPath(), c.TmpPath())
	assert.Error(t, a.Err())
}

func TestFetch(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"path": %q}`, r.URL.Path)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "tmp")
	s := NewDownloadService(dir, srv.Client(), newTestLogger())
	good := s.AddDownload(srv.URL + "/good.json")
	s.AddDownload(srv.URL + "/good.json")
	missing := s.AddDownload(srv.URL + "/missing.json")

	failed, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	require.NoError(t, good.Err())
	content, err := ioutil.ReadFile(good.TmpPath())
	require.NoError(t, err)
	assert.Equal(t, `{"path": "/good.json"}`, string(content))

	assert.Error(t, missing.Err())
	_, err = os.Stat(missing.TmpPath())
	assert.True(t, os.IsNotExist(err))

	// already fetched downloads are not requested again
	failed, err = s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	s.Cleanup()
	_, err = os.Stat(good.TmpPath())
	assert.True(t, os.IsNotExist(err))
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{}")
	}))
	defer srv.Close()

	s := NewDownloadService(t.TempDir(), srv.Client(), newTestLogger())
	d := s.AddDownload(srv.URL + "/x.json")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	failed, err := s.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Error(t, d.Err())
}
