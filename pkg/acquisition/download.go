package acquisition

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type (
	//Download is one source file fetched before the modules run
	Download struct {
		sourceURL string
		tmpPath   string
		done      bool
		err       error
	}

	//DownloadService collects the source URLs the modules need and
	//fetches each of them once per run
	DownloadService struct {
		tmpDir    string
		client    *http.Client
		log       *log.Logger
		mu        sync.Mutex
		downloads map[string]*Download
		order     []*Download
	}
)

//NewDownloadService creates a service storing files below tmpDir
func NewDownloadService(tmpDir string, client *http.Client, logger *log.Logger) *DownloadService {
	if client == nil {
		client = http.DefaultClient
	}
	return &DownloadService{
		tmpDir:    tmpDir,
		client:    client,
		log:       logger,
		downloads: make(map[string]*Download),
	}
}

//AddDownload registers url for the next Fetch. Registering the same url
//twice returns the same Download.
func (s *DownloadService) AddDownload(url string) *Download {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.downloads[url]; ok {
		return d
	}
	d := &Download{
		sourceURL: url,
		tmpPath:   filepath.Join(s.tmpDir, uuid.New().String()+".download"),
	}
	s.downloads[url] = d
	s.order = append(s.order, d)
	return d
}

//Len returns the number of registered downloads
func (s *DownloadService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

//Fetch downloads every registered url concurrently. Individual failures
//are recorded on the Download and counted in the returned value.
func (s *DownloadService) Fetch(ctx context.Context) (int, error) {
	if err := os.MkdirAll(s.tmpDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	s.mu.Lock()
	pending := make([]*Download, 0, len(s.order))
	for _, d := range s.order {
		if !d.done {
			pending = append(pending, d)
		}
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, d := range pending {
		wg.Add(1)
		go func(d *Download) {
			defer wg.Done()
			err := s.fetchOne(ctx, d)
			if err != nil {
				s.log.WithFields(log.Fields{
					"url":   d.sourceURL,
					"error": err.Error(),
				}).Error("download failed")
			} else {
				s.log.WithFields(log.Fields{
					"url":  d.sourceURL,
					"path": d.tmpPath,
				}).Debug("download finished")
			}
			s.mu.Lock()
			d.done = true
			d.err = err
			s.mu.Unlock()
		}(d)
	}
	wg.Wait()

	failed := 0
	for _, d := range pending {
		if d.Err() != nil {
			failed++
		}
	}
	return failed, nil
}

func (s *DownloadService) fetchOne(ctx context.Context, d *Download) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.sourceURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp := d.tmpPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err = io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, d.tmpPath)
}

//Cleanup removes the downloaded files
func (s *DownloadService) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.order {
		if err := os.Remove(d.tmpPath); err != nil && !os.IsNotExist(err) {
			s.log.WithError(err).Warn("failed to remove temporary download")
		}
	}
}

//SourceURL returns the url the file is fetched from
func (d *Download) SourceURL() string {
	return d.sourceURL
}

//TmpPath returns where the fetched file is stored locally
func (d *Download) TmpPath() string {
	return d.tmpPath
}

//Err returns why the download failed. Reading a download that was
//never fetched is an error as well.
func (d *Download) Err() error {
	if !d.done {
		return fmt.Errorf("%s has not been downloaded", d.sourceURL)
	}
	return d.err
}
