package ingest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
)

// Source produces one raw task table.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Table, error)
}

// NewSource picks an HTTPSource for http(s) locations and a FileSource
// for anything else; a file:// prefix is stripped.
func NewSource(name, location string, renames map[string]string, client *http.Client, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(name, location, renames, client, timeout)
	}
	return NewFileSource(name, strings.TrimPrefix(location, "file://"), renames)
}

// HTTPSource downloads a published CSV export.
type HTTPSource struct {
	name    string
	url     string
	renames map[string]string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPSource creates an HTTP CSV source. A nil client uses http.DefaultClient.
func NewHTTPSource(name, url string, renames map[string]string, client *http.Client, timeout time.Duration) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		name:    name,
		url:     url,
		renames: renames,
		client:  client,
		timeout: timeout,
	}
}

// Name returns the configured source name
func (s *HTTPSource) Name() string {
	return s.name
}

// Fetch performs the GET and decodes the body
func (s *HTTPSource) Fetch(ctx context.Context) (Table, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: build request: %v", errors.ErrSourceFetch, s.name, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: %v", errors.ErrSourceFetch, s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Table{}, fmt.Errorf("%w: %s: unexpected status %d", errors.ErrSourceFetch, s.name, resp.StatusCode)
	}

	table, err := ReadCSV(s.name, resp.Body, s.renames)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", errors.ErrSourceFetch, err)
	}
	return table, nil
}

// FileSource reads a CSV export from local disk.
type FileSource struct {
	name    string
	path    string
	renames map[string]string
}

// NewFileSource creates a local CSV source
func NewFileSource(name, path string, renames map[string]string) *FileSource {
	return &FileSource{name: name, path: path, renames: renames}
}

// Name returns the configured source name
func (s *FileSource) Name() string {
	return s.name
}

// Fetch opens and decodes the file
func (s *FileSource) Fetch(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, fmt.Errorf("%w: %s: %v", errors.ErrSourceFetch, s.name, err)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: %v", errors.ErrSourceFetch, s.name, err)
	}
	defer f.Close()

	table, err := ReadCSV(s.name, f, s.renames)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", errors.ErrSourceFetch, err)
	}
	return table, nil
}
