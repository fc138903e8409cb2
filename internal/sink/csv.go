// Package sink persists normalized marketplace records to per-collection
// CSV files. One sink serves every worker of a job; appends are serialized
// so rows from concurrent fetches never interleave inside a file.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var recordsWritten = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "osea_records_written_total",
		Help: "Total records written to CSV output, by record kind.",
	},
	[]string{"kind"},
)

type openFile struct {
	file   *os.File
	writer *csv.Writer
}

// CSV writes records into <dir>/<slug>/<kind>.csv files. Files are created
// lazily on first append, with their header as the first row, and stay open
// until Close.
type CSV struct {
	dir string

	mu    sync.Mutex
	files map[string]*openFile
}

// NewCSV creates a sink rooted at dir. The directory is created if absent.
func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &CSV{
		dir:   dir,
		files: make(map[string]*openFile),
	}, nil
}

// Append writes rows to the collection's file of the given kind, creating
// the file with its header first if this is the first append. The whole
// batch lands contiguously. Appending no rows is a no-op and does not
// create the file.
func (s *CSV) Append(slug, kind string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	of, err := s.open(slug, kind, header)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := of.writer.Write(row); err != nil {
			return fmt.Errorf("write %s/%s row: %w", slug, kind, err)
		}
	}
	of.writer.Flush()
	if err := of.writer.Error(); err != nil {
		return fmt.Errorf("flush %s/%s: %w", slug, kind, err)
	}

	recordsWritten.WithLabelValues(kind).Add(float64(len(rows)))
	return nil
}

// open returns the collection's file of the given kind, creating it (and
// writing the header) on first use. Caller holds s.mu.
func (s *CSV) open(slug, kind string, header []string) (*openFile, error) {
	key := slug + "/" + kind
	if of, exists := s.files[key]; exists {
		return of, nil
	}

	dir := filepath.Join(s.dir, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create collection dir %s: %w", dir, err)
	}

	file, err := os.Create(filepath.Join(dir, kind+".csv"))
	if err != nil {
		return nil, fmt.Errorf("create %s file for %s: %w", kind, slug, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("write %s/%s header: %w", slug, kind, err)
	}

	of := &openFile{file: file, writer: writer}
	s.files[key] = of
	return of, nil
}

// Close flushes and closes every open file. The sink is unusable afterwards.
func (s *CSV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for key, of := range s.files {
		of.writer.Flush()
		if err := of.writer.Error(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flush %s: %w", key, err)
		}
		if err := of.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", key, err)
		}
	}
	s.files = make(map[string]*openFile)
	return firstErr
}
