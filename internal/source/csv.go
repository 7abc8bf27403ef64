package source

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVSource reads comma-separated rows from a file or a stream.
type CSVSource struct {
	name string
	open func() (io.ReadCloser, int64, error)
}

// NewCSVFile returns a source for the CSV file at path.
func NewCSVFile(path string) *CSVSource {
	return &CSVSource{
		name: filepath.Base(path),
		open: func() (io.ReadCloser, int64, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, 0, err
			}
			var size int64
			if st, err := f.Stat(); err == nil {
				size = st.Size()
			}
			return f, size, nil
		},
	}
}

// NewCSVReader returns a source reading CSV text from r. size may be 0 if
// unknown.
func NewCSVReader(name string, r io.Reader, size int64) *CSVSource {
	return &CSVSource{
		name: name,
		open: func() (io.ReadCloser, int64, error) {
			return io.NopCloser(r), size, nil
		},
	}
}

// Name implements Source.
func (s *CSVSource) Name() string { return s.name }

// Rows implements Source. Field counts may differ between rows and quotes
// are parsed leniently; a UTF-8 BOM is dropped and invalid UTF-8 replaced.
func (s *CSVSource) Rows(ctx context.Context) ([][]string, error) {
	rc, size, err := s.open()
	if err != nil {
		return nil, unavailable(s.name, err)
	}
	defer rc.Close()

	counter := WrapForStreaming(rc, size)
	r := csv.NewReader(counter)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		if len(rows)%ContextCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, unavailable(s.name, err)
		}
		rows = append(rows, rec)
	}

	slog.Debug("csv source read", "source", s.name, "rows", len(rows), "bytes", counter.BytesRead)
	return rows, nil
}
