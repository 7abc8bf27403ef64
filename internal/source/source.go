// Package source produces the raw row grids that the limits parser consumes.
//
// A Source is anything that can yield rows of text cells: a CSV file, an
// uploaded CSV stream or one sheet of an XLSX workbook. Failures to produce
// rows are reported as *UnavailableError, which matches ErrSourceUnavailable
// under errors.Is.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrSourceUnavailable is matched by every error that prevents a source
// from producing rows.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrUnsupportedFormat is returned for file extensions with no reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrSheetNotFound is returned when a requested XLSX sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// UnavailableError wraps the cause of a failed read with the source name.
type UnavailableError struct {
	Name string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Name, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSourceUnavailable) match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

func unavailable(name string, err error) error {
	return &UnavailableError{Name: name, Err: err}
}

// Source yields the rows of one table.
type Source interface {
	// Name identifies the table in reports, typically the file base name.
	Name() string
	// Rows reads the whole table. Rows may have different lengths.
	Rows(ctx context.Context) ([][]string, error)
}

// Format is a supported input file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks a format from a file name's extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Open returns a file-backed source chosen by extension. sheet only applies
// to XLSX files; empty selects the first sheet.
func Open(path, sheet string) (Source, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, unavailable(filepath.Base(path), err)
	}
	if format == FormatXLSX {
		return NewXLSXFile(path, sheet), nil
	}
	return NewCSVFile(path), nil
}

// FromReader returns a source reading from r. name is used both for format
// detection and as the source name. r is consumed by the first Rows call.
func FromReader(name string, r io.Reader, size int64, sheet string) (Source, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, unavailable(name, err)
	}
	if format == FormatXLSX {
		return NewXLSXReader(name, r, sheet), nil
	}
	return NewCSVReader(name, r, size), nil
}
