package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the rows of one worksheet.
type XLSXSource struct {
	name  string
	sheet string
	open  func() (*excelize.File, error)
}

// NewXLSXFile returns a source for a workbook on disk. An empty sheet
// selects the first sheet of the workbook.
func NewXLSXFile(path, sheet string) *XLSXSource {
	return &XLSXSource{
		name:  filepath.Base(path),
		sheet: sheet,
		open:  func() (*excelize.File, error) { return excelize.OpenFile(path) },
	}
}

// NewXLSXReader returns a source for a workbook read from r.
func NewXLSXReader(name string, r io.Reader, sheet string) *XLSXSource {
	return &XLSXSource{
		name:  name,
		sheet: sheet,
		open:  func() (*excelize.File, error) { return excelize.OpenReader(r) },
	}
}

// Name implements Source.
func (s *XLSXSource) Name() string { return s.name }

// Rows implements Source. Cell values are the formatted text excelize
// reports; trailing empty cells of a row are not returned.
func (s *XLSXSource) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.open()
	if err != nil {
		return nil, unavailable(s.name, err)
	}
	defer f.Close()

	sheet, err := s.resolveSheet(f)
	if err != nil {
		return nil, unavailable(s.name, err)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, unavailable(s.name, fmt.Errorf("read sheet %q: %w", sheet, err))
	}

	slog.Debug("xlsx source read", "source", s.name, "sheet", sheet, "rows", len(rows))
	return rows, nil
}

func (s *XLSXSource) resolveSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if s.sheet == "" {
		if len(sheets) == 0 {
			return "", fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
		}
		return sheets[0], nil
	}
	if !slices.Contains(sheets, s.sheet) {
		return "", fmt.Errorf("%w: %q", ErrSheetNotFound, s.sheet)
	}
	return s.sheet, nil
}
