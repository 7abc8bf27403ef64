package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Comparison Report"

// Fill colours of the key list, by bucket.
const (
	fillHeader  = "1F4E78"
	fillAdded   = "00B0F0"
	fillRemoved = "FF0000"
	fillChanged = "FFFF00"
)

// keyListRow is the header row of the key list on the right side.
const keyListRow = 7

type xlsxStyles struct {
	header, title, cell, center int
	added, removed, changed    int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fillHeader}},
			Alignment: center,
			Border:    thinBorder(),
		}},
		{&s.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 12},
			Alignment: center,
			Border:    thinBorder(),
		}},
		{&s.cell, &excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "left"},
			Border:    thinBorder(),
		}},
		{&s.center, &excelize.Style{Alignment: center, Border: thinBorder()}},
		{&s.added, fillStyle(fillAdded, center)},
		{&s.removed, fillStyle(fillRemoved, center)},
		{&s.changed, fillStyle(fillChanged, center)},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

func fillStyle(color string, align *excelize.Alignment) *excelize.Style {
	return &excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		Alignment: align,
		Border:    thinBorder(),
	}
}

// sheetWriter accumulates the first error of a series of cell writes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, value any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

func boundValue(b Bound) any {
	if !b.Set {
		return "N/A"
	}
	return b.Value
}

func bundleName(name string) string {
	return strings.TrimSuffix(orUnnamed(name), filepath.Ext(name))
}

// WriteXLSX writes d as a one-sheet workbook: a version block and a change
// count block on the left, and the colour-coded key list on the right
// (blue added, red removed, yellow changed).
func (d *Document) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	c := d.Comparison()
	s := d.Summary
	sw := &sheetWriter{f: f, sheet: SheetName}

	// Left: versions and change counts.
	sw.set(1, 1, "SW Version", st.header)
	sw.set(2, 1, "Total keys", st.header)
	sw.set(1, 2, orUnnamed(c.OldSource), st.center)
	sw.set(2, 2, c.OldTotalKeys, st.center)
	sw.set(1, 3, orUnnamed(c.NewSource), st.center)
	sw.set(2, 3, c.NewTotalKeys, st.center)

	sw.set(1, 5, "Type of change", st.header)
	sw.set(2, 5, "Quantity", st.header)
	counts := []struct {
		label string
		n     int
	}{
		{"Added Keys", s.Added},
		{"Removed Keys", s.Removed},
		{"Changed Keys", s.Changed},
		{"Total changes", s.TotalChanges},
	}
	for i, cnt := range counts {
		sw.set(1, 6+i, cnt.label, st.cell)
		sw.set(2, 6+i, cnt.n, st.center)
	}

	// Right: key list.
	sw.set(4, 1, fmt.Sprintf("Bundle %s VS bundle %s", bundleName(c.OldSource), bundleName(c.NewSource)), st.title)
	if sw.err == nil {
		sw.err = f.MergeCell(SheetName, "D1", "I1")
	}

	for i, h := range []string{"Change", "Key Name", "UL", "LL", "New UL", "New LL"} {
		sw.set(4+i, keyListRow, h, st.header)
	}

	row := keyListRow + 1
	for _, r := range d.Added {
		sw.set(4, row, "Added Keys", st.added)
		sw.set(5, row, r.Name, st.cell)
		sw.set(6, row, boundValue(r.Upper), st.center)
		sw.set(7, row, boundValue(r.Lower), st.center)
		row++
	}
	for _, r := range d.Removed {
		sw.set(4, row, "Removed Keys", st.removed)
		sw.set(5, row, r.Name, st.cell)
		sw.set(6, row, boundValue(r.Upper), st.center)
		sw.set(7, row, boundValue(r.Lower), st.center)
		row++
	}
	for _, ch := range d.Changes {
		sw.set(4, row, "Changed Keys ("+ch.Type+")", st.changed)
		sw.set(5, row, ch.Name, st.cell)
		sw.set(6, row, boundValue(ch.OldUpper), st.center)
		sw.set(7, row, boundValue(ch.OldLower), st.center)
		sw.set(8, row, boundValue(ch.NewUpper), st.center)
		sw.set(9, row, boundValue(ch.NewLower), st.center)
		row++
	}
	if sw.err != nil {
		return fmt.Errorf("write report sheet: %w", sw.err)
	}

	for _, cw := range []struct {
		col   string
		width float64
	}{{"A", 25}, {"B", 12}, {"D", 24}, {"E", 30}} {
		if err := f.SetColWidth(SheetName, cw.col, cw.col, cw.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
