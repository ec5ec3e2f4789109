package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	BaseName  = "odoo_partners_full_list_clean"
	SheetName = "Partners"
)

type Files struct {
	CSV  string
	XLSX string
}

// writeAtomic writes to a temporary sibling of `path` and renames it into place.
func writeAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = tmp.Chmod(0644)
	if err == nil {
		err = write(tmp)
	}
	err = errors.Join(err, tmp.Close())
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func WriteCSV(path string, t Table) error {
	err := writeAtomic(path, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		if err := writer.Write(t.Header); err != nil {
			return err
		}
		if err := writer.WriteAll(t.Rows); err != nil {
			return err
		}
		return writer.Error()
	})
	if err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return nil
}

// longer integers are shown in scientific notation by the General number
// format, so they are written as text
const maxNumericDigits = 11

// cellValue keeps short canonical integers numeric so spreadsheets can sort and
// sum them.
func cellValue(s string) any {
	if len(strings.TrimPrefix(s, "-")) > maxNumericDigits {
		return s
	}
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return s
	}
	return n
}

func newWorkbook(t Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func WriteXLSX(path string, t Table) error {
	f, err := newWorkbook(t)
	if err != nil {
		return fmt.Errorf("build xlsx: %w", err)
	}
	defer f.Close()

	err = writeAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
	if err != nil {
		return fmt.Errorf("write xlsx %s: %w", path, err)
	}
	return nil
}

// WriteAll writes both exports into `dir`, replacing earlier ones.
func WriteAll(dir string, t Table) (Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Files{}, fmt.Errorf("create output dir: %w", err)
	}
	files := Files{
		CSV:  filepath.Join(dir, BaseName+".csv"),
		XLSX: filepath.Join(dir, BaseName+".xlsx"),
	}
	if err := WriteCSV(files.CSV, t); err != nil {
		return Files{}, err
	}
	if err := WriteXLSX(files.XLSX, t); err != nil {
		return Files{}, err
	}
	return files, nil
}

func tableFromRows(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("no header row")
	}
	t := Table{Header: rows[0], Rows: rows[1:]}
	// spreadsheets drop trailing empty cells
	for i, row := range t.Rows {
		for len(row) < len(t.Header) {
			row = append(row, "")
		}
		t.Rows[i] = row
	}
	return t, nil
}

func ReadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	t, err := tableFromRows(rows)
	if err != nil {
		return Table{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	return t, nil
}

func ReadXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return Table{}, fmt.Errorf("read xlsx %s: %w", path, err)
	}
	t, err := tableFromRows(rows)
	if err != nil {
		return Table{}, fmt.Errorf("read xlsx %s: %w", path, err)
	}
	return t, nil
}

// Read picks the reader from the file extension.
func Read(path string) (Table, error) {
	switch filepath.Ext(path) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return Table{}, fmt.Errorf("unsupported export %q, expected .csv or .xlsx", path)
	}
}
