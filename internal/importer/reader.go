// Package importer reads spreadsheet uploads and stores their rows.
package importer

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, use xlsx, xls or csv")
	ErrEmptyFile         = errors.New("the file does not contain any rows")
)

// Format is a supported upload format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// FormatOf returns the format for a file name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "xlsx", "xlsm":
		return FormatXLSX, nil
	case "xls":
		return FormatXLS, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// File is a read upload.
type File struct {
	Name     string
	Checksum string
	Rows     [][]string
}

// Read reads all rows of the first sheet of the upload.
func Read(r io.Reader, name string) (File, error) {
	format, err := FormatOf(name)
	if err != nil {
		return File{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, err
	}

	rows, err := ReadRows(data, format)
	if err != nil {
		return File{}, err
	}

	return File{
		Name:     name,
		Checksum: fmt.Sprintf("%x", sha256.Sum256(data)),
		Rows:     rows,
	}, nil
}

// ReadRows returns the rows of the first sheet.
func ReadRows(data []byte, format Format) ([][]string, error) {
	var rows [][]string
	var err error

	switch format {
	case FormatXLSX:
		rows, err = readXLSX(data)
	case FormatXLS:
		rows, err = readXLS(data)
	case FormatCSV:
		rows, err = readCSV(data)
	default:
		return nil, ErrUnsupportedFormat
	}

	if err != nil {
		return nil, fmt.Errorf("could not read %s file: %w", format, err)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetRows(f.GetSheetName(0))
}

func readXLS(data []byte) ([][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}

	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	return r.ReadAll()
}
