// Package spreadsheet turns uploaded CSV and XLSX files into the CSV text
// handed to the model.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	dgerrors "github.com/yungbote/dashgen-backend/internal/pkg/errors"
)

// xlsx files are zip archives.
var zipMagic = []byte("PK\x03\x04")

// FromUpload returns CSV text for an uploaded file. XLSX workbooks are
// converted from their first non-empty sheet.
func FromUpload(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".xlsx" || ext == ".xlsm" || (ext == "" && bytes.HasPrefix(data, zipMagic)):
		return XLSXToCSV(bytes.NewReader(data))
	case ext == ".csv" || ext == ".txt" || ext == "":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: csv is not valid utf-8", dgerrors.ErrUnsupportedFile)
		}
		text := strings.TrimSpace(strings.TrimPrefix(string(data), "\uFEFF"))
		if text == "" {
			return "", dgerrors.ErrEmptyCSV
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", dgerrors.ErrUnsupportedFile, ext)
	}
}

// XLSXToCSV renders the first sheet that has any rows as CSV.
func XLSXToCSV(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: open workbook: %v", dgerrors.ErrUnsupportedFile, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		rows = trimTrailingEmpty(rows)
		if len(rows) == 0 {
			continue
		}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(rows); err != nil {
			return "", fmt.Errorf("write csv: %w", err)
		}
		return strings.TrimSpace(buf.String()), nil
	}
	return "", dgerrors.ErrEmptyCSV
}

func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		empty := true
		for _, c := range last {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}

// Preview caps text at maxChars runes. Non-positive maxChars disables the cap.
func Preview(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	n := 0
	for i := range text {
		if n == maxChars {
			return text[:i]
		}
		n++
	}
	return text
}

// Shape reports the row and column count of CSV text, for logging.
func Shape(text string) (rows, cols int) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		rows++
		if len(rec) > cols {
			cols = len(rec)
		}
	}
	return rows, cols
}
