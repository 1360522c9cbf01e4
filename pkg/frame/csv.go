package frame

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ReadCSV reads a headered CSV stream into a frame. A column whose non-missing
// cells all parse as floats becomes numeric; anything else becomes categorical
// with levels in order of first appearance. The tokens "", "NA" and "NaN" mark
// missing cells.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("frame: reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("frame: csv has no header row")
	}
	header := records[0]
	rows := records[1:]

	f := &Frame{index: make(map[string]int, len(header))}
	for j, name := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			raw[i] = rec[j]
		}
		if err := f.Append(columnFromStrings(name, raw)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func columnFromStrings(name string, raw []string) Column {
	numeric := true
	for _, s := range raw {
		if IsMissingToken(s) {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			numeric = false
			break
		}
	}
	if !numeric {
		return NewCategorical(name, raw)
	}
	values := make([]float64, len(raw))
	for i, s := range raw {
		if IsMissingToken(s) {
			values[i] = nan
			continue
		}
		values[i], _ = strconv.ParseFloat(s, 64)
	}
	return NewNumeric(name, values)
}

// WriteCSV writes the frame as headered CSV. Missing cells are written as "NA".
func WriteCSV(w io.Writer, f *Frame) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.Names()); err != nil {
		return fmt.Errorf("frame: writing csv: %w", err)
	}
	rec := make([]string, f.NumCols())
	for i := 0; i < f.NumRows(); i++ {
		for j, name := range f.Names() {
			c, _ := f.Column(name)
			rec[j] = cellString(c, i)
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("frame: writing csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func cellString(c Column, i int) string {
	if c.IsMissing(i) {
		return "NA"
	}
	switch col := c.(type) {
	case *NumericColumn:
		return strconv.FormatFloat(col.Values[i], 'f', -1, 64)
	case *CategoricalColumn:
		return col.Label(i)
	case *BoolColumn:
		return strconv.FormatBool(col.Values[i])
	}
	return ""
}
