package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
)

const utf8BOM = "\ufeff"

// ReadCSV decodes a CSV stream into a Table. Header cells are trimmed and
// then renamed through renames; headers without a mapping are kept as-is.
// Short records leave trailing columns absent; surplus cells are dropped.
func ReadCSV(source string, r io.Reader, renames map[string]string) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return Table{Source: source}, nil
	}
	if err != nil {
		return Table{}, errors.Wrapf(err, "read header of %s", source)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if canonical, ok := renames[h]; ok {
			h = canonical
		}
		columns[i] = h
	}

	table := Table{Source: source, Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, errors.Wrapf(err, "read record of %s", source)
		}
		if isBlankRecord(record) {
			continue
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(record) {
				continue
			}
			row[col] = record[i]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
