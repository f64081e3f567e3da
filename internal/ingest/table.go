// Package ingest turns raw CSV sources into renamed row tables and
// concatenates them, tolerating per-source failures.
package ingest

import "strings"

// Row is one source record keyed by canonical column name.
// A column the source does not carry is absent from the map.
type Row map[string]string

// Get returns the trimmed value of col and whether the column exists.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Table is the decoded content of one source.
type Table struct {
	Source  string
	Columns []string
	Rows    []Row
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}
