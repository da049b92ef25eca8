package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// TabularToObjects turns rows into objects keyed by headers. A nil cell is
// omitted from its object; an explicit null is kept. Cells past the last
// header are dropped.
func TabularToObjects(headers []string, rows [][]jsonvalue.Value) []*jsonvalue.Object {
	out := make([]*jsonvalue.Object, len(rows))
	for r, row := range rows {
		obj := jsonvalue.NewObject()
		for i, header := range headers {
			if i >= len(row) || row[i] == nil {
				continue
			}
			obj.Set(header, row[i])
		}
		out[r] = obj
	}
	return out
}

// Transpose converts row-major cells to column-major. The first row fixes
// the number of columns; cells beyond it are dropped. Short rows leave nil
// cells, and trailing nil cells are trimmed from each column.
func Transpose(rows [][]any) [][]any {
	if len(rows) == 0 {
		return [][]any{}
	}
	cols := make([][]any, len(rows[0]))
	for c := range cols {
		column := make([]any, len(rows))
		for r, row := range rows {
			if c < len(row) {
				column[r] = row[c]
			}
		}
		end := len(column)
		for end > 0 && column[end-1] == nil {
			end--
		}
		cols[c] = column[:end]
	}
	return cols
}

// ReadCSV reads delimited rows from r and returns them column-major. Rows
// may have different lengths. Use ',' for CSV and '\t' for TSV.
func ReadCSV(r io.Reader, comma rune) ([][]any, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = cell
		}
		rows[i] = row
	}
	return Transpose(rows), nil
}

// ReadCSVFile reads a sheet from path. Files ending in ".tsv" are
// tab-separated.
func ReadCSVFile(path string) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	return ReadCSV(f, comma)
}

// ImportFiles reads a nodes sheet and a links sheet and builds a document
// from them.
func ImportFiles(nodesPath, linksPath string) (*Result, error) {
	nodes, err := ReadCSVFile(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("nodes sheet: %w", err)
	}
	links, err := ReadCSVFile(linksPath)
	if err != nil {
		return nil, fmt.Errorf("links sheet: %w", err)
	}
	return CreateFromSheetData(nodes, links)
}
