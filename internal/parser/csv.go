package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/docmodel/internal/doctree"
)

// CSVParser handles CSV files. The whole file becomes one table whose first
// record is the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &doctree.Document{Title: baseTitle(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	table := &doctree.Table{}
	table.SetMeta("columns", len(records[0]))
	for i, record := range records {
		cells := make([]*doctree.Cell, len(record))
		for j, field := range record {
			cells[j] = doctree.NewCell(field)
		}
		if i == 0 {
			table.Rows = append(table.Rows, &doctree.Row{Header: cells})
		} else {
			table.Rows = append(table.Rows, &doctree.Row{Cells: cells})
		}
	}
	doc.Append(table)

	return doc, nil
}
