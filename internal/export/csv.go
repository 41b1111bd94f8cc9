package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) SupportedFormat() Format {
	return FormatCSV
}

func (r *CSVRenderer) ContentType() string {
	return "text/csv"
}

func (r *CSVRenderer) Render(doc *Document) ([]byte, error) {
	var csvRows [][]string

	csvRows = append(csvRows, []string{"BILL OF MATERIALS", doc.Title})
	if doc.Customer != "" {
		csvRows = append(csvRows, []string{"Customer", doc.Customer})
	}
	csvRows = append(csvRows, []string{"Generated", doc.Generated.Format(time.RFC3339)})
	csvRows = append(csvRows, []string{""})

	csvRows = append(csvRows, columns)
	csvRows = append(csvRows, doc.rows()...)

	if len(doc.Warnings) > 0 {
		csvRows = append(csvRows, []string{""})
		csvRows = append(csvRows, []string{"WARNINGS"})
		for _, w := range doc.Warnings {
			csvRows = append(csvRows, []string{w})
		}
	}

	return r.convertRowsToCSV(csvRows)
}

func (r *CSVRenderer) convertRowsToCSV(csvRows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, row := range csvRows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}
