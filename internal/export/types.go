package export

import (
	"time"

	"github.com/solarwerk/pv-planner/internal/bom"
)

type Renderer interface {
	Render(doc *Document) ([]byte, error)
	SupportedFormat() Format
	ContentType() string
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Document is one bill of materials ready to be rendered.
type Document struct {
	Title     string
	Customer  string
	Generated time.Time
	Items     []bom.LineItem
	Warnings  []string
}

var columns = []string{"Position", "Material", "Description", "Category", "Quantity", "Configured", "Manual"}

func (d *Document) rows() [][]string {
	rows := make([][]string, 0, len(d.Items))
	for i, item := range d.Items {
		rows = append(rows, []string{
			formatInt(i + 1),
			item.MaterialID,
			item.Description,
			item.Category,
			formatQuantity(item.Quantity),
			formatFlag(item.IsConfigured),
			formatFlag(item.IsManual),
		})
	}
	return rows
}
