package export

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	bomSheet      = "BOM"
	warningsSheet = "Warnings"
	// items start below the header block
	headerRows = 4
)

type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) SupportedFormat() Format {
	return FormatXLSX
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Render(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetIndex, err := f.NewSheet(bomSheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bom sheet")
	}
	f.SetActiveSheet(sheetIndex)
	_ = f.DeleteSheet("Sheet1")

	header := [][]any{
		{"Bill of materials", doc.Title},
		{"Customer", doc.Customer},
		{"Generated", doc.Generated.Format(time.RFC3339)},
	}
	for i, row := range header {
		if err := f.SetSheetRow(bomSheet, cell(0, i+1), &row); err != nil {
			return nil, errors.Wrap(err, "failed to write header")
		}
	}

	if err := setStringRow(f, bomSheet, headerRows, columns); err != nil {
		return nil, err
	}
	for i, item := range doc.Items {
		row := []any{i + 1, item.MaterialID, item.Description, item.Category, item.Quantity, formatFlag(item.IsConfigured), formatFlag(item.IsManual)}
		if err := f.SetSheetRow(bomSheet, cell(0, headerRows+1+i), &row); err != nil {
			return nil, errors.Wrapf(err, "failed to write line %d", i+1)
		}
	}
	if err := f.SetColWidth(bomSheet, "C", "C", 48); err != nil {
		return nil, errors.Wrap(err, "failed to size description column")
	}

	if len(doc.Warnings) > 0 {
		if _, err := f.NewSheet(warningsSheet); err != nil {
			return nil, errors.Wrap(err, "failed to create warnings sheet")
		}
		for i, w := range doc.Warnings {
			if err := f.SetCellValue(warningsSheet, cell(0, i+1), w); err != nil {
				return nil, errors.Wrap(err, "failed to write warning")
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to write workbook")
	}
	return buf.Bytes(), nil
}

func setStringRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]any, 0, len(values))
	for _, v := range values {
		cells = append(cells, v)
	}
	if err := f.SetSheetRow(sheet, cell(0, row), &cells); err != nil {
		return errors.Wrap(err, "failed to write row")
	}
	return nil
}

// cell converts a zero based column and a one based row to a cell reference.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
