package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NewRenderer returns the renderer of format.
func NewRenderer(format Format) (Renderer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatCSV:
		return NewCSVRenderer(), nil
	case FormatXLSX:
		return NewXLSXRenderer(), nil
	default:
		return nil, errors.Errorf("unsupported export format %q", format)
	}
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatQuantity prints whole quantities without decimals.
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func formatFlag(b bool) string {
	if b {
		return "x"
	}
	return ""
}

// FileName returns a file name for the document in format.
func FileName(title string, format Format) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, title)
	if name == "" {
		name = "bom"
	}
	return fmt.Sprintf("%s.%s", name, format)
}
