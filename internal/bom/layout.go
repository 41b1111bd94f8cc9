package bom

// LayoutTotals aggregates the two orientation groups of a module layout.
type LayoutTotals struct {
	TotalModules int `json:"totalModules"`
	TotalRows    int `json:"totalRows"`
	CountA       int `json:"countA"`
	CountB       int `json:"countB"`
	RowsA        int `json:"rowsA"`
	RowsB        int `json:"rowsB"`
}

// ComputeLayoutTotals sums module counts and counts rows per orientation.
// Rows without modules are not counted as rows.
func ComputeLayoutTotals(orientationA, orientationB []LayoutRow) LayoutTotals {
	countA, rowsA := sumRows(orientationA)
	countB, rowsB := sumRows(orientationB)
	return LayoutTotals{
		TotalModules: countA + countB,
		TotalRows:    rowsA + rowsB,
		CountA:       countA,
		CountB:       countB,
		RowsA:        rowsA,
		RowsB:        rowsB,
	}
}

func sumRows(rows []LayoutRow) (modules int, count int) {
	for _, r := range rows {
		n := int(r.ModuleCount)
		if n <= 0 {
			continue
		}
		modules += n
		count++
	}
	return modules, count
}
