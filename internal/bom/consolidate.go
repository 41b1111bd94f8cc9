package bom

import (
	"github.com/shopspring/decimal"
)

// Consolidate merges raw line items by material id. The output keeps the order in
// which each material was first seen. Quantities are summed, the longer description
// wins, the flags are OR-ed and the first non-empty category is kept.
// Items with an empty id or a non-positive total are dropped.
func Consolidate(items []LineItem) []LineItem {
	index := make(map[string]int, len(items))
	sums := make([]decimal.Decimal, 0, len(items))
	res := make([]LineItem, 0, len(items))

	for _, it := range items {
		if it.MaterialID == "" {
			continue
		}
		qty := decimal.NewFromFloat(it.Quantity)
		i, seen := index[it.MaterialID]
		if !seen {
			index[it.MaterialID] = len(res)
			res = append(res, it)
			sums = append(sums, qty)
			continue
		}

		sums[i] = sums[i].Add(qty)
		cur := &res[i]
		// heuristic: the longer text usually carries more context
		if len(it.Description) > len(cur.Description) {
			cur.Description = it.Description
		}
		if cur.Category == "" {
			cur.Category = it.Category
		}
		cur.IsConfigured = cur.IsConfigured || it.IsConfigured
		cur.IsManual = cur.IsManual || it.IsManual
	}

	out := res[:0]
	for i, it := range res {
		if !sums[i].IsPositive() {
			continue
		}
		it.Quantity = sums[i].InexactFloat64()
		out = append(out, it)
	}
	return out
}

// ApplyManualEdits applies operator edits to a derived BOM.
//
// An edit for a material already on the BOM replaces that line's quantity and marks
// it manual; a quantity of 0 removes the line. An edit for any other material is
// appended as a manual addition. The result is consolidated.
func ApplyManualEdits(items []LineItem, edits []LineItem) []LineItem {
	res := make([]LineItem, len(items))
	copy(res, items)

	for _, edit := range edits {
		if edit.MaterialID == "" {
			continue
		}
		found := false
		for i := range res {
			if res[i].MaterialID != edit.MaterialID {
				continue
			}
			found = true
			res[i].Quantity = edit.Quantity
			res[i].IsManual = true
			if edit.Description != "" {
				res[i].Description = edit.Description
			}
			break
		}
		if found || !(edit.Quantity > 0) {
			continue
		}
		edit.IsManual = true
		res = append(res, edit)
	}

	return Consolidate(res)
}
