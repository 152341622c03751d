// Package compare pivots per-URL results into a field-by-URL table.
package compare

import "github.com/use-agent/sitecompare/models"

// Compare builds the comparison table of rs. Rows are the union of every
// result's fields in first-seen order, so the first URL's fields lead.
// Columns are the URLs in result order. A URL lacking a field, such as an
// error record, gets a nil cell.
func Compare(rs models.ResultSet) *models.ComparisonTable {
	table := models.NewComparisonTable()
	for _, r := range rs {
		table.URLs = append(table.URLs, r.URL)
	}

	for _, r := range rs {
		for _, f := range r.Fields() {
			row, ok := table.Values[f.Name]
			if !ok {
				row = make(map[string]any, len(rs))
				for _, u := range table.URLs {
					row[u] = nil
				}
				table.Values[f.Name] = row
				table.Fields = append(table.Fields, f.Name)
			}
			row[r.URL] = f.Value
		}
	}
	return table
}
