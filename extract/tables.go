package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/parser"
)

// Tables returns every <table> as rows of th/td cell texts.
func Tables(doc *parser.Document) []models.Table {
	tables := []models.Table{}
	doc.FindMatcher(selTable).Each(func(_ int, t *goquery.Selection) {
		table := models.Table{}
		t.FindMatcher(selRow).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.FindMatcher(selCell).Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cell.Text())
			})
			table = append(table, cells)
		})
		tables = append(tables, table)
	})
	return tables
}

// Headings collects heading texts for every level h1 through h6.
// All six levels are always present.
func Headings(doc *parser.Document) models.Headings {
	headings := make(models.Headings, 6)
	for level := 1; level <= 6; level++ {
		tag := fmt.Sprintf("h%d", level)
		texts := []string{}
		doc.Tag(tag).Each(func(_ int, h *goquery.Selection) {
			texts = append(texts, h.Text())
		})
		headings[tag] = texts
	}
	return headings
}
