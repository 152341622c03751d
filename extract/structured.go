package extract

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitecompare/parser"
)

// JSONLD decodes every <script type="application/ld+json"> block.
// Blocks that are not valid JSON are skipped.
func JSONLD(doc *parser.Document) []any {
	blocks := []any{}
	doc.WithAttrValue("script", "type", ldJSONType).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &v); err != nil {
			slog.Debug("extract: skipping invalid JSON-LD block", "error", err)
			return
		}
		blocks = append(blocks, v)
	})
	return blocks
}

// SchemaMarkup reports the schema.org blocks of the page. Only JSON-LD
// markup is recognised, so it yields the same blocks as JSONLD.
func SchemaMarkup(doc *parser.Document) []any {
	return JSONLD(doc)
}

// Comments returns the text of every HTML comment in document order.
func Comments(doc *parser.Document) []string {
	return doc.Comments()
}
