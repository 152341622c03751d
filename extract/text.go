package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitecompare/parser"
)

// mainContentLimit is the number of runes kept for the Main Content field.
const mainContentLimit = 1000

// ParagraphText joins the text of every <p> with single spaces, in
// document order. It is the input of every content analyzer.
func ParagraphText(doc *parser.Document) string {
	var parts []string
	doc.FindMatcher(selParagraph).Each(func(_ int, p *goquery.Selection) {
		parts = append(parts, p.Text())
	})
	return strings.Join(parts, " ")
}

// MainContent truncates text to its first 1000 runes and appends "...".
// The marker is appended even when nothing was cut.
func MainContent(text string) string {
	if utf8.RuneCountInString(text) <= mainContentLimit {
		return text + "..."
	}
	runes := []rune(text)
	return string(runes[:mainContentLimit]) + "..."
}
