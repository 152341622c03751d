package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitecompare/parser"
)

// trackingMarkers flag a script source as analytics or tracking.
// Matching is case-sensitive.
var trackingMarkers = []string{"analytics", "tracking"}

// TrackingScripts returns the src of every script that looks like an
// analytics or tracking include.
func TrackingScripts(doc *parser.Document) []string {
	scripts := []string{}
	for _, src := range scriptSources(doc) {
		for _, marker := range trackingMarkers {
			if strings.Contains(src, marker) {
				scripts = append(scripts, src)
				break
			}
		}
	}
	return scripts
}

// ExternalJavaScript returns the src attribute of every <script src>.
func ExternalJavaScript(doc *parser.Document) []string {
	return scriptSources(doc)
}

func scriptSources(doc *parser.Document) []string {
	srcs := []string{}
	doc.FindMatcher(selScriptSrc).Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		srcs = append(srcs, src)
	})
	return srcs
}
