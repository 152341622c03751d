package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitecompare/parser"
)

// socialDomains are the keywords identifying a social media link.
var socialDomains = []string{"facebook", "twitter", "instagram", "linkedin", "youtube"}

// Links splits absolute anchors into internal and external links. Only
// hrefs starting with "http" are considered; a link is internal when it
// contains pageURL verbatim. Relative hrefs are ignored.
func Links(pageURL string, doc *parser.Document) (internal, external []string) {
	internal, external = []string{}, []string{}
	doc.FindMatcher(selAnchorHref).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.HasPrefix(href, "http") {
			return
		}
		if strings.Contains(href, pageURL) {
			internal = append(internal, href)
		} else {
			external = append(external, href)
		}
	})
	return internal, external
}

// SocialMediaLinks filters external links down to known social networks.
func SocialMediaLinks(external []string) []string {
	social := []string{}
	for _, link := range external {
		for _, domain := range socialDomains {
			if strings.Contains(link, domain) {
				social = append(social, link)
				break
			}
		}
	}
	return social
}
