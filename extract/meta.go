package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/parser"
)

// MetaTags maps every <meta> element to its content, keyed by its name
// attribute or, failing that, its property attribute. Later duplicates
// overwrite earlier ones.
func MetaTags(doc *parser.Document) map[string]string {
	tags := make(map[string]string)
	doc.FindMatcher(selMeta).Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if name, ok := s.Attr("name"); ok && name != "" {
			tags[name] = content
			return
		}
		if prop, ok := s.Attr("property"); ok && prop != "" {
			tags[prop] = content
		}
	})
	return tags
}

// MetaKeywords splits the content of every <meta name="keywords"> on commas.
// Keywords are neither trimmed nor de-duplicated.
func MetaKeywords(doc *parser.Document) []string {
	keywords := []string{}
	doc.FindMatcher(selMetaKeywords).Each(func(_ int, s *goquery.Selection) {
		if content, _ := s.Attr("content"); content != "" {
			keywords = append(keywords, strings.Split(content, ",")...)
		}
	})
	return keywords
}

// Viewport returns the content of the first <meta name="viewport">.
func Viewport(doc *parser.Document) models.Lookup {
	return firstAttr(doc.FindMatcher(selMetaViewport), "content")
}

// CanonicalLink returns the href of the first <link rel="canonical">.
func CanonicalLink(doc *parser.Document) models.Lookup {
	return firstAttr(doc.FindMatcher(selCanonical), "href")
}

// Favicon returns the href of the first <link rel="icon">, including
// "shortcut icon".
func Favicon(doc *parser.Document) models.Lookup {
	return firstAttr(doc.FindMatcher(selFavicon), "href")
}

func firstAttr(s *goquery.Selection, attr string) models.Lookup {
	if s.Length() == 0 {
		return models.Lookup{}
	}
	v, ok := s.First().Attr(attr)
	if !ok {
		return models.Lookup{}
	}
	return models.Found(v)
}
