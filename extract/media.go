package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/parser"
)

// noAltText is reported for images without an alt attribute.
const noAltText = "No alt text"

// Media returns every <img src> followed by every <video src>.
func Media(doc *parser.Document) []models.MediaItem {
	items := []models.MediaItem{}
	doc.FindMatcher(selImgSrc).Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, ok := s.Attr("alt")
		if !ok {
			alt = noAltText
		}
		items = append(items, models.MediaItem{Src: src, Alt: alt})
	})
	doc.FindMatcher(selVideoSrc).Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		items = append(items, models.MediaItem{Src: src})
	})
	return items
}

// AudioFiles returns the non-empty src of every <audio>.
func AudioFiles(doc *parser.Document) []string {
	return nonEmptyAttr(doc.FindMatcher(selAudio), "src")
}

// IFrames returns the non-empty src of every <iframe>.
func IFrames(doc *parser.Document) []string {
	return nonEmptyAttr(doc.FindMatcher(selIFrame), "src")
}

// Stylesheets returns the non-empty href of every <link rel="stylesheet">.
func Stylesheets(doc *parser.Document) []string {
	return nonEmptyAttr(doc.FindMatcher(selStylesheet), "href")
}

func nonEmptyAttr(s *goquery.Selection, attr string) []string {
	out := []string{}
	s.Each(func(_ int, el *goquery.Selection) {
		if v, _ := el.Attr(attr); v != "" {
			out = append(out, v)
		}
	})
	return out
}
