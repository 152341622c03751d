// Package extract holds the per-signal extractors. Each extractor is a pure
// function of a parsed document (and sometimes the page URL or another
// extractor's output). Extractors never fail: a missing signal is an empty
// container or a models.Lookup that is not present.
package extract

import "github.com/andybalholm/cascadia"

var (
	selMeta         = cascadia.MustCompile("meta")
	selMetaKeywords = cascadia.MustCompile(`meta[name="keywords"]`)
	selMetaViewport = cascadia.MustCompile(`meta[name="viewport"]`)
	selAnchorHref   = cascadia.MustCompile("a[href]")
	selForm         = cascadia.MustCompile("form")
	selInput        = cascadia.MustCompile("input")
	selScriptSrc    = cascadia.MustCompile("script[src]")
	selImgSrc       = cascadia.MustCompile("img[src]")
	selVideoSrc     = cascadia.MustCompile("video[src]")
	selAudio        = cascadia.MustCompile("audio")
	selIFrame       = cascadia.MustCompile("iframe")
	selStylesheet   = cascadia.MustCompile(`link[rel~="stylesheet"]`)
	selCanonical    = cascadia.MustCompile(`link[rel~="canonical"]`)
	selFavicon      = cascadia.MustCompile(`link[rel~="icon"]`)
	selTable        = cascadia.MustCompile("table")
	selRow          = cascadia.MustCompile("tr")
	selCell         = cascadia.MustCompile("th, td")
	selParagraph    = cascadia.MustCompile("p")
)

// ldJSONType is the script type carrying JSON-LD structured data.
const ldJSONType = "application/ld+json"
