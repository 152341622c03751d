package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// shingleSize is the n-gram width used over tag sequences.
const shingleSize = 3

// FingerprintDOM computes a SimHash of the element structure under root.
// Only tag names in document order count; text and attributes are ignored,
// so two pages built from the same template hash alike.
func FingerprintDOM(root *html.Node) uint64 {
	tags := elementNames(root)
	if len(tags) == 0 {
		return 0
	}
	if shingles := makeShingles(tags, shingleSize); len(shingles) > 0 {
		return fold(shingles)
	}
	return fold(tags)
}

func elementNames(root *html.Node) []string {
	var tags []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tags = append(tags, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return tags
}

// makeShingles creates n-gram shingles from a slice of tokens.
func makeShingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}
	shingles := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+n], "_"))
	}
	return shingles
}
