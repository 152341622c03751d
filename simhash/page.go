package simhash

import "github.com/use-agent/sitecompare/models"

// PageFingerprint pairs the content and structure hashes of one page.
type PageFingerprint struct {
	Content   uint64
	Structure uint64
}

// Compare measures how far apart two pages are.
func Compare(a, b PageFingerprint) (content, structure int) {
	return Distance(a.Content, b.Content), Distance(a.Structure, b.Structure)
}

// Pairwise compares every pair of fingerprinted URLs in order. A nil entry
// in fps marks a URL without a fingerprint; it is left out of every pair.
func Pairwise(urls []string, fps []*PageFingerprint) []models.PairSimilarity {
	pairs := []models.PairSimilarity{}
	for i := 0; i < len(urls) && i < len(fps); i++ {
		if fps[i] == nil {
			continue
		}
		for j := i + 1; j < len(urls) && j < len(fps); j++ {
			if fps[j] == nil {
				continue
			}
			content, structure := Compare(*fps[i], *fps[j])
			pairs = append(pairs, models.PairSimilarity{
				A:                 urls[i],
				B:                 urls[j],
				ContentDistance:   content,
				StructureDistance: structure,
				ContentSimilarity: Similarity(content),
			})
		}
	}
	return pairs
}
