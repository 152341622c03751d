package analyzer

import (
	"net/http"

	"github.com/use-agent/sitecompare/models"
)

const (
	// MaxScore is the best achievable score.
	MaxScore = 100

	pointsPerCheck = 10
)

// scoreChecks are the presence conditions worth pointsPerCheck each.
var scoreChecks = []func(r *models.PageRecord) bool{
	func(r *models.PageRecord) bool { return len(r.MetaTags) > 0 },
	func(r *models.PageRecord) bool { return r.DetectedLanguage.Status != models.LanguageDetectionFailed },
	func(r *models.PageRecord) bool { return len(r.InternalLinks) > 0 },
	func(r *models.PageRecord) bool { return len(r.ExternalLinks) > 0 },
	func(r *models.PageRecord) bool { return len(r.Forms) > 0 },
	func(r *models.PageRecord) bool { return len(r.Media) > 0 },
	func(r *models.PageRecord) bool { return len(r.Tables) > 0 },
	// The heading map always carries all six levels once extracted.
	func(r *models.PageRecord) bool { return len(r.Headings) > 0 },
	func(r *models.PageRecord) bool { return len(r.SocialMediaLinks) > 0 },
	func(r *models.PageRecord) bool {
		return r.HTTPInfo.OK() && r.HTTPInfo.Value.StatusCode == http.StatusOK
	},
}

// Score awards pointsPerCheck for every satisfied presence condition. There
// is no partial credit, so the result is a multiple of ten in [0, MaxScore].
func Score(r *models.PageRecord) int {
	score := 0
	for _, check := range scoreChecks {
		if check(r) {
			score += pointsPerCheck
		}
	}
	return score
}
