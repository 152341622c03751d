package content

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/use-agent/sitecompare/models"
)

// minLanguageTokens is the smallest token count detection is attempted on.
const minLanguageTokens = 3

// DetectLanguage identifies the language of text as an ISO 639-1 code.
// Detection is trigram based with no random component, so identical input
// always yields the identical result.
func DetectLanguage(text string) models.Language {
	if len(strings.Fields(text)) < minLanguageTokens {
		return models.Language{Status: models.LanguageInsufficientText}
	}

	info := whatlanggo.Detect(text)
	if info.Script == nil || info.Lang < 0 {
		return models.Language{Status: models.LanguageDetectionFailed}
	}
	code := info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	if code == "" {
		return models.Language{Status: models.LanguageDetectionFailed}
	}
	return models.Language{Code: code, Status: models.LanguageDetected}
}
