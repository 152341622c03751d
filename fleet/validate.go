package fleet

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/models"
)

// IsValidURL reports whether s is an absolute http or https URL with a
// host. It is a syntactic check only.
func IsValidURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}

// validate checks the batch size and every URL's syntax, then
// de-duplicates urls keeping first occurrences. The size limit applies to
// the raw input, duplicates included.
func validate(urls []string, maxURLs int) ([]string, error) {
	if len(urls) == 0 {
		return nil, models.NewAnalyzeError(models.ErrCodeInvalidInput, "at least one URL is required", nil)
	}

	maxURLs = config.ClampMaxURLs(maxURLs)
	if len(urls) > maxURLs {
		return nil, models.NewAnalyzeError(models.ErrCodeTooManyURLs,
			fmt.Sprintf("at most %d URLs can be compared, got %d", maxURLs, len(urls)), nil)
	}

	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	var invalid []string
	for _, u := range unique {
		if !IsValidURL(u) {
			invalid = append(invalid, u)
		}
	}
	if len(invalid) > 0 {
		return nil, models.NewAnalyzeError(models.ErrCodeInvalidURL,
			"invalid URL: "+strings.Join(invalid, ", "), nil).WithURLs(invalid)
	}
	return unique, nil
}
