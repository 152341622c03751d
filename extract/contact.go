package extract

import (
	"regexp"
	"sort"

	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/parser"
)

var (
	reMailto = regexp.MustCompile(`mailto:([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	rePhone  = regexp.MustCompile(`(\+?\(?\d{1,4}\)?[\s\-]?\d{1,3}[\s\-]?\d{3}[\s\-]?\d{4})`)
)

// ContactInfo scans the page markup for mailto: addresses and phone-like
// numbers, and collects contact forms. Emails and numbers are unique and
// sorted.
func ContactInfo(doc *parser.Document) models.ContactInfo {
	raw := doc.Raw()
	return models.ContactInfo{
		Emails:       uniqueSubmatches(reMailto, raw),
		PhoneNumbers: uniqueSubmatches(rePhone, raw),
		ContactForms: ContactForms(doc),
	}
}

func uniqueSubmatches(re *regexp.Regexp, s string) []string {
	seen := make(map[string]struct{})
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		seen[m[1]] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
