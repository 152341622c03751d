package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/parser"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="description" content="first">
  <meta name="description" content="second">
  <meta property="og:title" content="OG Title">
  <meta name="viewport" content="width=device-width">
  <meta name="keywords" content="go, html,scraping">
  <meta name="keywords" content="extra">
  <link rel="stylesheet" href="/main.css">
  <link rel="preload stylesheet" href="/font.css">
  <link rel="stylesheet">
  <link rel="canonical" href="https://example.com/page">
  <link rel="shortcut icon" href="/favicon.ico">
  <script src="https://www.google-analytics.com/analytics.js"></script>
  <script src="/js/app.js"></script>
  <script src="/js/Analytics.js"></script>
  <script type="application/ld+json">{"@type": "Organization", "name": "Example"}</script>
  <script type="application/ld+json">{not json</script>
</head>
<body>
  <!-- banner -->
  <h1>Title</h1>
  <h2>Sub A</h2><h2>Sub B</h2>
  <p>Hello world.</p>
  <p>Contact us at <a href="mailto:info@example.com">info@example.com</a> or +1 555 123 4567.</p>
  <a href="https://example.com/about">About</a>
  <a href="/relative">Relative</a>
  <a href="https://facebook.com/example">FB</a>
  <a href="https://other.org/">Other</a>
  <a href="mailto:sales@example.com">Sales</a>
  <a href="mailto:info@example.com">Info again</a>
  <img src="/logo.png" alt="Logo">
  <img src="/no-alt.png">
  <img alt="no src">
  <video src="/clip.mp4"></video>
  <audio src="/sound.mp3"></audio>
  <audio></audio>
  <iframe src="https://www.youtube.com/embed/x"></iframe>
  <form action="/Contact/send" method="post">
    <input type="text" name="email">
    <div><input type="submit" value="Send"></div>
  </form>
  <form action="/search"><input name="q"></form>
  <table>
    <tr><th>Name</th><th>Age</th></tr>
    <tr><td>Ann</td><td>30</td></tr>
  </table>
</body>
</html>`

const pageURL = "https://example.com"

func fixture(t *testing.T) *parser.Document {
	t.Helper()
	return parser.ParseString(fixturePage)
}

func TestMetaTags(t *testing.T) {
	got := MetaTags(fixture(t))
	want := map[string]string{
		"description": "second",
		"og:title":    "OG Title",
		"viewport":    "width=device-width",
		"keywords":    "extra",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MetaTags = %v, want %v", got, want)
	}
}

func TestMetaKeywords(t *testing.T) {
	got := MetaKeywords(fixture(t))
	want := []string{"go", " html", "scraping", "extra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MetaKeywords = %q, want %q", got, want)
	}
}

func TestHeadLookups(t *testing.T) {
	doc := fixture(t)

	if got := Viewport(doc); got.String() != "width=device-width" {
		t.Errorf("Viewport = %q", got)
	}
	if got := CanonicalLink(doc); got.String() != "https://example.com/page" {
		t.Errorf("CanonicalLink = %q", got)
	}
	if got := Favicon(doc); got.String() != "/favicon.ico" {
		t.Errorf("Favicon = %q", got)
	}

	empty := parser.ParseString("<html><body></body></html>")
	for name, l := range map[string]models.Lookup{
		"viewport":  Viewport(empty),
		"canonical": CanonicalLink(empty),
		"favicon":   Favicon(empty),
	} {
		if l.Present || l.String() != models.NotFound {
			t.Errorf("%s on empty page = %+v, want Not found", name, l)
		}
	}
}

func TestLinks(t *testing.T) {
	internal, external := Links(pageURL, fixture(t))

	wantInternal := []string{"https://example.com/about"}
	wantExternal := []string{"https://facebook.com/example", "https://other.org/"}
	if !reflect.DeepEqual(internal, wantInternal) {
		t.Errorf("internal = %v, want %v", internal, wantInternal)
	}
	if !reflect.DeepEqual(external, wantExternal) {
		t.Errorf("external = %v, want %v", external, wantExternal)
	}
}

func TestSocialMediaLinks(t *testing.T) {
	got := SocialMediaLinks([]string{
		"https://facebook.com/a",
		"https://example.org",
		"https://www.youtube.com/watch?v=1",
		"https://LinkedIn.com/x", // case-sensitive keyword match
	})
	want := []string{"https://facebook.com/a", "https://www.youtube.com/watch?v=1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SocialMediaLinks = %v, want %v", got, want)
	}

	if got := SocialMediaLinks(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestJSONLD_SkipsInvalidBlocks(t *testing.T) {
	got := JSONLD(fixture(t))
	if len(got) != 1 {
		t.Fatalf("expected 1 valid block, got %d: %v", len(got), got)
	}
	obj, ok := got[0].(map[string]any)
	if !ok || obj["name"] != "Example" {
		t.Errorf("unexpected block: %#v", got[0])
	}
	if !reflect.DeepEqual(SchemaMarkup(fixture(t)), got) {
		t.Error("SchemaMarkup should match JSONLD")
	}
}

func TestForms(t *testing.T) {
	got := Forms(fixture(t))
	if len(got) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(got))
	}
	want := models.Form{
		Action: "/Contact/send",
		Method: "post",
		Inputs: []models.FormInput{
			{Type: "text", Name: "email"},
			{Type: "submit", Value: "Send"},
		},
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("form[0] = %+v, want %+v", got[0], want)
	}
	if got[1].Method != "" || len(got[1].Inputs) != 1 || got[1].Inputs[0].Name != "q" {
		t.Errorf("form[1] = %+v", got[1])
	}
}

func TestScripts(t *testing.T) {
	doc := fixture(t)

	tracking := TrackingScripts(doc)
	if !reflect.DeepEqual(tracking, []string{"https://www.google-analytics.com/analytics.js"}) {
		t.Errorf("TrackingScripts = %v", tracking)
	}

	external := ExternalJavaScript(doc)
	if len(external) != 3 {
		t.Errorf("ExternalJavaScript = %v, want 3 entries", external)
	}
}

func TestMedia(t *testing.T) {
	got := Media(fixture(t))
	want := []models.MediaItem{
		{Src: "/logo.png", Alt: "Logo"},
		{Src: "/no-alt.png", Alt: "No alt text"},
		{Src: "/clip.mp4"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Media = %+v, want %+v", got, want)
	}
}

func TestMediaLikeSources(t *testing.T) {
	doc := fixture(t)

	if got := AudioFiles(doc); !reflect.DeepEqual(got, []string{"/sound.mp3"}) {
		t.Errorf("AudioFiles = %v", got)
	}
	if got := IFrames(doc); !reflect.DeepEqual(got, []string{"https://www.youtube.com/embed/x"}) {
		t.Errorf("IFrames = %v", got)
	}
	if got := Stylesheets(doc); !reflect.DeepEqual(got, []string{"/main.css", "/font.css"}) {
		t.Errorf("Stylesheets = %v", got)
	}
}

func TestComments(t *testing.T) {
	if got := Comments(fixture(t)); !reflect.DeepEqual(got, []string{" banner "}) {
		t.Errorf("Comments = %q", got)
	}
}

func TestTables(t *testing.T) {
	got := Tables(fixture(t))
	want := []models.Table{{{"Name", "Age"}, {"Ann", "30"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tables = %v, want %v", got, want)
	}
}

func TestHeadings(t *testing.T) {
	got := Headings(fixture(t))
	if len(got) != 6 {
		t.Fatalf("expected all 6 levels, got %d", len(got))
	}
	if !reflect.DeepEqual(got["h1"], []string{"Title"}) {
		t.Errorf("h1 = %v", got["h1"])
	}
	if !reflect.DeepEqual(got["h2"], []string{"Sub A", "Sub B"}) {
		t.Errorf("h2 = %v", got["h2"])
	}
	if got["h6"] == nil || len(got["h6"]) != 0 {
		t.Errorf("h6 should be an empty list, got %#v", got["h6"])
	}
	if empty := Headings(parser.ParseString("<p>x</p>")); len(empty) != 6 || len(empty["h1"]) != 0 {
		t.Errorf("page without headings should still map all 6 levels, got %#v", empty)
	}
}

func TestContactInfo(t *testing.T) {
	got := ContactInfo(fixture(t))

	wantEmails := []string{"info@example.com", "sales@example.com"}
	if !reflect.DeepEqual(got.Emails, wantEmails) {
		t.Errorf("Emails = %v, want %v", got.Emails, wantEmails)
	}
	found := false
	for _, p := range got.PhoneNumbers {
		if strings.Contains(p, "555 123 4567") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected phone number in %v", got.PhoneNumbers)
	}
	if len(got.ContactForms) != 1 || got.ContactForms[0].Action != "/Contact/send" {
		t.Errorf("ContactForms = %+v", got.ContactForms)
	}
}

func TestParagraphTextAndMainContent(t *testing.T) {
	text := ParagraphText(fixture(t))
	if !strings.HasPrefix(text, "Hello world. Contact us at") {
		t.Errorf("ParagraphText = %q", text)
	}

	if got := MainContent("short"); got != "short..." {
		t.Errorf("MainContent(short) = %q", got)
	}

	long := strings.Repeat("é", 1500)
	got := MainContent(long)
	if want := strings.Repeat("é", 1000) + "..."; got != want {
		t.Errorf("MainContent should keep 1000 runes, got %d runes", len([]rune(got)))
	}
}

func TestExtractors_EmptyDocumentReturnsEmptyContainers(t *testing.T) {
	doc := parser.ParseString("")
	internal, external := Links(pageURL, doc)

	lists := map[string][]string{
		"internal": internal,
		"external": external,
		"tracking": TrackingScripts(doc),
		"js":       ExternalJavaScript(doc),
		"audio":    AudioFiles(doc),
		"iframes":  IFrames(doc),
		"css":      Stylesheets(doc),
		"keywords": MetaKeywords(doc),
		"comments": Comments(doc),
	}
	for name, l := range lists {
		if l == nil || len(l) != 0 {
			t.Errorf("%s: expected empty non-nil slice, got %#v", name, l)
		}
	}
	if f := Forms(doc); f == nil || len(f) != 0 {
		t.Errorf("Forms: expected empty, got %#v", f)
	}
	if m := Media(doc); m == nil || len(m) != 0 {
		t.Errorf("Media: expected empty, got %#v", m)
	}
	if tb := Tables(doc); tb == nil || len(tb) != 0 {
		t.Errorf("Tables: expected empty, got %#v", tb)
	}
	if j := JSONLD(doc); j == nil || len(j) != 0 {
		t.Errorf("JSONLD: expected empty, got %#v", j)
	}
	if mt := MetaTags(doc); mt == nil || len(mt) != 0 {
		t.Errorf("MetaTags: expected empty, got %#v", mt)
	}
}

func TestMissingAttributesAreEmpty(t *testing.T) {
	doc := parser.ParseString(`<html><head><meta name="author"></head><body>
<form><input></form><img src="/a.png"><video src="/v.mp4"></video></body></html>`)

	if got := MetaTags(doc); !reflect.DeepEqual(got, map[string]string{"author": ""}) {
		t.Errorf("MetaTags = %v", got)
	}
	wantForms := []models.Form{{Inputs: []models.FormInput{{}}}}
	if got := Forms(doc); !reflect.DeepEqual(got, wantForms) {
		t.Errorf("Forms = %+v, want %+v", got, wantForms)
	}
	wantMedia := []models.MediaItem{{Src: "/a.png", Alt: noAltText}, {Src: "/v.mp4"}}
	if got := Media(doc); !reflect.DeepEqual(got, wantMedia) {
		t.Errorf("Media = %+v, want %+v", got, wantMedia)
	}
}
