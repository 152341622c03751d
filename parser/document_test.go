package parser

import (
	"testing"
)

func TestParse_MalformedMarkup(t *testing.T) {
	doc := ParseString(`<html><body><p>one<p>two<div><table><tr><td>cell</table></span></body>`)

	if got := doc.Tag("p").Length(); got != 2 {
		t.Errorf("expected 2 paragraphs, got %d", got)
	}
	if got := doc.Tag("td").Text(); got != "cell" {
		t.Errorf("expected recovered cell text %q, got %q", "cell", got)
	}
}

func TestParse_EmptyBody(t *testing.T) {
	doc := Parse(nil, "")
	if doc.Root() == nil {
		t.Fatal("empty body should still produce a document node")
	}
	if got := doc.Tag("p").Length(); got != 0 {
		t.Errorf("expected no paragraphs, got %d", got)
	}
	if got := doc.Comments(); len(got) != 0 {
		t.Errorf("expected no comments, got %v", got)
	}
}

func TestParse_CharsetFromContentType(t *testing.T) {
	// "café" in ISO-8859-1.
	body := []byte("<p>caf\xe9</p>")
	doc := Parse(body, "text/html; charset=ISO-8859-1")

	if got := doc.Tag("p").Text(); got != "café" {
		t.Errorf("expected decoded text %q, got %q", "café", got)
	}
}

func TestComments(t *testing.T) {
	doc := ParseString(`<!-- head --><html><body><!--a--><div><!-- b --></div><p>x</p></body></html>`)
	got := doc.Comments()
	want := []string{" head ", "a", " b "}

	if len(got) != len(want) {
		t.Fatalf("expected %d comments, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("comment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestWithAttr(t *testing.T) {
	doc := ParseString(`<img src="a.png"><img alt="x"><img src="">`)
	if got := doc.WithAttr("img", "src").Length(); got != 2 {
		t.Errorf("expected 2 img[src], got %d", got)
	}
}

func TestWithAttrValue(t *testing.T) {
	doc := ParseString(`<head>
		<script type="application/ld+json">{}</script>
		<script type="text/javascript"></script>
		<script type="application/ld+json">[]</script>
	</head>`)

	if got := doc.WithAttrValue("script", "type", "application/ld+json").Length(); got != 2 {
		t.Errorf("expected 2 ld+json scripts, got %d", got)
	}
	if got := doc.WithAttrValue("script", "type", "application/ld").Length(); got != 0 {
		t.Errorf("value match must be exact, got %d", got)
	}
}
