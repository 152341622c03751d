package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/parser"
)

// Forms returns every <form> with its <input> descendants in document order.
func Forms(doc *parser.Document) []models.Form {
	forms := []models.Form{}
	doc.FindMatcher(selForm).Each(func(_ int, s *goquery.Selection) {
		forms = append(forms, formOf(s))
	})
	return forms
}

// ContactForms returns the forms whose action mentions "contact",
// case-insensitively.
func ContactForms(doc *parser.Document) []models.Form {
	forms := []models.Form{}
	doc.FindMatcher(selForm).Each(func(_ int, s *goquery.Selection) {
		action, _ := s.Attr("action")
		if strings.Contains(strings.ToLower(action), "contact") {
			forms = append(forms, formOf(s))
		}
	})
	return forms
}

func formOf(s *goquery.Selection) models.Form {
	action, _ := s.Attr("action")
	method, _ := s.Attr("method")
	form := models.Form{
		Action: action,
		Method: method,
		Inputs: []models.FormInput{},
	}
	s.FindMatcher(selInput).Each(func(_ int, in *goquery.Selection) {
		typ, _ := in.Attr("type")
		name, _ := in.Attr("name")
		value, _ := in.Attr("value")
		form.Inputs = append(form.Inputs, models.FormInput{Type: typ, Name: name, Value: value})
	})
	return form
}
