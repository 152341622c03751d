package models

import (
	"encoding/json"
	"strings"
)

// PageRecord field names. These are the stable keys of the per-URL output
// and of the comparison table.
const (
	FieldMetaTags              = "Meta Tags"
	FieldMainContent           = "Main Content"
	FieldDetectedLanguage      = "Detected Language"
	FieldInternalLinks         = "Internal Links"
	FieldExternalLinks         = "External Links"
	FieldJSONLD                = "JSON-LD Data"
	FieldForms                 = "Forms"
	FieldTrackingScripts       = "Tracking Scripts"
	FieldMedia                 = "Media"
	FieldComments              = "Comments"
	FieldHTTPInfo              = "HTTP Info"
	FieldTables                = "Tables"
	FieldHeadings              = "Headings"
	FieldSocialMediaLinks      = "Social Media Links"
	FieldAudioFiles            = "Audio Files"
	FieldStylesheets           = "Stylesheets"
	FieldIFrames               = "iFrames"
	FieldExternalJavaScript    = "External JavaScript"
	FieldHTTPResponseTime      = "HTTP Response Time"
	FieldBrokenImages          = "Broken Images"
	FieldMetaKeywords          = "Meta Keywords"
	FieldContactInfo           = "Contact Info"
	FieldWordCount             = "Word Count"
	FieldKeywordDensity        = "Keyword Density"
	FieldSentimentPolarity     = "Sentiment Polarity"
	FieldSentimentSubjectivity = "Sentiment Subjectivity"
	FieldPageLoadTime          = "Page Load Time"
	FieldViewportMetaTag       = "Viewport Meta Tag"
	FieldCanonicalLink         = "Canonical Link"
	FieldFavicon               = "Favicon"
	FieldSchemaMarkup          = "Schema Markup"
	FieldScore                 = "Score"
	FieldMaxScore              = "Max Score"

	// FieldError is the single key of an error record.
	FieldError = "error"
)

// FieldNames lists every PageRecord field in output order.
var FieldNames = []string{
	FieldMetaTags, FieldMainContent, FieldDetectedLanguage, FieldInternalLinks,
	FieldExternalLinks, FieldJSONLD, FieldForms, FieldTrackingScripts, FieldMedia,
	FieldComments, FieldHTTPInfo, FieldTables, FieldHeadings, FieldSocialMediaLinks,
	FieldAudioFiles, FieldStylesheets, FieldIFrames, FieldExternalJavaScript,
	FieldHTTPResponseTime, FieldBrokenImages, FieldMetaKeywords, FieldContactInfo,
	FieldWordCount, FieldKeywordDensity, FieldSentimentPolarity,
	FieldSentimentSubjectivity, FieldPageLoadTime, FieldViewportMetaTag,
	FieldCanonicalLink, FieldFavicon, FieldSchemaMarkup, FieldScore, FieldMaxScore,
}

// PageRecord is the full set of signals extracted from one URL.
// Every field is always populated; empty signals are empty containers,
// "Not found" lookups or error outcomes, never absent.
type PageRecord struct {
	MetaTags              map[string]string   `json:"Meta Tags"`
	MainContent           string              `json:"Main Content"`
	DetectedLanguage      Language            `json:"Detected Language"`
	InternalLinks         []string            `json:"Internal Links"`
	ExternalLinks         []string            `json:"External Links"`
	JSONLD                []any               `json:"JSON-LD Data"`
	Forms                 []Form              `json:"Forms"`
	TrackingScripts       []string            `json:"Tracking Scripts"`
	Media                 []MediaItem         `json:"Media"`
	Comments              []string            `json:"Comments"`
	HTTPInfo              Outcome[HTTPStatus] `json:"HTTP Info"`
	Tables                []Table             `json:"Tables"`
	Headings              Headings            `json:"Headings"`
	SocialMediaLinks      []string            `json:"Social Media Links"`
	AudioFiles            []string            `json:"Audio Files"`
	Stylesheets           []string            `json:"Stylesheets"`
	IFrames               []string            `json:"iFrames"`
	ExternalJavaScript    []string            `json:"External JavaScript"`
	HTTPResponseTime      Outcome[float64]    `json:"HTTP Response Time"`
	BrokenImages          []string            `json:"Broken Images"`
	MetaKeywords          []string            `json:"Meta Keywords"`
	ContactInfo           ContactInfo         `json:"Contact Info"`
	WordCount             int                 `json:"Word Count"`
	KeywordDensity        map[string]float64  `json:"Keyword Density"`
	SentimentPolarity     float64             `json:"Sentiment Polarity"`
	SentimentSubjectivity float64             `json:"Sentiment Subjectivity"`
	PageLoadTime          float64             `json:"Page Load Time"`
	ViewportMetaTag       Lookup              `json:"Viewport Meta Tag"`
	CanonicalLink         Lookup              `json:"Canonical Link"`
	Favicon               Lookup              `json:"Favicon"`
	SchemaMarkup          []any               `json:"Schema Markup"`
	Score                 int                 `json:"Score"`
	MaxScore              int                 `json:"Max Score"`
}

// Field is one named value of a record, in output order.
type Field struct {
	Name  string
	Value any
}

// Fields returns the record as an ordered list of named values.
func (r *PageRecord) Fields() []Field {
	return []Field{
		{FieldMetaTags, r.MetaTags},
		{FieldMainContent, r.MainContent},
		{FieldDetectedLanguage, r.DetectedLanguage},
		{FieldInternalLinks, r.InternalLinks},
		{FieldExternalLinks, r.ExternalLinks},
		{FieldJSONLD, r.JSONLD},
		{FieldForms, r.Forms},
		{FieldTrackingScripts, r.TrackingScripts},
		{FieldMedia, r.Media},
		{FieldComments, r.Comments},
		{FieldHTTPInfo, r.HTTPInfo},
		{FieldTables, r.Tables},
		{FieldHeadings, r.Headings},
		{FieldSocialMediaLinks, r.SocialMediaLinks},
		{FieldAudioFiles, r.AudioFiles},
		{FieldStylesheets, r.Stylesheets},
		{FieldIFrames, r.IFrames},
		{FieldExternalJavaScript, r.ExternalJavaScript},
		{FieldHTTPResponseTime, r.HTTPResponseTime},
		{FieldBrokenImages, r.BrokenImages},
		{FieldMetaKeywords, r.MetaKeywords},
		{FieldContactInfo, r.ContactInfo},
		{FieldWordCount, r.WordCount},
		{FieldKeywordDensity, r.KeywordDensity},
		{FieldSentimentPolarity, r.SentimentPolarity},
		{FieldSentimentSubjectivity, r.SentimentSubjectivity},
		{FieldPageLoadTime, r.PageLoadTime},
		{FieldViewportMetaTag, r.ViewportMetaTag},
		{FieldCanonicalLink, r.CanonicalLink},
		{FieldFavicon, r.Favicon},
		{FieldSchemaMarkup, r.SchemaMarkup},
		{FieldScore, r.Score},
		{FieldMaxScore, r.MaxScore},
	}
}

// Form is a <form> element with its <input> descendants. A missing
// attribute and an empty one are both recorded as "".
type Form struct {
	Action string      `json:"action"`
	Method string      `json:"method"`
	Inputs []FormInput `json:"inputs"`
}

// FormInput is a single <input> inside a form.
type FormInput struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MediaItem is an image or video source. Alt is only set for images.
type MediaItem struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Table is a list of rows, each a list of th/td cell texts.
type Table [][]string

// Headings maps "h1".."h6" to the texts of every heading at that level.
type Headings map[string][]string

// ContactInfo groups contact signals found on a page.
type ContactInfo struct {
	Emails       []string `json:"emails"`
	PhoneNumbers []string `json:"phone_numbers"`
	ContactForms []Form   `json:"contact_forms"`
}

// HTTPStatus is the status line and headers of a GET against the page.
type HTTPStatus struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
}

// Outcome holds either a value or the error message that replaced it.
// It serialises as the bare value, or as {"error": message} on failure.
type Outcome[T any] struct {
	Value T
	Err   string
}

// Succeeded wraps a value.
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failed records err in place of a value.
func Failed[T any](err error) Outcome[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Outcome[T]{Err: msg}
}

// OK reports whether the outcome carries a value.
func (o Outcome[T]) OK() bool { return o.Err == "" }

func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	if o.Err != "" {
		return json.Marshal(map[string]string{FieldError: o.Err})
	}
	return json.Marshal(o.Value)
}

// NotFound is the placeholder for an absent single-valued signal.
const NotFound = "Not found"

// Lookup is a single-valued signal that may be missing from the page.
type Lookup struct {
	Value   string
	Present bool
}

// Found wraps a present value.
func Found(v string) Lookup { return Lookup{Value: v, Present: true} }

func (l Lookup) String() string {
	if !l.Present {
		return NotFound
	}
	return l.Value
}

func (l Lookup) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// Markers reported in place of a language code.
const (
	MarkerInsufficientText = "Insufficient text for detection"
	MarkerDetectionFailed  = "Detection failed"
)

// LanguageStatus is the result class of language detection.
type LanguageStatus int

const (
	LanguageDetected LanguageStatus = iota
	LanguageInsufficientText
	LanguageDetectionFailed
)

// Language is a detected ISO 639-1 code or a detection failure marker.
type Language struct {
	Code   string
	Status LanguageStatus
}

func (l Language) String() string {
	switch l.Status {
	case LanguageInsufficientText:
		return MarkerInsufficientText
	case LanguageDetectionFailed:
		return MarkerDetectionFailed
	default:
		return l.Code
	}
}

func (l Language) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// HeaderMap flattens multi-valued HTTP headers into comma-joined strings.
func HeaderMap(h map[string][]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
