package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// URLResult is the outcome of analyzing one caller-supplied URL: either a
// full record or the message of the failure that replaced it.
type URLResult struct {
	URL    string
	Record *PageRecord
	Err    string
}

// Fields returns the record fields, or the single "error" field.
func (r URLResult) Fields() []Field {
	if r.Record == nil {
		msg := r.Err
		if msg == "" {
			msg = "no record"
		}
		return []Field{{FieldError, msg}}
	}
	return r.Record.Fields()
}

func (r URLResult) MarshalJSON() ([]byte, error) {
	if r.Record == nil {
		return json.Marshal(map[string]string{FieldError: r.Err})
	}
	return json.Marshal(r.Record)
}

// ResultSet holds one result per URL in caller order. URLs are kept
// verbatim; they are never normalised.
type ResultSet []URLResult

// Get returns the result for url.
func (rs ResultSet) Get(url string) (URLResult, bool) {
	for _, r := range rs {
		if r.URL == url {
			return r, true
		}
	}
	return URLResult{}, false
}

// Failed returns the URLs whose analysis produced an error record.
func (rs ResultSet) Failed() []string {
	var out []string
	for _, r := range rs {
		if r.Record == nil {
			out = append(out, r.URL)
		}
	}
	return out
}

// MarshalJSON writes the set as a URL-keyed object in caller order.
func (rs ResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, r.URL, r); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ComparisonTable pivots a ResultSet into field → URL → value.
// A nil value means the URL's record has no such field.
type ComparisonTable struct {
	Fields []string
	URLs   []string
	Values map[string]map[string]any
}

// NewComparisonTable returns an empty table.
func NewComparisonTable() *ComparisonTable {
	return &ComparisonTable{
		Fields: []string{},
		URLs:   []string{},
		Values: make(map[string]map[string]any),
	}
}

// Value returns the cell for field and url. ok is false when the URL's
// record lacks the field.
func (t *ComparisonTable) Value(field, url string) (v any, ok bool) {
	row, exists := t.Values[field]
	if !exists {
		return nil, false
	}
	v, ok = row[url]
	if ok && v == nil {
		return nil, false
	}
	return v, ok
}

// MarshalJSON writes the table as nested objects preserving field and URL
// order. Missing cells are written as null.
func (t *ComparisonTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range t.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(":{")
		row := t.Values[field]
		for j, url := range t.URLs {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeMember(&buf, url, row[url]); err != nil {
				return nil, fmt.Errorf("field %q: %w", field, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a table written by MarshalJSON. Cell values decode
// into generic JSON values (maps, slices, float64, string, bool, nil).
func (t *ComparisonTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	table := NewComparisonTable()
	seen := make(map[string]struct{})
	for dec.More() {
		field, err := stringToken(dec)
		if err != nil {
			return err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		row := make(map[string]any)
		for dec.More() {
			url, err := stringToken(dec)
			if err != nil {
				return err
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return fmt.Errorf("comparison: field %q url %q: %w", field, url, err)
			}
			row[url] = v
			if _, ok := seen[url]; !ok {
				seen[url] = struct{}{}
				table.URLs = append(table.URLs, url)
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
		table.Fields = append(table.Fields, field)
		table.Values[field] = row
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*t = *table
	return nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("comparison: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("comparison: expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("comparison: %w", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("comparison: expected object key, got %v", tok)
	}
	return s, nil
}
