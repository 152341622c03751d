package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/use-agent/sitecompare/models"
)

// Column is one flattened cell of a comparison table.
//
// Path starts with the field name and the URL, followed by the location
// inside the cell: map keys as ".key" and list positions as "[i]". A
// segment containing '.', '[', ']' or '"', or an empty one, is written as
// a quoted key ["..."] instead, so URLs always appear as ["https://..."].
//
// Value is the leaf as text. Strings are written raw unless they would
// read back as another JSON value, in which case they are JSON-quoted;
// every other leaf, including empty containers and null, is JSON.
type Column struct {
	Path  string
	Value string
}

// Flatten turns t into columns ordered by field, then URL, then sorted keys.
func Flatten(t *models.ComparisonTable) ([]Column, error) {
	generic, err := normalize(t)
	if err != nil {
		return nil, err
	}

	var cols []Column
	for _, field := range generic.Fields {
		row := generic.Values[field]
		for _, url := range generic.URLs {
			prefix := appendKey(appendKey("", field), url)
			cols, err = flattenValue(cols, prefix, row[url])
			if err != nil {
				return nil, fmt.Errorf("export: flatten %s: %w", prefix, err)
			}
		}
	}
	return cols, nil
}

// normalize round-trips t through JSON so every cell is a generic value.
func normalize(t *models.ComparisonTable) (*models.ComparisonTable, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("export: encode table: %w", err)
	}
	var generic models.ComparisonTable
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("export: decode table: %w", err)
	}
	return &generic, nil
}

func flattenValue(cols []Column, path string, v any) ([]Column, error) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			return append(cols, Column{path, "{}"}), nil
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var err error
		for _, k := range keys {
			if cols, err = flattenValue(cols, appendKey(path, k), val[k]); err != nil {
				return nil, err
			}
		}
		return cols, nil
	case []any:
		if len(val) == 0 {
			return append(cols, Column{path, "[]"}), nil
		}
		var err error
		for i, item := range val {
			if cols, err = flattenValue(cols, path+"["+strconv.Itoa(i)+"]", item); err != nil {
				return nil, err
			}
		}
		return cols, nil
	case string:
		return append(cols, Column{path, encodeString(val)}), nil
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return append(cols, Column{path, string(raw)}), nil
	}
}

// encodeString quotes s only when the raw text would decode as JSON.
func encodeString(s string) string {
	if json.Valid([]byte(s)) || strings.HasPrefix(strings.TrimSpace(s), `"`) {
		raw, _ := json.Marshal(s)
		return string(raw)
	}
	return s
}

func decodeValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func appendKey(path, key string) string {
	if key == "" || strings.ContainsAny(key, `.[]"`) {
		quoted, _ := json.Marshal(key)
		return path + "[" + string(quoted) + "]"
	}
	if path == "" {
		return key
	}
	return path + "." + key
}

// segment is one step of a column path: a map key or a list index.
type segment struct {
	key   string
	index int
	isIdx bool
}

func parsePath(path string) ([]segment, error) {
	var segs []segment
	for i := 0; i < len(path); {
		switch path[i] {
		case '.':
			i++
		case '[':
			if i+1 < len(path) && path[i+1] == '"' {
				end := closingQuote(path, i+2)
				if end < 0 || end+1 >= len(path) || path[end+1] != ']' {
					return nil, fmt.Errorf("export: path %q: unterminated key", path)
				}
				var key string
				if err := json.Unmarshal([]byte(path[i+1:end+1]), &key); err != nil {
					return nil, fmt.Errorf("export: path %q: %w", path, err)
				}
				segs = append(segs, segment{key: key})
				i = end + 2
				continue
			}
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("export: path %q: unterminated index", path)
			}
			n, err := strconv.Atoi(path[i+1 : i+end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("export: path %q: bad index", path)
			}
			segs = append(segs, segment{index: n, isIdx: true})
			i += end + 1
		default:
			end := strings.IndexAny(path[i:], ".[")
			if end < 0 {
				end = len(path) - i
			}
			segs = append(segs, segment{key: path[i : i+end]})
			i += end
		}
	}
	return segs, nil
}

// closingQuote returns the index of the first unescaped '"' at or after
// from, or -1.
func closingQuote(s string, from int) int {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// Unflatten rebuilds a table from columns written by Flatten. Cells come
// back as generic JSON values.
func Unflatten(cols []Column) (*models.ComparisonTable, error) {
	table := models.NewComparisonTable()
	seenURL := make(map[string]struct{})

	for _, c := range cols {
		segs, err := parsePath(c.Path)
		if err != nil {
			return nil, err
		}
		if len(segs) < 2 || segs[0].isIdx || segs[1].isIdx {
			return nil, fmt.Errorf("export: path %q lacks field and url", c.Path)
		}
		field, url := segs[0].key, segs[1].key

		row, ok := table.Values[field]
		if !ok {
			row = make(map[string]any)
			table.Values[field] = row
			table.Fields = append(table.Fields, field)
		}
		if _, ok := seenURL[url]; !ok {
			seenURL[url] = struct{}{}
			table.URLs = append(table.URLs, url)
		}
		row[url] = insert(row[url], segs[2:], decodeValue(c.Value))
	}
	return table, nil
}

func insert(container any, segs []segment, v any) any {
	if len(segs) == 0 {
		return v
	}
	seg := segs[0]
	if seg.isIdx {
		list, _ := container.([]any)
		for len(list) <= seg.index {
			list = append(list, nil)
		}
		list[seg.index] = insert(list[seg.index], segs[1:], v)
		return list
	}
	m, _ := container.(map[string]any)
	if m == nil {
		m = make(map[string]any)
	}
	m[seg.key] = insert(m[seg.key], segs[1:], v)
	return m
}

// rowHeader is the first row of a tabular export. Every following row holds
// one column path and its value.
var rowHeader = []string{"path", "value"}

// toRows lays columns out vertically, one row per column, so the width of
// a sheet never depends on the size of the table.
func toRows(cols []Column) [][]string {
	rows := make([][]string, 0, len(cols)+1)
	rows = append(rows, rowHeader)
	for _, c := range cols {
		rows = append(rows, []string{c.Path, c.Value})
	}
	return rows
}

// fromRows reads rows written by toRows. Trailing empty cells may be
// missing, as spreadsheet readers drop them.
func fromRows(rows [][]string) ([]Column, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows[0]) < 1 || rows[0][0] != rowHeader[0] {
		return nil, fmt.Errorf("export: missing %q header row", strings.Join(rowHeader, ","))
	}
	cols := make([]Column, 0, len(rows)-1)
	for i, row := range rows[1:] {
		switch len(row) {
		case 0:
			continue
		case 1:
			cols = append(cols, Column{Path: row[0]})
		case 2:
			cols = append(cols, Column{Path: row[0], Value: row[1]})
		default:
			return nil, fmt.Errorf("export: row %d has %d cells, want 2", i+2, len(row))
		}
	}
	return cols, nil
}
