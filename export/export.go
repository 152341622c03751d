// Package export serializes a comparison table as JSON, CSV or XLSX. The
// tabular formats share the flattening of Flatten, so each can be read back
// into the same table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/use-agent/sitecompare/models"
	"github.com/xuri/excelize/v2"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet holding an XLSX export.
const SheetName = "Data"

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", models.NewAnalyzeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("unsupported export format %q", s), nil)
	}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}

// Filename is the download name of an export.
func (f Format) Filename() string {
	return "comparison." + string(f)
}

// Write encodes t to w in format f.
func Write(w io.Writer, t *models.ComparisonTable, f Format) error {
	var err error
	switch f {
	case FormatJSON:
		err = JSON(w, t)
	case FormatCSV:
		err = CSV(w, t)
	case FormatXLSX:
		err = XLSX(w, t)
	default:
		err = fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return models.NewAnalyzeError(models.ErrCodeExportFailed, "export as "+string(f)+" failed", err)
	}
	return nil
}

// JSON writes t as nested objects indented by four spaces.
func JSON(w io.Writer, t *models.ComparisonTable) error {
	raw, err := json.MarshalIndent(t, "", "    ")
	if err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}

// CSV writes t as a "path,value" header followed by one row per column.
func CSV(w io.Writer, t *models.ComparisonTable) error {
	cols, err := Flatten(t)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(toRows(cols)); err != nil {
		return fmt.Errorf("export: csv: %w", err)
	}
	return nil
}

// XLSX writes the CSV layout into the "Data" sheet of a workbook. Rows are
// streamed, so large tables stay within the sheet's row limit rather than
// its much smaller column limit.
func XLSX(w io.Writer, t *models.ComparisonTable) error {
	cols, err := Flatten(t)
	if err != nil {
		return err
	}
	rows := toRows(cols)
	if len(rows) > excelize.TotalRows {
		return fmt.Errorf("export: xlsx: %d rows exceed the sheet limit of %d", len(rows), excelize.TotalRows)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export: xlsx: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("export: xlsx: %w", err)
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export: xlsx: %w", err)
		}
		if err := sw.SetRow(axis, []any{row[0], row[1]}); err != nil {
			return fmt.Errorf("export: xlsx: row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export: xlsx: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: xlsx: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON export.
func ReadJSON(r io.Reader) (*models.ComparisonTable, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("export: read json: %w", err)
	}
	var t models.ComparisonTable
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("export: read json: %w", err)
	}
	return &t, nil
}

// ReadCSV decodes a CSV export.
func ReadCSV(r io.Reader) (*models.ComparisonTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("export: read csv: %w", err)
	}
	return tableFromRows(rows)
}

// ReadXLSX decodes an XLSX export.
func ReadXLSX(r io.Reader) (*models.ComparisonTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("export: read xlsx: %w", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("export: read xlsx: %w", err)
	}
	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) (*models.ComparisonTable, error) {
	cols, err := fromRows(rows)
	if err != nil {
		return nil, err
	}
	return Unflatten(cols)
}
