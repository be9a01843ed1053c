package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-tablegen/pkg/model"
)

const defaultSheetName = "Sheet1"

// XLSX writes the visible columns of rows into a native workbook with a
// bold header row.
func XLSX(title string, columns []model.Column, rows []model.Row, opts ...Option) (Artifact, error) {
	sheet := BuildSheet(title, columns, rows, opts...)

	data, err := writeWorkbook(sheet)
	if err != nil {
		return Artifact{}, &model.ExportFailure{Format: string(FormatXLSX), Err: err}
	}

	return Artifact{
		Format:    FormatXLSX,
		Filename:  Filename(title, FormatXLSX),
		MediaType: MediaTypeXLSX,
		Data:      data,
	}, nil
}

func writeWorkbook(sheet Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet.Title)
	if name != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, name); err != nil {
			return nil, fmt.Errorf("export: rename sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	if len(sheet.Headers) > 0 {
		header := make([]any, len(sheet.Headers))
		for i, title := range sheet.Headers {
			header[i] = title
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, fmt.Errorf("export: write header: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
		if err != nil {
			return nil, fmt.Errorf("export: header range: %w", err)
		}
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("export: style header: %w", err)
		}
		lastCol, err := excelize.ColumnNumberToName(len(sheet.Headers))
		if err != nil {
			return nil, fmt.Errorf("export: column range: %w", err)
		}
		if err := f.SetColWidth(name, "A", lastCol, 20); err != nil {
			return nil, fmt.Errorf("export: column width: %w", err)
		}
	}

	for i, values := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export: row %d: %w", i, err)
		}
		row := make([]any, len(values))
		for j, value := range values {
			row[j] = value
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, fmt.Errorf("export: write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName adapts title to the worksheet naming rules: at most 31
// characters, none of :\/?*[] and no surrounding single quotes.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, "'")
	for utf8.RuneCountInString(name) > excelize.MaxSheetNameLength {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	name = strings.Trim(name, "'")
	if strings.TrimSpace(name) == "" {
		return defaultSheetName
	}
	return name
}
