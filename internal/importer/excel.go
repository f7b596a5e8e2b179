package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ReadWorkbook extracts the daily report sheet from an xlsx upload as
// tab-separated text ready for a Parser. The report template keeps the
// current day as the rightmost sheet, so the last sheet is read.
func ReadWorkbook(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[len(sheets)-1]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var lines []string
	for _, row := range rows {
		hasContent := false
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				hasContent = true
			}
		}
		if !hasContent {
			continue
		}
		lines = append(lines, strings.Join(row, "\t"))
	}

	log.Debug().
		Str("sheet", sheet).
		Int("rows", len(lines)).
		Msg("Extracted workbook rows")

	return strings.Join(lines, "\n"), nil
}
