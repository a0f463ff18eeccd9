package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXLSX renders every sheet as lines of tab-separated cell values,
// prefixed with the sheet name so queries can match on it.
func extractXLSX(body io.Reader) (string, error) {
	workbook, err := excelize.OpenReader(body)
	if err != nil {
		return "", fmt.Errorf("open xlsx workbook: %w", err)
	}
	defer workbook.Close()

	var sections []string
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		lines := make([]string, 0, len(rows)+1)
		lines = append(lines, "Sheet: "+sheet)
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 1 {
			sections = append(sections, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(sections, "\n\n"), nil
}
