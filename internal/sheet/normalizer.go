// Package sheet normalizes administrative estate spreadsheets into canonical
// records. Header spellings vary between registries ("Cause No", "CAUSE NO ",
// "cause  no"), so headers are canonicalized before rows are consumed.
package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/common"
	"github.com/joseph-ayodele/gazette-tracker/internal/entity"
)

// NormalizeHeader canonicalizes a header cell: trim, casefold, internal
// whitespace runs to a single underscore. "Cause No" -> "cause_no".
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), "_")
}

// Normalize reads the first sheet of an XLSX workbook and maps its rows to
// canonical records with status Pending. Only court_station, cause_no and
// name_of_deceased are consumed; missing cells default to empty strings.
// A workbook without data rows is rejected as invalid input.
func Normalize(r io.Reader) ([]entity.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.NewAppError("SHEET_OPEN", "failed to open spreadsheet", common.ErrInvalidInput)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewAppError("SHEET_EMPTY", "spreadsheet has no sheets", common.ErrInvalidInput)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, common.NewAppError("SHEET_EMPTY", "spreadsheet is empty or invalid", common.ErrInvalidInput)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(h)
	}

	records := make([]entity.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				cells[h] = strings.TrimSpace(row[i])
			} else {
				cells[h] = ""
			}
		}
		records = append(records, entity.Record{
			CourtStation:   cells["court_station"],
			CauseNo:        cells["cause_no"],
			NameOfDeceased: cells["name_of_deceased"],
			StatusAtGP:     constants.StatusPending,
		})
	}
	return records, nil
}
