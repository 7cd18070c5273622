// Package reconcile partitions spreadsheet-sourced and document-sourced case
// records into matched / spreadsheet-only / document-only sets.
package reconcile

import (
	"time"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/entity"
	"github.com/joseph-ayodele/gazette-tracker/internal/match"
)

type Engine struct {
	matcher *match.Matcher
}

func NewEngine(m *match.Matcher) *Engine {
	if m == nil {
		m = match.NewMatcher(match.DefaultThreshold)
	}
	return &Engine{matcher: m}
}

// Reconcile compares spreadsheet rows against document records by deceased
// name. Matching is first-match in list order, not best-match: the first
// document record clearing the similarity threshold wins. Duplicate or
// near-duplicate names in one document can therefore pair a spreadsheet row
// with the wrong document row; this mirrors the source system's behavior and
// is kept deliberately.
//
// datePublished is the document's own header date; it stamps every matched
// and spreadsheet-only entry of this run, since the spreadsheet carries no
// publication date. List sizes are bounded by per-document case counts, so
// the quadratic scan is acceptable.
func (e *Engine) Reconcile(sheetRows, docRecords []entity.Record, datePublished *time.Time) entity.MatchPartition {
	p := entity.MatchPartition{
		Matched:         make([]entity.Record, 0, len(sheetRows)),
		OnlySpreadsheet: make([]entity.Record, 0),
		OnlyDocument:    make([]entity.Record, 0),
		DatePublished:   datePublished,
	}

	for _, row := range sheetRows {
		found := false
		for _, doc := range docRecords {
			if e.matcher.Match(row.NameOfDeceased, doc.NameOfDeceased) {
				found = true
				break
			}
		}
		if found {
			row.StatusAtGP = constants.StatusPublished
			row.DatePublished = datePublished
			p.Matched = append(p.Matched, row)
		} else {
			row.StatusAtGP = constants.StatusPending
			p.OnlySpreadsheet = append(p.OnlySpreadsheet, row)
		}
	}

	for _, doc := range docRecords {
		found := false
		for _, row := range sheetRows {
			if e.matcher.Match(doc.NameOfDeceased, row.NameOfDeceased) {
				found = true
				break
			}
		}
		if !found {
			p.OnlyDocument = append(p.OnlyDocument, doc)
		}
	}

	return p
}
