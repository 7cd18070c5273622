package entity

import (
	"time"

	"github.com/joseph-ayodele/gazette-tracker/constants"
)

// Record is the canonical representation of an estate case, regardless of
// whether it came from a gazette document or an administrative spreadsheet.
type Record struct {
	// SequenceNo is assigned by the store at persistence time; zero while the
	// record is still in-flight (extraction, reconciliation).
	SequenceNo      int64                  `json:"no,omitempty"`
	CourtStation    string                 `json:"courtStation"`
	CauseNo         string                 `json:"causeNo"`
	NameOfDeceased  string                 `json:"nameOfDeceased"`
	DateReceived    time.Time              `json:"dateReceived"`
	StatusAtGP      constants.RecordStatus `json:"statusAtGP"`
	RejectionReason string                 `json:"rejectionReason,omitempty"`
	DatePublished   *time.Time             `json:"datePublished,omitempty"`
	VolumeNo        string                 `json:"volumeNo,omitempty"`
	SourceFile      string                 `json:"sourceFile,omitempty"`
}

// MatchPartition is the reconciliation result: three disjoint record sets plus
// the publication date derived from the document header, applied to every
// matched and spreadsheet-only entry of the run.
type MatchPartition struct {
	Matched         []Record   `json:"matched"`
	OnlySpreadsheet []Record   `json:"onlyExcel"`
	OnlyDocument    []Record   `json:"onlyPdf"`
	DatePublished   *time.Time `json:"datePublished"`
}
