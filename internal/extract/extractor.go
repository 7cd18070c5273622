// Package extract turns normalized gazette text into structured case records.
//
// Segmentation splits on the "CAUSE NO." case-header marker; each block then
// runs through a fixed, ordered set of pattern rules. Blocks missing a cause
// number or a deceased name are dropped silently; nothing aborts the
// document. The grammar is best-effort by design: it trades completeness for
// determinism and documents its misses through logs and counts.
package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/entity"
)

var (
	reCauseHeader = regexp.MustCompile(`(?i)CAUSE NO\.`)
	reCauseNo     = regexp.MustCompile(`(?i)E\s*\d{1,4}\s*OF\s*\d{4}`)
	reDeceased    = regexp.MustCompile(`(?i)By\s+(?:\(\d\)\s+)?(.*?),.*?the deceased`)
	reVolume      = regexp.MustCompile(`(?i)Vol\.\s*(\d+)`)
	reLongDate    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+)\s+(\d{4})\b`)
	reNumericDate = regexp.MustCompile(`(\d{1,2})[–-](\d{1,2})[–-](\d{4})`)
	reHeaderDate  = regexp.MustCompile(`(?i)DATED\s+THIS\s+(\d{1,2})(?:st|nd|rd|th)?\s+(?:day\s+of\s+)?([A-Za-z]+),?\s+(\d{4})`)
)

type Extractor struct {
	courtRules []CourtRule
	logger     *slog.Logger
}

// NewExtractor builds an extractor over the given ordered court rules.
// Nil rules means DefaultCourtRules.
func NewExtractor(courtRules []CourtRule, logger *slog.Logger) *Extractor {
	if courtRules == nil {
		courtRules = DefaultCourtRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{courtRules: courtRules, logger: logger}
}

// Extract segments normalized text into case blocks and emits one record per
// parseable block. sourceFile names the originating document; the volume
// number is derived from it once per call.
func (e *Extractor) Extract(text, sourceFile string) []entity.Record {
	volumeNo := VolumeFromFilename(sourceFile)
	now := time.Now().UTC()

	var records []entity.Record
	dropped := 0
	for _, block := range reCauseHeader.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		causeNo := strings.TrimSpace(reCauseNo.FindString(block))
		if causeNo == "" {
			dropped++
			continue
		}

		m := reDeceased.FindStringSubmatch(block)
		if m == nil {
			dropped++
			continue
		}
		nameOfDeceased := strings.TrimSpace(m[1])
		if nameOfDeceased == "" {
			dropped++
			continue
		}

		records = append(records, entity.Record{
			CourtStation:   e.courtStation(block),
			CauseNo:        causeNo,
			NameOfDeceased: nameOfDeceased,
			DateReceived:   now,
			StatusAtGP:     constants.StatusPublished,
			DatePublished:  blockDate(block),
			VolumeNo:       volumeNo,
			SourceFile:     sourceFile,
		})
	}

	e.logger.Info("extracted document",
		"file", sourceFile,
		"records", len(records),
		"dropped_blocks", dropped,
	)
	return records
}

// courtStation runs the ordered court rules and returns the first hit,
// normalized to "<Town> <suffix>". No hit yields the "Unknown" sentinel.
func (e *Extractor) courtStation(block string) string {
	for _, rule := range e.courtRules {
		m := rule.Pattern.FindStringSubmatch(block)
		if m == nil || strings.TrimSpace(m[1]) == "" {
			continue
		}
		town := titleWords(strings.Fields(strings.TrimSpace(m[1])), 3)
		return fmt.Sprintf("%s %s", town, rule.Suffix)
	}
	return constants.UnknownSentinel
}

// titleWords title-cases at most max words and joins them with spaces.
func titleWords(words []string, max int) string {
	if len(words) > max {
		words = words[:max]
	}
	out := make([]string, len(words))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		out[i] = string(runes)
	}
	return strings.Join(out, " ")
}

// blockDate tries the long-form date ("1st January 2024") then the numeric
// D-M-YYYY form (hyphen or en-dash). Unparseable dates yield nil; date
// absence never invalidates a record.
func blockDate(block string) *time.Time {
	if m := reLongDate.FindStringSubmatch(block); m != nil {
		if t, ok := parseLongDate(m[1], m[2], m[3]); ok {
			return &t
		}
	}
	if m := reNumericDate.FindStringSubmatch(block); m != nil {
		if t, ok := parseNumericDate(m[1], m[2], m[3]); ok {
			return &t
		}
	}
	return nil
}

func parseLongDate(day, month, year string) (time.Time, bool) {
	for _, layout := range []string{"2 January 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, fmt.Sprintf("%s %s %s", day, month, year)); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseNumericDate(day, month, year string) (time.Time, bool) {
	d, _ := strconv.Atoi(day)
	m, _ := strconv.Atoi(month)
	y, _ := strconv.Atoi(year)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// HeaderDate derives the gazette's own publication date from the
// "DATED this 1st January 2024" header. Nil when absent or unparseable.
func HeaderDate(text string) *time.Time {
	m := reHeaderDate.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	if t, ok := parseLongDate(m[1], m[2], m[3]); ok {
		return &t
	}
	return nil
}

// VolumeFromFilename pulls the gazette volume out of names like
// "Kenya Gazette Vol. 127.pdf". Absent volume yields the "Unknown" sentinel.
func VolumeFromFilename(name string) string {
	if m := reVolume.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return constants.UnknownSentinel
}
