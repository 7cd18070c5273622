package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/gazette-tracker/constants"
)

const sampleBlock = `PROBATE AND ADMINISTRATION CAUSE NO. E123 OF 2024 ` +
	`IN THE HIGH COURT OF KENYA AT NAIROBI, By (1) John Kamau Mwangi, ` +
	`of P.O. Box 123, Nairobi, the deceased's son, ` +
	`who died at Nairobi on 1st January 2024`

func TestExtractParsesCaseBlock(t *testing.T) {
	e := NewExtractor(nil, nil)
	records := e.Extract(sampleBlock, "Kenya Gazette Vol. 127.pdf")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "E123 OF 2024", rec.CauseNo)
	assert.Equal(t, "John Kamau Mwangi", rec.NameOfDeceased)
	assert.Equal(t, "Nairobi High Court", rec.CourtStation)
	assert.Equal(t, "127", rec.VolumeNo)
	assert.Equal(t, "Kenya Gazette Vol. 127.pdf", rec.SourceFile)
	assert.Equal(t, constants.StatusPublished, rec.StatusAtGP)
	require.NotNil(t, rec.DatePublished)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec.DatePublished.UTC())
	assert.False(t, rec.DateReceived.IsZero())
}

func TestExtractDropsBlocksMissingFields(t *testing.T) {
	e := NewExtractor(nil, nil)

	// Cause number present, no deceased clause.
	records := e.Extract("CAUSE NO. E55 OF 2023 estate of an unnamed person", "a.pdf")
	assert.Empty(t, records)

	// Deceased clause present, no cause number.
	records = e.Extract("CAUSE NO. By Jane Njeri, of Nakuru, the deceased's daughter", "a.pdf")
	assert.Empty(t, records)

	assert.Empty(t, e.Extract("", "a.pdf"))
}

func TestExtractMultipleBlocks(t *testing.T) {
	e := NewExtractor(nil, nil)
	text := `CAUSE NO. E1 OF 2024 IN THE HIGH COURT OF KENYA AT NAKURU, ` +
		`By Jane Njeri, of Nakuru, the deceased's daughter. ` +
		`CAUSE NO. E2 OF 2024 IN THE COURT AT KISUMU, ` +
		`By Samuel Odhiambo, of Kisumu, the deceased's brother.`
	records := e.Extract(text, "gazette.pdf")
	require.Len(t, records, 2)
	assert.Equal(t, "E1 OF 2024", records[0].CauseNo)
	assert.Equal(t, "Jane Njeri", records[0].NameOfDeceased)
	assert.Equal(t, "Nakuru High Court", records[0].CourtStation)
	assert.Equal(t, "E2 OF 2024", records[1].CauseNo)
	assert.Equal(t, "Samuel Odhiambo", records[1].NameOfDeceased)
	assert.Equal(t, "Kisumu Magistrate Court", records[1].CourtStation)
}

func TestCourtStationPatternsAndSentinel(t *testing.T) {
	e := NewExtractor(nil, nil)

	cases := []struct {
		block string
		want  string
	}{
		{"IN THE HIGH COURT OF KENYA AT MOMBASA, probate", "Mombasa High Court"},
		{"IN THE COURT AT THIKA, probate", "Thika Magistrate Court"},
		{"CHIEF MAGISTRATE'S COURT AT KERICHO, probate", "Kericho Magistrate Court"},
		{"MAGISTRATE COURT OF MERU, probate", "Meru Magistrate Court"},
		{"no court phrasing here", constants.UnknownSentinel},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, e.courtStation(c.block), "block %q", c.block)
	}
}

func TestCourtStationPrecedence(t *testing.T) {
	e := NewExtractor(nil, nil)
	// Both phrasings present; the high-court rule is tried first and wins.
	block := "MAGISTRATE COURT OF MERU, transferred to IN THE HIGH COURT OF KENYA AT MOMBASA, probate"
	assert.Equal(t, "Mombasa High Court", e.courtStation(block))
}

func TestCourtStationTruncatesTownToThreeWords(t *testing.T) {
	e := NewExtractor(nil, nil)
	got := e.courtStation("IN THE HIGH COURT OF KENYA AT MURANGA TOWN CENTRAL DISTRICT, probate")
	assert.Equal(t, "Muranga Town Central High Court", got)
}

func TestBlockDateForms(t *testing.T) {
	long := blockDate("died on 3rd March 2024 at home")
	require.NotNil(t, long)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), long.UTC())

	numeric := blockDate("died on 15-08-2023 at home")
	require.NotNil(t, numeric)
	assert.Equal(t, time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC), numeric.UTC())

	assert.Nil(t, blockDate("died on 45-13-2023 at home"))
	assert.Nil(t, blockDate("no date at all"))
}

func TestHeaderDate(t *testing.T) {
	d := HeaderDate("... DATED this 21st day of June, 2024 ...")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), d.UTC())

	d = HeaderDate("DATED THIS 5 July 2023")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC), d.UTC())

	assert.Nil(t, HeaderDate("no header date here"))
}

func TestVolumeFromFilename(t *testing.T) {
	assert.Equal(t, "127", VolumeFromFilename("Kenya Gazette Vol. 127.pdf"))
	assert.Equal(t, "9", VolumeFromFilename("vol. 9 special issue.pdf"))
	assert.Equal(t, constants.UnknownSentinel, VolumeFromFilename("gazette.pdf"))
}

func TestLoadCourtRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "custom-high", "pattern": "SUPERIOR COURT AT\\s+([A-Z\\s]+)", "suffix": "High Court"}
	]`), 0o600))

	rules, err := LoadCourtRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	e := NewExtractor(rules, nil)
	assert.Equal(t, "Eldoret High Court", e.courtStation("SUPERIOR COURT AT ELDORET, probate"))
}

func TestLoadCourtRulesRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()

	badSuffix := filepath.Join(dir, "suffix.json")
	require.NoError(t, os.WriteFile(badSuffix, []byte(`[
		{"name": "x", "pattern": "COURT AT (\\w+)", "suffix": "Tribunal"}
	]`), 0o600))
	_, err := LoadCourtRules(badSuffix)
	assert.Error(t, err)

	noGroup := filepath.Join(dir, "group.json")
	require.NoError(t, os.WriteFile(noGroup, []byte(`[
		{"name": "x", "pattern": "COURT AT \\w+", "suffix": "High Court"}
	]`), 0o600))
	_, err = LoadCourtRules(noGroup)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	_, err = LoadCourtRules(empty)
	assert.Error(t, err)

	_, err = LoadCourtRules(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
