package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/entity"
	"github.com/joseph-ayodele/gazette-tracker/internal/match"
)

func rec(name string) entity.Record {
	return entity.Record{NameOfDeceased: name, CauseNo: "E123 OF 2024", StatusAtGP: constants.StatusPending}
}

func TestReconcilePartitionIsExhaustiveAndDisjoint(t *testing.T) {
	e := NewEngine(nil)
	published := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	sheetRows := []entity.Record{
		rec("John Kamau Mwangi"),
		rec("Grace Wanjiru"),
	}
	docRecords := []entity.Record{
		rec("John Kamav Mwangi"), // OCR-noisy spelling of the first row
		rec("Samuel Odhiambo"),
	}

	p := e.Reconcile(sheetRows, docRecords, &published)

	require.Len(t, p.Matched, 1)
	require.Len(t, p.OnlySpreadsheet, 1)
	require.Len(t, p.OnlyDocument, 1)
	assert.Equal(t, len(sheetRows), len(p.Matched)+len(p.OnlySpreadsheet))

	assert.Equal(t, "John Kamau Mwangi", p.Matched[0].NameOfDeceased)
	assert.Equal(t, "Grace Wanjiru", p.OnlySpreadsheet[0].NameOfDeceased)
	assert.Equal(t, "Samuel Odhiambo", p.OnlyDocument[0].NameOfDeceased)
}

func TestReconcileStampsStatusAndDate(t *testing.T) {
	e := NewEngine(nil)
	published := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	p := e.Reconcile(
		[]entity.Record{rec("John Kamau"), rec("Grace Wanjiru")},
		[]entity.Record{rec("John Kamau")},
		&published,
	)

	require.Len(t, p.Matched, 1)
	assert.Equal(t, constants.StatusPublished, p.Matched[0].StatusAtGP)
	require.NotNil(t, p.Matched[0].DatePublished)
	assert.True(t, p.Matched[0].DatePublished.Equal(published))

	require.Len(t, p.OnlySpreadsheet, 1)
	assert.Equal(t, constants.StatusPending, p.OnlySpreadsheet[0].StatusAtGP)
	assert.Nil(t, p.OnlySpreadsheet[0].DatePublished)

	require.NotNil(t, p.DatePublished)
	assert.True(t, p.DatePublished.Equal(published))
}

func TestReconcileNilDatePublished(t *testing.T) {
	e := NewEngine(nil)
	p := e.Reconcile([]entity.Record{rec("John Kamau")}, []entity.Record{rec("John Kamau")}, nil)
	require.Len(t, p.Matched, 1)
	assert.Nil(t, p.Matched[0].DatePublished)
	assert.Nil(t, p.DatePublished)
}

func TestReconcileExtendedNameDoesNotMatch(t *testing.T) {
	e := NewEngine(match.NewMatcher(match.DefaultThreshold))
	p := e.Reconcile(
		[]entity.Record{rec("Peter Otieno")},
		[]entity.Record{rec("Peter Otieno Junior")},
		nil,
	)
	assert.Empty(t, p.Matched)
	require.Len(t, p.OnlySpreadsheet, 1)
	require.Len(t, p.OnlyDocument, 1)
}

func TestReconcileEmptyInputs(t *testing.T) {
	e := NewEngine(nil)

	p := e.Reconcile(nil, []entity.Record{rec("John Kamau")}, nil)
	assert.Empty(t, p.Matched)
	assert.Empty(t, p.OnlySpreadsheet)
	require.Len(t, p.OnlyDocument, 1)

	p = e.Reconcile([]entity.Record{rec("John Kamau")}, nil, nil)
	assert.Empty(t, p.Matched)
	require.Len(t, p.OnlySpreadsheet, 1)
	assert.Empty(t, p.OnlyDocument)
}

func TestReconcileFirstMatchInListOrder(t *testing.T) {
	e := NewEngine(nil)
	// Two near-identical document rows; the sheet row pairs with the first
	// one that clears the threshold and the scan stops there.
	p := e.Reconcile(
		[]entity.Record{rec("John Kamau Mwangi")},
		[]entity.Record{rec("John Kamau Mwangi"), rec("John Kamau Mwangi")},
		nil,
	)
	require.Len(t, p.Matched, 1)
	assert.Empty(t, p.OnlyDocument)
}
