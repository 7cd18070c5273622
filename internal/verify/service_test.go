package verify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/common"
	"github.com/joseph-ayodele/gazette-tracker/internal/extract"
	"github.com/joseph-ayodele/gazette-tracker/internal/match"
	"github.com/joseph-ayodele/gazette-tracker/internal/reconcile"
	"github.com/joseph-ayodele/gazette-tracker/internal/textsource"
)

type fakeResolver struct {
	text string
	err  error
}

func (f *fakeResolver) Resolve(context.Context, textsource.Document) (string, error) {
	return f.text, f.err
}

func workbook(t *testing.T, names ...string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []string{"Court Station", "Cause No", "Name of Deceased"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, name := range names {
		row := []string{"Nairobi High Court", fmt.Sprintf("E%d OF 2024", i+1), name}
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func gazetteText(names ...string) string {
	var b strings.Builder
	b.WriteString("THE KENYA GAZETTE DATED this 15th day of March, 2024 ")
	for i, name := range names {
		fmt.Fprintf(&b, "CAUSE NO. E%d OF 2024 IN THE HIGH COURT OF KENYA AT NAIROBI, By %s, of Nairobi, the deceased's son ", i+10, name)
	}
	return b.String()
}

func newService(resolver textsource.Resolver) *Service {
	return NewService(resolver,
		extract.NewExtractor(nil, nil),
		reconcile.NewEngine(match.NewMatcher(match.DefaultThreshold)),
		nil)
}

func pdfDoc() textsource.Document {
	return textsource.Document{Name: "Kenya Gazette Vol. 127.pdf", ContentType: "application/pdf"}
}

func TestVerifyPartitionsAndCounts(t *testing.T) {
	resolver := &fakeResolver{text: gazetteText("John Kamau Mwangi", "Samuel Odhiambo")}
	s := newService(resolver)

	result, err := s.Verify(context.Background(),
		workbook(t, "John Kamav Mwangi", "Grace Wanjiru"), pdfDoc())
	require.NoError(t, err)

	assert.Equal(t, Stats{Matched: 1, OnlyExcel: 1, OnlyPdf: 1}, result.Stats)
	require.Len(t, result.Partition.Matched, 1)
	assert.Equal(t, "John Kamav Mwangi", result.Partition.Matched[0].NameOfDeceased)
	assert.Equal(t, constants.StatusPublished, result.Partition.Matched[0].StatusAtGP)
	assert.Equal(t, "Grace Wanjiru", result.Partition.OnlySpreadsheet[0].NameOfDeceased)
	assert.Equal(t, "Samuel Odhiambo", result.Partition.OnlyDocument[0].NameOfDeceased)
}

func TestVerifyStampsHeaderDate(t *testing.T) {
	resolver := &fakeResolver{text: gazetteText("John Kamau")}
	s := newService(resolver)

	result, err := s.Verify(context.Background(), workbook(t, "John Kamau"), pdfDoc())
	require.NoError(t, err)

	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, result.Partition.DatePublished)
	assert.True(t, result.Partition.DatePublished.Equal(want))
	require.Len(t, result.Partition.Matched, 1)
	require.NotNil(t, result.Partition.Matched[0].DatePublished)
	assert.True(t, result.Partition.Matched[0].DatePublished.Equal(want))
}

func TestVerifyMissingHeaderDateIsNil(t *testing.T) {
	resolver := &fakeResolver{text: "CAUSE NO. E1 OF 2024 By John Kamau, of Nairobi, the deceased's son"}
	s := newService(resolver)

	result, err := s.Verify(context.Background(), workbook(t, "John Kamau"), pdfDoc())
	require.NoError(t, err)
	assert.Nil(t, result.Partition.DatePublished)
}

func TestVerifyBadSpreadsheetRejected(t *testing.T) {
	s := newService(&fakeResolver{text: gazetteText("John Kamau")})
	_, err := s.Verify(context.Background(), strings.NewReader("not a workbook"), pdfDoc())
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestVerifyResolverErrorPropagates(t *testing.T) {
	s := newService(&fakeResolver{err: fmt.Errorf("scan.pdf: %w", common.ErrNoText)})
	_, err := s.Verify(context.Background(), workbook(t, "John Kamau"), pdfDoc())
	assert.ErrorIs(t, err, common.ErrNoText)
}
