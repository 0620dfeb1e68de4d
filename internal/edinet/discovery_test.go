package edinet

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/edinetai/internal/types"
)

type fakeDay struct {
	res ListResult
	err error
}

// fakeLister scripts one response per date; unknown dates return 404,
// matching the registry's behavior for days without submissions.
type fakeLister struct {
	days  map[string]fakeDay
	calls []string
}

func (f *fakeLister) ListDocuments(_ context.Context, date time.Time) (ListResult, error) {
	key := date.Format("2006-01-02")
	f.calls = append(f.calls, key)

	if day, ok := f.days[key]; ok {
		return day.res, day.err
	}
	return ListResult{HTTPStatus: http.StatusNotFound}, nil
}

var scanStart = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newTestScanner(lister *fakeLister) *Scanner {
	s := NewScanner(lister, WithBackoff(0))
	s.now = func() time.Time { return scanStart }
	return s
}

func dayKey(offset int) string {
	return scanStart.AddDate(0, 0, -offset).Format("2006-01-02")
}

func okDay(filings ...types.FilingDescriptor) fakeDay {
	return fakeDay{res: ListResult{
		HTTPStatus:     http.StatusOK,
		MetadataStatus: "200",
		Results:        filings,
	}}
}

func matchingFiling(docID string) types.FilingDescriptor {
	return types.FilingDescriptor{
		DocID:          docID,
		SecCode:        "91101",
		DocTypeCode:    types.DocTypeAnnualReport,
		DocDescription: "有価証券報告書－第99期",
		PDFFlag:        "1",
		FilerName:      "Test Filer K.K.",
		SubmitDateTime: "2026-08-26 09:00",
	}
}

func TestScanFindsFilingAcrossDays(t *testing.T) {
	// Day 0: no submissions (404). Day 1: a filing for another ticker.
	// Day 2: the match.
	other := matchingFiling("S100OTHER")
	other.SecCode = "72030"

	lister := &fakeLister{days: map[string]fakeDay{
		dayKey(1): okDay(other),
		dayKey(2): okDay(matchingFiling("S100MATCH")),
	}}

	scanner := newTestScanner(lister)
	criteria := types.NewTargetCriteria("9110", 30, true)

	outcome, err := scanner.Scan(context.Background(), criteria)
	require.NoError(t, err)
	require.True(t, outcome.Found())

	assert.Equal(t, "S100MATCH", outcome.Filing.DocID)
	assert.Len(t, outcome.Log, 3, "scan stops on the day of the match")
	assert.Len(t, lister.calls, 3, "no further days requested after a match")

	// Day 0 was a 404: logged as a no-filings day, never as an error.
	day0 := outcome.Log[0]
	assert.Equal(t, http.StatusNotFound, day0.HTTPStatus)
	assert.False(t, day0.BackoffApplied)
	assert.Contains(t, day0.Detail, "no filings")
}

func TestScanExhaustsLookbackWindow(t *testing.T) {
	lister := &fakeLister{days: map[string]fakeDay{}}
	scanner := newTestScanner(lister)

	outcome, err := scanner.Scan(context.Background(), types.NewTargetCriteria("9110", 7, true))
	require.NoError(t, err)

	assert.False(t, outcome.Found())
	assert.Len(t, outcome.Log, 7, "one diagnostic record per day scanned")
}

func TestScanMatchSatisfiesAllPredicates(t *testing.T) {
	noPDF := matchingFiling("S100NOPDF")
	noPDF.PDFFlag = "0"

	withdrawn := matchingFiling("S100WDRN")
	withdrawn.WithdrawalStatus = "1"

	wrongType := matchingFiling("S100WTYPE")
	wrongType.DocTypeCode = "130"

	correction := matchingFiling("S100CORR")
	correction.DocDescription = "訂正有価証券報告書－第99期"

	good := matchingFiling("S100GOOD")

	lister := &fakeLister{days: map[string]fakeDay{
		dayKey(0): okDay(noPDF, withdrawn, wrongType, correction, good),
	}}

	outcome, err := newTestScanner(lister).Scan(context.Background(), types.NewTargetCriteria("9110", 5, true))
	require.NoError(t, err)
	require.True(t, outcome.Found())

	f := outcome.Filing
	assert.Equal(t, "S100GOOD", f.DocID)
	assert.True(t, f.MatchesTicker("9110"))
	assert.True(t, f.HasPDF())
	assert.False(t, f.Withdrawn())
	assert.False(t, f.IsCorrection())
	assert.Equal(t, 5, outcome.Log[0].TotalListed)
}

func TestScanFirstMatchInListingOrderWins(t *testing.T) {
	first := matchingFiling("S100FIRST")
	second := matchingFiling("S100SECOND")

	lister := &fakeLister{days: map[string]fakeDay{
		dayKey(0): okDay(first, second),
	}}

	outcome, err := newTestScanner(lister).Scan(context.Background(), types.NewTargetCriteria("9110", 5, true))
	require.NoError(t, err)
	require.True(t, outcome.Found())
	assert.Equal(t, "S100FIRST", outcome.Filing.DocID)
}

func TestScanCorrectionSkippedOlderFilingReturned(t *testing.T) {
	correction := matchingFiling("S100CORR")
	correction.DocDescription = "訂正有価証券報告書－第98期"

	lister := &fakeLister{days: map[string]fakeDay{
		dayKey(0): okDay(correction),
		dayKey(3): okDay(matchingFiling("S100ORIG")),
	}}

	outcome, err := newTestScanner(lister).Scan(context.Background(), types.NewTargetCriteria("9110", 10, true))
	require.NoError(t, err)
	require.True(t, outcome.Found())

	assert.Equal(t, "S100ORIG", outcome.Filing.DocID)
	assert.Len(t, outcome.Log, 4)
	// The correction day records why its ticker hit was rejected.
	assert.Contains(t, outcome.Log[0].Detail, "correction=true")
}

func TestScanContinuesPastTransientFailures(t *testing.T) {
	lister := &fakeLister{days: map[string]fakeDay{
		dayKey(0): {res: ListResult{HTTPStatus: types.StatusTransportFailure}, err: errors.New("dial tcp: connection refused")},
		dayKey(1): {res: ListResult{HTTPStatus: http.StatusServiceUnavailable}},
		dayKey(2): {res: ListResult{HTTPStatus: http.StatusOK, MetadataStatus: "500"}},
		dayKey(3): okDay(matchingFiling("S100LATE")),
	}}

	outcome, err := newTestScanner(lister).Scan(context.Background(), types.NewTargetCriteria("9110", 10, true))
	require.NoError(t, err, "per-day failures never abort the scan")
	require.True(t, outcome.Found())
	assert.Equal(t, "S100LATE", outcome.Filing.DocID)
	require.Len(t, outcome.Log, 4)

	transport := outcome.Log[0]
	assert.Equal(t, types.StatusTransportFailure, transport.HTTPStatus)
	assert.True(t, transport.BackoffApplied)

	transient := outcome.Log[1]
	assert.Equal(t, http.StatusServiceUnavailable, transient.HTTPStatus)
	assert.True(t, transient.BackoffApplied)

	badMeta := outcome.Log[2]
	assert.Equal(t, "500", badMeta.MetadataStatus)
	assert.False(t, badMeta.BackoffApplied)
	assert.Contains(t, badMeta.Detail, "internal status 500")
}

func TestScanRejectsInvalidCriteria(t *testing.T) {
	lister := &fakeLister{days: map[string]fakeDay{}}
	scanner := newTestScanner(lister)

	_, err := scanner.Scan(context.Background(), types.NewTargetCriteria("badt", 30, true))
	require.Error(t, err)
	assert.Empty(t, lister.calls, "no network calls on invalid criteria")
}

func TestScanTickerPrefixNotExactMatch(t *testing.T) {
	nearMiss := matchingFiling("S100NEAR")
	nearMiss.SecCode = "9111" // shares no 4-char prefix with 9110

	hit := matchingFiling("S100HIT")
	hit.SecCode = "91101"

	lister := &fakeLister{days: map[string]fakeDay{
		dayKey(0): okDay(nearMiss, hit),
	}}

	outcome, err := newTestScanner(lister).Scan(context.Background(), types.NewTargetCriteria("9110", 5, true))
	require.NoError(t, err)
	require.True(t, outcome.Found())
	assert.Equal(t, "S100HIT", outcome.Filing.DocID)
}
