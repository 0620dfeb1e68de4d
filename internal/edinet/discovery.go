package edinet

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shanehull/edinetai/internal/common"
	"github.com/shanehull/edinetai/internal/types"
)

// DefaultBackoff is the fixed delay applied after a transient listing
// failure before moving on to the next day. The failed date is not
// re-requested; the scan deliberately moves on.
const DefaultBackoff = 500 * time.Millisecond

// lister is the slice of the registry client the scanner needs.
type lister interface {
	ListDocuments(ctx context.Context, date time.Time) (ListResult, error)
}

// Scanner finds the most recent filing matching a TargetCriteria by walking
// the registry's daily listings backwards from today. The registry has no
// search-by-ticker endpoint, only list-everything-filed-on-date, which
// forces the linear scan. Scans are strictly sequential: one blocking
// listing call per day, no fan-out, because the registry rate limits
// aggressively and a ticker lookup is latency-tolerant.
type Scanner struct {
	client  lister
	logger  *common.Logger
	backoff time.Duration
	now     func() time.Time
}

// ScannerOption configures the scanner
type ScannerOption func(*Scanner)

// WithScanLogger sets the logger
func WithScanLogger(logger *common.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithBackoff sets the delay applied after a transient listing failure
func WithBackoff(d time.Duration) ScannerOption {
	return func(s *Scanner) {
		s.backoff = d
	}
}

// NewScanner creates a discovery scanner backed by the given registry client.
func NewScanner(client lister, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		client:  client,
		logger:  common.NewSilentLogger(),
		backoff: DefaultBackoff,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan walks backwards from today for criteria.LookbackDays days and
// returns the first filing satisfying all filter predicates, in listing
// order, together with one diagnostic record per day scanned. Per-day
// failures never abort the scan; they are logged and the scan continues
// after a fixed backoff. The only propagated error is invalid criteria.
func (s *Scanner) Scan(ctx context.Context, criteria types.TargetCriteria) (types.DiscoveryOutcome, error) {
	if err := criteria.Validate(); err != nil {
		return types.DiscoveryOutcome{}, fmt.Errorf("invalid target criteria: %w", err)
	}

	today := s.now()
	log := make([]types.ScanDayResult, 0, criteria.LookbackDays)

	for i := 0; i < criteria.LookbackDays; i++ {
		if err := ctx.Err(); err != nil {
			return types.DiscoveryOutcome{Log: log}, err
		}

		date := today.AddDate(0, 0, -i)
		day := types.ScanDayResult{Date: date}

		res, err := s.client.ListDocuments(ctx, date)
		day.HTTPStatus = res.HTTPStatus
		day.MetadataStatus = res.MetadataStatus
		day.TotalListed = len(res.Results)

		switch {
		case err != nil:
			// Transport failure or undecodable body. Log, back off, move
			// to the next day.
			day.Detail = err.Error()
			day.BackoffApplied = true
			log = append(log, day)
			s.logger.Warn().
				Str("date", date.Format("2006-01-02")).
				Err(err).
				Msg("Listing call failed, continuing scan")
			s.sleep(ctx)
			continue

		case res.HTTPStatus == http.StatusNotFound:
			// The registry returns 404 for days with zero submissions
			// (weekends, market holidays). Not an error.
			day.Detail = "no filings listed for this day"
			log = append(log, day)
			continue

		case res.HTTPStatus != http.StatusOK:
			day.Detail = fmt.Sprintf("transient HTTP %d from registry", res.HTTPStatus)
			day.BackoffApplied = true
			log = append(log, day)
			s.logger.Warn().
				Str("date", date.Format("2006-01-02")).
				Int("status", res.HTTPStatus).
				Msg("Transient registry status, continuing scan")
			s.sleep(ctx)
			continue

		case res.MetadataStatus != "" && res.MetadataStatus != "200":
			day.Detail = fmt.Sprintf("registry reported internal status %s", res.MetadataStatus)
			log = append(log, day)
			continue
		}

		if len(res.Results) == 0 {
			day.Detail = "empty result list"
			log = append(log, day)
			continue
		}

		match, note := filterFilings(res.Results, criteria)
		if match != nil {
			day.Detail = fmt.Sprintf("matched %s (%s)", match.DocID, match.DocDescription)
			log = append(log, day)
			s.logger.Info().
				Str("date", date.Format("2006-01-02")).
				Str("docID", match.DocID).
				Str("filer", match.FilerName).
				Msg("Filing matched")
			return types.DiscoveryOutcome{Filing: match, Log: log}, nil
		}

		if note != "" {
			day.Detail = note
		} else {
			day.Detail = fmt.Sprintf("%d filings listed, none for ticker %s", len(res.Results), criteria.Ticker)
		}
		log = append(log, day)
	}

	s.logger.Info().
		Str("ticker", criteria.Ticker).
		Int("daysScanned", len(log)).
		Msg("Scan exhausted with no match")

	return types.DiscoveryOutcome{Log: log}, nil
}

// filterFilings applies the five filter predicates to each filing in
// listing order and returns the first full match. The predicates
// short-circuit per filing in a fixed sequence: ticker prefix, PDF
// availability, not withdrawn, type whitelist, not a correction. There is
// no ranking; the first filing to pass all five wins even if a "better"
// candidate appears later in the list. When no filing fully matches, the
// returned note records the predicate results of the last filing that at
// least shared the ticker, for diagnostics.
func filterFilings(filings []types.FilingDescriptor, criteria types.TargetCriteria) (*types.FilingDescriptor, string) {
	note := ""

	for i := range filings {
		f := filings[i]

		if !f.MatchesTicker(criteria.Ticker) {
			continue
		}
		note = nearMissNote(f, criteria)

		if !f.HasPDF() {
			continue
		}
		if f.Withdrawn() {
			continue
		}
		if !criteria.AllowsDocType(f.DocTypeCode) {
			continue
		}
		if f.IsCorrection() {
			continue
		}

		return &f, ""
	}

	return nil, note
}

// nearMissNote describes which predicates a ticker-sharing filing satisfied.
func nearMissNote(f types.FilingDescriptor, criteria types.TargetCriteria) string {
	return fmt.Sprintf("ticker hit %s: pdf=%t withdrawn=%t typeAllowed=%t correction=%t",
		f.DocID, f.HasPDF(), f.Withdrawn(), criteria.AllowsDocType(f.DocTypeCode), f.IsCorrection())
}

// sleep applies the fixed transient-failure backoff, returning early if the
// caller aborts.
func (s *Scanner) sleep(ctx context.Context) {
	if s.backoff <= 0 {
		return
	}
	select {
	case <-time.After(s.backoff):
	case <-ctx.Done():
	}
}
