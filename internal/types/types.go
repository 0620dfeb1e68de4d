/*
Package types defines the domain records shared across the EDINET analyst:
filing descriptors as returned by the registry, scan criteria, and the
per-day diagnostic log.
*/
package types

import (
	"fmt"
	"strings"
	"time"
)

// EDINET docTypeCode values for the report categories we target.
const (
	DocTypeAnnualReport     = "120"
	DocTypeQuarterlyReport  = "140"
	DocTypeSemiAnnualReport = "160"
)

// correctionMarker appears in docDescription when a filing is a correction
// (訂正報告書) superseding an earlier submission.
const correctionMarker = "訂正"

// withdrawnStatus is the withdrawalStatus value for retracted filings.
const withdrawnStatus = "1"

// tickerLength is the canonical securities code length. EDINET secCode
// values are usually five digits (ticker plus a check digit), so matching
// is done on the leading four characters.
const tickerLength = 4

// FilingDescriptor is one document row from a day's listing, decoded from
// the registry's JSON keys. It is never mutated after decode.
type FilingDescriptor struct {
	DocID            string `json:"docID"`
	SecCode          string `json:"secCode"`
	DocTypeCode      string `json:"docTypeCode"`
	DocDescription   string `json:"docDescription"`
	PDFFlag          string `json:"pdfFlag"`
	WithdrawalStatus string `json:"withdrawalStatus"`
	FilerName        string `json:"filerName"`
	SubmitDateTime   string `json:"submitDateTime"`
}

// MatchesTicker reports whether the filing's secCode starts with the given
// 4-digit ticker. Comparison is by string prefix so leading zeros are
// preserved; a secCode shorter than the ticker never matches.
func (f FilingDescriptor) MatchesTicker(ticker string) bool {
	return len(f.SecCode) >= tickerLength && f.SecCode[:tickerLength] == ticker
}

// HasPDF reports whether the registry offers a PDF rendition.
func (f FilingDescriptor) HasPDF() bool {
	return f.PDFFlag == "1"
}

// Withdrawn reports whether the filing has been retracted. The field is
// tri-state in the API; absence means not withdrawn.
func (f FilingDescriptor) Withdrawn() bool {
	return f.WithdrawalStatus == withdrawnStatus
}

// IsCorrection reports whether the filing is a correction resubmission.
func (f FilingDescriptor) IsCorrection() bool {
	return strings.Contains(f.DocDescription, correctionMarker)
}

// TargetCriteria configures one discovery scan. Derived once per call and
// treated as immutable for the scan's duration.
type TargetCriteria struct {
	Ticker          string
	LookbackDays    int
	AllowedDocTypes map[string]bool
}

// NewTargetCriteria builds scan criteria for a ticker. Annual and quarterly
// reports are always targeted; semi-annual reports are opt-in because some
// filers submit them in place of quarterly reports.
func NewTargetCriteria(ticker string, lookbackDays int, includeSemiAnnual bool) TargetCriteria {
	allowed := map[string]bool{
		DocTypeAnnualReport:    true,
		DocTypeQuarterlyReport: true,
	}
	if includeSemiAnnual {
		allowed[DocTypeSemiAnnualReport] = true
	}

	return TargetCriteria{
		Ticker:          ticker,
		LookbackDays:    lookbackDays,
		AllowedDocTypes: allowed,
	}
}

// Validate checks that the criteria can drive a scan: a 4-digit numeric
// ticker and a lookback window of at least one day.
func (c TargetCriteria) Validate() error {
	if len(c.Ticker) != tickerLength {
		return fmt.Errorf("ticker must be exactly %d digits, got %q", tickerLength, c.Ticker)
	}
	for _, r := range c.Ticker {
		if r < '0' || r > '9' {
			return fmt.Errorf("ticker must be numeric, got %q", c.Ticker)
		}
	}
	if c.LookbackDays < 1 {
		return fmt.Errorf("lookback days must be >= 1, got %d", c.LookbackDays)
	}
	if len(c.AllowedDocTypes) == 0 {
		return fmt.Errorf("no document types allowed")
	}
	return nil
}

// AllowsDocType reports whether the given docTypeCode is targeted.
func (c TargetCriteria) AllowsDocType(code string) bool {
	return c.AllowedDocTypes[code]
}

// StatusTransportFailure is the sentinel recorded in a ScanDayResult when a
// listing call failed before producing any HTTP status (DNS, timeout, TLS).
// It is distinguishable from every valid HTTP code and from the zero value.
const StatusTransportFailure = -1

// ScanDayResult is the diagnostic record for a single scanned day. Records
// are appended in scan order and never mutated afterwards.
type ScanDayResult struct {
	Date           time.Time
	HTTPStatus     int
	MetadataStatus string // registry's embedded metadata.status; empty when absent
	TotalListed    int
	Detail         string // last relevant event observed for the day
	BackoffApplied bool
}

// DiscoveryOutcome pairs the matched filing (nil when the scan was
// exhausted) with the full ordered diagnostic log.
type DiscoveryOutcome struct {
	Filing *FilingDescriptor
	Log    []ScanDayResult
}

// Found reports whether the scan located a matching filing.
func (o DiscoveryOutcome) Found() bool {
	return o.Filing != nil
}
