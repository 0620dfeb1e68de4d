/*
Package notify handles presentation of a finished analysis: console output,
the saved report file, and optional email delivery.
*/
package notify

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shanehull/edinetai/internal/types"
)

// NotificationData carries everything the renderers need about one
// completed analysis.
type NotificationData struct {
	Ticker    string
	Filing    types.FilingDescriptor
	Report    string
	PageCount int
	PDFBytes  int
}

// RenderedMessage is a ready-to-send email body pair.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// ReportResult prints the matched filing and the analysis to the console.
func ReportResult(data NotificationData, reportPath string) {
	f := data.Filing

	fmt.Println("\n===========================================")
	fmt.Printf("✅ FILING FOUND: %s\n", f.FilerName)
	fmt.Println("===========================================")
	fmt.Printf("Document: %s\n", f.DocDescription)
	fmt.Printf("DocID:    %s | TypeCode: %s | Submitted: %s\n", f.DocID, f.DocTypeCode, f.SubmitDateTime)
	if data.PageCount > 0 {
		fmt.Printf("PDF:      %.2f MB, %d pages\n", float64(data.PDFBytes)/1024/1024, data.PageCount)
	} else {
		fmt.Printf("PDF:      %.2f MB\n", float64(data.PDFBytes)/1024/1024)
	}
	fmt.Println("\n--- ANALYSIS ---")
	fmt.Println(data.Report)
	fmt.Println("\n===========================================")
	fmt.Printf("Report saved to %s.\n", reportPath)
	fmt.Println("===========================================")
}

// ReportExhausted explains a scan that found nothing, echoing the criteria
// and the per-day diagnostic log so the user can see why.
func ReportExhausted(criteria types.TargetCriteria, scanLog []types.ScanDayResult) {
	fmt.Println("\n-------------------------------------------")
	fmt.Printf("No filing found for ticker %s within the last %d days.\n", criteria.Ticker, criteria.LookbackDays)
	fmt.Println("-------------------------------------------")
	fmt.Printf("Criteria: ticker %s (prefix match), docTypeCodes %s\n", criteria.Ticker, allowedTypesList(criteria))
	fmt.Println("Excluded: filings without PDF, corrections, withdrawn filings")
	fmt.Printf("\nScan log (%d days):\n", len(scanLog))

	for _, day := range scanLog {
		status := fmt.Sprintf("%d", day.HTTPStatus)
		if day.HTTPStatus == types.StatusTransportFailure {
			status = "transport-failure"
		}
		line := fmt.Sprintf("  %s  status=%s", day.Date.Format("2006-01-02"), status)
		if day.MetadataStatus != "" {
			line += fmt.Sprintf(" meta=%s", day.MetadataStatus)
		}
		line += fmt.Sprintf(" listed=%d", day.TotalListed)
		if day.BackoffApplied {
			line += " backoff"
		}
		if day.Detail != "" {
			line += "  " + day.Detail
		}
		fmt.Println(line)
	}
}

// SaveReport writes the analysis report with a provenance header to path.
func SaveReport(path string, data NotificationData) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s: %s\n\n", data.Filing.FilerName, data.Filing.DocDescription))
	sb.WriteString(fmt.Sprintf("- Ticker: %s\n", data.Ticker))
	sb.WriteString(fmt.Sprintf("- DocID: %s\n", data.Filing.DocID))
	sb.WriteString(fmt.Sprintf("- Submitted: %s\n", data.Filing.SubmitDateTime))
	if data.PageCount > 0 {
		sb.WriteString(fmt.Sprintf("- Pages: %d\n", data.PageCount))
	}
	sb.WriteString(fmt.Sprintf("- Generated: %s\n\n", time.Now().Format("2006-01-02 15:04")))
	sb.WriteString("---\n\n")
	sb.WriteString(data.Report)
	sb.WriteString("\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

func allowedTypesList(criteria types.TargetCriteria) string {
	codes := make([]string, 0, len(criteria.AllowedDocTypes))
	for _, code := range []string{types.DocTypeAnnualReport, types.DocTypeQuarterlyReport, types.DocTypeSemiAnnualReport} {
		if criteria.AllowedDocTypes[code] {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, ", ")
}
