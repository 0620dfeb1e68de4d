/*
Package document extracts the report PDF from a registry document payload
and inspects the result.
*/
package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPDF means the payload contains no PDF rendition. This is a defined
// negative outcome ("no document available"), not a processing failure.
var ErrNoPDF = errors.New("no PDF found in document payload")

// ErrBadArchive means the payload declared itself an archive but could not
// be opened or read. Distinct from ErrNoPDF so callers can surface it as a
// hard failure.
var ErrBadArchive = errors.New("malformed document archive")

// ExtractPDF returns the PDF bytes embedded in a document payload.
//
// A direct application/pdf payload passes through unchanged. ZIP and
// octet-stream payloads are opened as archives and the largest embedded
// .pdf entry wins: the main report is the largest file, supplementary
// attachments are smaller. Any other content type yields ErrNoPDF.
func ExtractPDF(payload []byte, contentType string) ([]byte, error) {
	switch {
	case strings.Contains(contentType, "application/pdf"):
		return payload, nil
	case strings.Contains(contentType, "application/zip"),
		strings.Contains(contentType, "application/octet-stream"):
		return extractFromZip(payload)
	default:
		return nil, ErrNoPDF
	}
}

func extractFromZip(payload []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}

	var target *zip.File
	for _, f := range r.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".pdf") {
			continue
		}
		if target == nil || f.UncompressedSize64 > target.UncompressedSize64 {
			target = f
		}
	}

	if target == nil {
		return nil, ErrNoPDF
	}

	rc, err := target.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrBadArchive, target.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrBadArchive, target.Name, err)
	}

	return data, nil
}

// PageCount parses the extracted PDF and returns its page count. Used for
// operator feedback and the report header; a parse failure here does not
// invalidate the extraction itself.
func PageCount(pdfBytes []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return r.NumPage(), nil
}
