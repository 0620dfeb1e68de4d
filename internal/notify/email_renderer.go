package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// HTMLEmailRenderer renders a finished analysis as an HTML email with a
// plain text fallback.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

// NewHTMLEmailRenderer creates a renderer with the default email template.
func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("email").Parse(emailHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

// Render produces an HTML email with plain text alternative.
func (r *HTMLEmailRenderer) Render(data NotificationData) (*RenderedMessage, error) {
	subject := fmt.Sprintf("EDINET Report: %s - %s", data.Ticker, data.Filing.FilerName)

	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    renderPlainText(data),
		HTML:    htmlBuf.String(),
	}, nil
}

// renderPlainText produces a readable plain text version for email clients
// that don't support HTML.
func renderPlainText(data NotificationData) string {
	f := data.Filing
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s - %s\n", data.Ticker, f.FilerName))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(fmt.Sprintf("Document: %s\n", f.DocDescription))
	sb.WriteString(fmt.Sprintf("DocID: %s\n", f.DocID))
	sb.WriteString(fmt.Sprintf("Type Code: %s\n", f.DocTypeCode))
	sb.WriteString(fmt.Sprintf("Submitted: %s\n", f.SubmitDateTime))
	if data.PageCount > 0 {
		sb.WriteString(fmt.Sprintf("Pages: %d\n", data.PageCount))
	}
	sb.WriteString("\n")

	sb.WriteString("ANALYSIS\n")
	sb.WriteString(strings.Repeat("-", 20) + "\n")
	sb.WriteString(data.Report + "\n")

	return sb.String()
}
