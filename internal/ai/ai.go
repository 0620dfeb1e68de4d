/*
Package ai submits extracted filing PDFs to the Gemini API and returns a
structured Markdown analyst report.
*/
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"github.com/shanehull/edinetai/internal/common"
)

const (
	DefaultModel          = "gemini-2.0-flash"
	DefaultMaxContentSize = 20 * 1024 * 1024 // inline data cap for PDF payloads

	maxRetries = 4
)

// Analyzer wraps the Gemini client with the filing analysis prompt and a
// retry policy for rate-limit errors.
type Analyzer struct {
	client         *genai.Client
	model          string
	maxContentSize int
	logger         *common.Logger
}

// AnalyzerOption configures the analyzer
type AnalyzerOption func(*Analyzer)

// WithModel sets the model to use
func WithModel(model string) AnalyzerOption {
	return func(a *Analyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithAnalyzerLogger sets the logger
func WithAnalyzerLogger(logger *common.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates a Gemini-backed analyzer.
func NewAnalyzer(ctx context.Context, apiKey string, opts ...AnalyzerOption) (*Analyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	a := &Analyzer{
		client:         client,
		model:          DefaultModel,
		maxContentSize: DefaultMaxContentSize,
		logger:         common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// AnalyzePDF sends the PDF inline to Gemini and returns the generated
// Markdown report. Rate-limit and quota errors are retried with
// exponential backoff; all other failures are permanent.
func (a *Analyzer) AnalyzePDF(ctx context.Context, pdfBytes []byte, displayName string) (string, error) {
	if len(pdfBytes) == 0 {
		return "", fmt.Errorf("empty PDF payload")
	}
	if len(pdfBytes) > a.maxContentSize {
		return "", fmt.Errorf("PDF too large for inline analysis: %d bytes (limit %d)", len(pdfBytes), a.maxContentSize)
	}

	systemContent := &genai.Content{
		Parts: []*genai.Part{
			{Text: systemInstruction},
		},
		Role: "system",
	}

	userContent := &genai.Content{
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: pdfBytes}},
			{Text: analysisPrompt},
		},
		Role: "user",
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: systemContent,
		Temperature:       genai.Ptr[float32](0.2),
	}

	a.logger.Debug().
		Str("model", a.model).
		Str("document", displayName).
		Int("bytes", len(pdfBytes)).
		Msg("Submitting PDF for analysis")

	operation := func() (*genai.GenerateContentResponse, error) {
		resp, err := a.client.Models.GenerateContent(ctx, a.model, []*genai.Content{userContent}, config)
		if err != nil {
			if isRetryable(err) {
				a.logger.Warn().Err(err).Msg("Gemini rate limited, will retry")
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return resp, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), maxRetries), ctx)

	resp, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		return "", fmt.Errorf("gemini analysis failed for %s: %w", displayName, err)
	}

	report := resp.Text()
	if strings.TrimSpace(report) == "" {
		return "", fmt.Errorf("gemini returned an empty report for %s", displayName)
	}

	return report, nil
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 4 * time.Second
	b.Multiplier = 2
	b.MaxInterval = 60 * time.Second
	return b
}

// isRetryable reports whether a Gemini error is a rate-limit/quota failure
// worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit")
}
