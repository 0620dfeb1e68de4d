package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/shanehull/edinetai/internal/ai"
	"github.com/shanehull/edinetai/internal/common"
	"github.com/shanehull/edinetai/internal/config"
	"github.com/shanehull/edinetai/internal/document"
	"github.com/shanehull/edinetai/internal/edinet"
	"github.com/shanehull/edinetai/internal/notify"
	"github.com/shanehull/edinetai/internal/types"
)

var (
	ticker     = flag.String("ticker", "", "(-t) 4-digit securities code to analyze (e.g. 9110)")
	lookback   = flag.Int("lookback", 0, "(-l) Days to scan backwards (default from config, 90)")
	semiAnnual = flag.Bool("semiannual", true, "Include semi-annual reports (some filers submit them instead of quarterlies)")
	model      = flag.String("model", "", "Gemini model name (default from config)")
	configPath = flag.String("config", "edinetai.toml", "Path to TOML config file")
	outPath    = flag.String("out", "", "Report output path (default: report_<ticker>.md)")
)

func init() {
	flag.StringVar(ticker, "t", "", "(-t) 4-digit securities code to analyze (shorthand)")
	flag.IntVar(lookback, "l", 0, "(-l) Days to scan backwards (shorthand)")
}

func main() {
	flag.Parse()

	if *ticker == "" {
		fmt.Println("Error: a ticker is required.")
		fmt.Println("Usage: analyst -ticker 9110 [-lookback 90] [-semiannual=false] [-config edinetai.toml]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Fatal error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(cfg.Logging.Level)

	if cfg.Edinet.APIKey == "" {
		logger.Fatal().Msg("EDINET API key is required (config edinet.api_key or EDINET_API_KEY)")
	}
	if cfg.Gemini.APIKey == "" {
		logger.Fatal().Msg("Gemini API key is required (config gemini.api_key or GEMINI_API_KEY)")
	}

	days := cfg.Search.LookbackDays
	if *lookback > 0 {
		days = *lookback
	}

	includeSemiAnnual := cfg.Search.IncludeSemiAnnual
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "semiannual" {
			includeSemiAnnual = *semiAnnual
		}
	})

	criteria := types.NewTargetCriteria(*ticker, days, includeSemiAnnual)
	if err := criteria.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	modelName := cfg.Gemini.Model
	if *model != "" {
		modelName = *model
	}

	ctx := context.Background()

	client := edinet.NewClient(cfg.Edinet.APIKey,
		edinet.WithBaseURL(cfg.Edinet.BaseURL),
		edinet.WithRateLimit(cfg.Edinet.RateLimit),
		edinet.WithListTimeout(cfg.Edinet.GetListTimeout()),
		edinet.WithFetchTimeout(cfg.Edinet.GetFetchTimeout()),
		edinet.WithLogger(logger),
	)

	scanner := edinet.NewScanner(client,
		edinet.WithScanLogger(logger),
		edinet.WithBackoff(cfg.Search.GetBackoff()),
	)

	fmt.Printf("Searching the last %d days for filings by ticker %s...\n", days, criteria.Ticker)

	outcome, err := scanner.Scan(ctx, criteria)
	if err != nil {
		logger.Fatal().Err(err).Msg("Scan failed")
	}

	if !outcome.Found() {
		notify.ReportExhausted(criteria, outcome.Log)
		os.Exit(1)
	}

	filing := outcome.Filing
	logger.Info().
		Str("docID", filing.DocID).
		Str("filer", filing.FilerName).
		Str("submitted", filing.SubmitDateTime).
		Msg("Downloading document")

	payload, contentType, err := client.FetchDocument(ctx, filing.DocID)
	if err != nil {
		logger.Fatal().Err(err).Str("docID", filing.DocID).Msg("Document download failed")
	}

	pdfBytes, err := document.ExtractPDF(payload, contentType)
	if err != nil {
		if errors.Is(err, document.ErrNoPDF) {
			fmt.Printf("No PDF is available for document %s (%s).\n", filing.DocID, filing.DocDescription)
			os.Exit(1)
		}
		logger.Fatal().Err(err).Str("docID", filing.DocID).Msg("PDF extraction failed")
	}

	pages, err := document.PageCount(pdfBytes)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not determine PDF page count")
	}

	logger.Info().
		Int("bytes", len(pdfBytes)).
		Int("pages", pages).
		Str("model", modelName).
		Msg("Submitting PDF for analysis")

	analyzer, err := ai.NewAnalyzer(ctx, cfg.Gemini.APIKey,
		ai.WithModel(modelName),
		ai.WithAnalyzerLogger(logger),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create analyzer")
	}

	displayName := fmt.Sprintf("%s_%s.pdf", criteria.Ticker, filing.DocID)
	report, err := analyzer.AnalyzePDF(ctx, pdfBytes, displayName)
	if err != nil {
		logger.Fatal().Err(err).Msg("Analysis failed")
	}

	data := notify.NotificationData{
		Ticker:    criteria.Ticker,
		Filing:    *filing,
		Report:    report,
		PageCount: pages,
		PDFBytes:  len(pdfBytes),
	}

	reportPath := *outPath
	if reportPath == "" {
		reportPath = fmt.Sprintf("report_%s.md", criteria.Ticker)
	}
	if err := notify.SaveReport(reportPath, data); err != nil {
		logger.Error().Err(err).Msg("Failed to save report")
	}

	notify.ReportResult(data, reportPath)

	emailCfg := notify.EmailConfig{
		SMTPServer: cfg.Email.SMTPServer,
		SMTPPort:   cfg.Email.SMTPPort,
		SMTPUser:   cfg.Email.SMTPUser,
		SMTPPass:   cfg.Email.SMTPPass,
		FromEmail:  cfg.Email.FromEmail,
		ToEmail:    cfg.Email.ToEmail,
		Enabled:    cfg.Email.Enabled(),
	}
	if emailCfg.FromEmail == "" && emailCfg.SMTPUser != "" {
		emailCfg.FromEmail = emailCfg.SMTPUser
	}

	if emailCfg.Enabled {
		msg, err := notify.NewHTMLEmailRenderer().Render(data)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to render email")
			return
		}
		sender := notify.NewEmailSender(emailCfg, notify.WithSenderLogger(logger))
		if err := sender.Send(msg); err != nil {
			logger.Error().Err(err).Msg("Failed to send email")
		}
	}
}
