package notify

import (
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/shanehull/edinetai/internal/common"
)

const defaultDialTimeout = 10 * time.Second

// EmailConfig holds SMTP delivery settings for the report email.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
	Enabled    bool
}

// EmailSender delivers rendered analyst reports via SMTP.
type EmailSender struct {
	cfg         EmailConfig
	dialTimeout time.Duration
	logger      *common.Logger
}

// SenderOption configures the sender
type SenderOption func(*EmailSender)

// WithSenderLogger sets the logger
func WithSenderLogger(logger *common.Logger) SenderOption {
	return func(s *EmailSender) {
		s.logger = logger
	}
}

// WithDialTimeout sets the SMTP dial timeout
func WithDialTimeout(d time.Duration) SenderOption {
	return func(s *EmailSender) {
		if d > 0 {
			s.dialTimeout = d
		}
	}
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg EmailConfig, opts ...SenderOption) *EmailSender {
	s := &EmailSender{
		cfg:         cfg,
		dialTimeout: defaultDialTimeout,
		logger:      common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Send delivers the report email with an HTML body and plain text fallback.
// A disabled configuration is a no-op. Delivery failures are returned to the
// caller; the sender itself only logs the attempt and the success.
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}

	s.logger.Debug().
		Str("to", s.cfg.ToEmail).
		Str("subject", msg.Subject).
		Msg("Sending report email")

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = s.dialTimeout

	if err := dialer.DialAndSend(m); err != nil {
		return err
	}

	s.logger.Info().
		Str("to", s.cfg.ToEmail).
		Str("subject", msg.Subject).
		Msg("Report emailed")
	return nil
}
