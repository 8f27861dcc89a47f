package mailer

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/granempresa/erp-portal/pkg/configuration"
)

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string
	From     string

	To  []string
	Cc  []string
	Bcc []string

	Subject string

	TextBody string
	HTMLBody string

	Headers map[string]string
}

func (e Email) AllRecipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	out = append(out, e.To...)
	out = append(out, e.Cc...)
	out = append(out, e.Bcc...)
	return out
}

// New returns an SMTP mailer when a relay is configured, otherwise a mailer
// that only logs the messages it would have sent.
func New(opts configuration.SMTPOptions, logger *logrus.Logger) Service {
	if opts.Enabled() {
		return NewSMTPMailer(opts)
	}
	return &LogMailer{logger: logger, from: opts.From, fromName: opts.FromName}
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct {
	logger   *logrus.Logger
	from     string
	fromName string
}

func NewLogMailer(logger *logrus.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, e Email) error {
	e = withDefaultFrom(e, m.from, m.fromName)
	if _, err := buildMIMEMessage(e, "localhost"); err != nil {
		return err
	}
	logger := m.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"to":      e.To,
		"subject": e.Subject,
	}).Info("mailer: smtp disabled, email logged only")
	return nil
}

// Recorder keeps sent emails in memory.
type Recorder struct {
	mu   sync.Mutex
	Sent []Email
	Err  error
}

func (m *Recorder) Send(_ context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

func (m *Recorder) Emails() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.Sent...)
}

func withDefaultFrom(e Email, from, fromName string) Email {
	if e.From == "" {
		e.From = from
	}
	if e.FromName == "" {
		e.FromName = fromName
	}
	return e
}
